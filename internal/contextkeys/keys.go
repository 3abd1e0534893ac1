package contextkeys

import "context"

type messageTypeKey struct{}
type fileInfoKey struct{}

type MessageType string

const (
	MessageTypeText      MessageType = "text"
	MessageTypeCommand   MessageType = "command"
	MessageTypeDocument  MessageType = "document"
	MessageTypeVideo     MessageType = "video"
	MessageTypeVideoNote MessageType = "video_note"
	MessageTypeUnknown   MessageType = "unknown"
)

type FileInfo struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

func WithMessageType(ctx context.Context, msgType MessageType) context.Context {
	return context.WithValue(ctx, messageTypeKey{}, msgType)
}

func GetMessageType(ctx context.Context) (MessageType, bool) {
	v := ctx.Value(messageTypeKey{})
	if v == nil {
		return MessageTypeUnknown, false
	}
	return v.(MessageType), true
}

func WithFileInfo(ctx context.Context, info *FileInfo) context.Context {
	return context.WithValue(ctx, fileInfoKey{}, info)
}

func GetFileInfo(ctx context.Context) (*FileInfo, bool) {
	v := ctx.Value(fileInfoKey{})
	if v == nil {
		return nil, false
	}
	return v.(*FileInfo), true
}
