package middleware

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ivanka58/convertobot/internal/contextkeys"
)

// AnalyzeMessageMiddleware классифицирует апдейт до основного обработчика:
// команда, текст или вложение определённого класса.
func AnalyzeMessageMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		msg := update.Message

		switch {
		case msg.Text != "" && strings.HasPrefix(msg.Text, "/"):
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeCommand)
		case msg.Document != nil:
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeDocument)
			ctx = contextkeys.WithFileInfo(ctx, &contextkeys.FileInfo{
				FileID:   msg.Document.FileID,
				FileName: msg.Document.FileName,
				FileSize: int64(msg.Document.FileSize),
				MimeType: msg.Document.MimeType,
			})
		case msg.Video != nil:
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeVideo)
			ctx = contextkeys.WithFileInfo(ctx, &contextkeys.FileInfo{
				FileID:   msg.Video.FileID,
				FileName: msg.Video.FileName,
				FileSize: int64(msg.Video.FileSize),
				MimeType: msg.Video.MimeType,
			})
		case msg.VideoNote != nil:
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeVideoNote)
			ctx = contextkeys.WithFileInfo(ctx, &contextkeys.FileInfo{
				FileID: msg.VideoNote.FileID,
			})
		case msg.Text != "":
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeText)
		default:
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeUnknown)
		}

		next(ctx, b, update)
	}
}
