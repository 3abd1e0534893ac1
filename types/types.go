package types

import (
	"context"
	"errors"
	"time"
)

// Session хранит положение пользователя в многошаговом диалоге.
// На одного пользователя существует не более одной сессии; новая сессия
// полностью вытесняет старую.
type Session struct {
	ID           string       `json:"id"`
	UserID       int64        `json:"user_id"`
	ChatID       int64        `json:"chat_id"`
	State        SessionState `json:"state"`
	Flow         FlowKind     `json:"flow,omitempty"`
	InputFormat  string       `json:"input_format,omitempty"`
	OutputFormat string       `json:"output_format,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ConversionJob описывает одну конвертацию, созданную по завершённому диалогу.
// Временные файлы задания принадлежат только ему: ключ ID уникален.
type ConversionJob struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	UserID       int64     `json:"user_id"`
	ChatID       int64     `json:"chat_id"`
	Flow         FlowKind  `json:"flow"`
	InputFormat  string    `json:"input_format,omitempty"`
	OutputFormat string    `json:"output_format,omitempty"`
	FileID       string    `json:"file_id"`
	FileName     string    `json:"file_name,omitempty"`
	Status       JobStatus `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// JobRecord хранит строку истории конвертаций для Postgres.
type JobRecord struct {
	UserID       int64
	Flow         FlowKind
	InputFormat  string
	OutputFormat string
	FileName     string
	Succeeded    bool
	Error        string
	DurationMS   int64
	CreatedAt    time.Time
}

var ErrSessionNotFound = errors.New("session not found")

type SessionStore interface {
	Get(userID int64) (*Session, error)
	Put(session *Session) error
	Clear(userID int64) error
	// ClearIf удаляет сессию, только если её ID совпадает с ожидаемым.
	// Так завершившееся устаревшее задание не снесёт новую сессию.
	ClearIf(userID int64, sessionID string) (bool, error)
}

type HistoryStore interface {
	RecordJob(ctx context.Context, rec JobRecord) error
	RecentJobs(ctx context.Context, userID int64, limit int) ([]JobRecord, error)
}
