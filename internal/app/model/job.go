package model

import "time"

// Job statuses move strictly forward: pending -> processing -> completed|failed.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// TranscriptionJob is an asynchronous transcription request accepted over HTTP.
type TranscriptionJob struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	FileName    string     `json:"file_name"`
	FilePath    string     `json:"-"` // server-local path, never serialized
	FileURL     string     `json:"file_url,omitempty"`
	FileSize    int64      `json:"file_size,omitempty"`
	Collection  string     `json:"collection,omitempty"`
	Provider    string     `json:"provider,omitempty"`
	Language    string     `json:"language,omitempty"`
	Format      string     `json:"format,omitempty"`
	Text        string     `json:"text,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
