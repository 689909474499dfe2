package model

import "time"

// CollectionStats aggregates the stored transcripts of one collection.
type CollectionStats struct {
	Collection    string  `json:"collection"`
	Files         int     `json:"files"`
	TotalDuration float64 `json:"total_duration_seconds"`
	Errors        int     `json:"errors"`
}

// Transcript is one transcribed audio file as stored in the database.
type Transcript struct {
	ID            int        `json:"id"`
	Collection    string     `json:"collection"`
	InputDir      string     `json:"input_dir"`
	FileName      string     `json:"file_name"`
	AudioFileName string     `json:"audio_file_name"`
	AudioDuration float64    `json:"audio_duration"`
	Text          string     `json:"text"`
	FileHash      string     `json:"file_hash,omitempty"`
	FileSize      int64      `json:"file_size,omitempty"`
	Provider      string     `json:"provider,omitempty"`
	Language      string     `json:"language,omitempty"`
	ModelName     string     `json:"model_name,omitempty"`
	HasError      int        `json:"has_error"` // 0 or 1
	ErrorMessage  string     `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}
