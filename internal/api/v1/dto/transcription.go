package dto

import (
	"time"

	"rapidscribe/internal/api/errors"
	"rapidscribe/internal/app/model"
)

// CreateTranscriptionRequest creates an asynchronous transcription job from a
// file already reachable by the server. Exactly one of file_path (local disk)
// or file_url (object storage key or HTTP URL) must be set.
type CreateTranscriptionRequest struct {
	FilePath   string `json:"file_path,omitempty"`
	FileURL    string `json:"file_url,omitempty"`
	Collection string `json:"collection,omitempty"`
	Provider   string `json:"provider,omitempty"`
	Language   string `json:"language,omitempty"`
	Format     string `json:"format,omitempty" binding:"omitempty,oneof=text json srt vtt"`
}

// Validate enforces the file_path/file_url exclusivity rule.
func (r *CreateTranscriptionRequest) Validate() error {
	fields := make(map[string]string)

	if r.FilePath == "" && r.FileURL == "" {
		fields["file_path"] = "either file_path or file_url is required"
	}
	if r.FilePath != "" && r.FileURL != "" {
		fields["file_path"] = "file_path and file_url are mutually exclusive"
	}

	if len(fields) > 0 {
		return errors.NewValidationError("invalid transcription request", fields)
	}
	return nil
}

// TranscriptionJobResponse is a job as reported by the API.
type TranscriptionJobResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	FileName    string     `json:"file_name"`
	FileURL     string     `json:"file_url,omitempty"`
	FileSize    int64      `json:"file_size,omitempty"`
	Collection  string     `json:"collection,omitempty"`
	Provider    string     `json:"provider,omitempty"`
	Language    string     `json:"language,omitempty"`
	Text        string     `json:"text,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ListJobsQuery filters and paginates GET /api/v1/transcriptions.
type ListJobsQuery struct {
	Page   int    `form:"page,default=1" binding:"min=1"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=pending processing completed failed"`
}

// PaginatedJobsResponse is a page of jobs plus pagination metadata.
type PaginatedJobsResponse struct {
	Jobs       []TranscriptionJobResponse `json:"jobs"`
	Pagination PaginationResponse         `json:"pagination"`
}

// PaginationResponse describes the page that was returned.
type PaginationResponse struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ToJobResponse converts the internal job model to its API shape.
func ToJobResponse(job *model.TranscriptionJob) TranscriptionJobResponse {
	return TranscriptionJobResponse{
		ID:          job.ID,
		Status:      job.Status,
		FileName:    job.FileName,
		FileURL:     job.FileURL,
		FileSize:    job.FileSize,
		Collection:  job.Collection,
		Provider:    job.Provider,
		Language:    job.Language,
		Text:        job.Text,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
		CompletedAt: job.CompletedAt,
	}
}
