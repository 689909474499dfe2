package services

import (
	"context"
	"io"
	"mime/multipart"

	"rapidscribe/internal/api/v1/dto"
)

// JobService manages asynchronous transcription jobs.
type JobService interface {
	CreateJob(ctx context.Context, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionJobResponse, error)
	CreateJobFromUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionJobResponse, error)
	GetJob(ctx context.Context, id string) (*dto.TranscriptionJobResponse, error)
	ListJobs(ctx context.Context, query dto.ListJobsQuery) (*dto.PaginatedJobsResponse, error)
	DeleteJob(ctx context.Context, id string) error
}

// AssistService runs the transcribe-then-chat flow for the HTTP surface.
type AssistService interface {
	Assist(ctx context.Context, req *dto.AssistRequest) (*dto.AssistResponse, error)
}

// ProviderService reports on registered speech-to-text providers.
type ProviderService interface {
	ListProviders(ctx context.Context) ([]dto.ProviderResponse, error)
	GetProvider(ctx context.Context, id string) (*dto.ProviderResponse, error)
	GetProviderStatus(ctx context.Context, id string) (*dto.ProviderStatusResponse, error)
}

// StatsService aggregates stored transcripts.
type StatsService interface {
	GetSystemStats(ctx context.Context) (*dto.SystemStatsResponse, error)
	GetCollectionStats(ctx context.Context) ([]dto.CollectionStatsResponse, error)
}

// ExportService writes stored transcripts in a download format.
type ExportService interface {
	ExportTranscripts(ctx context.Context, query dto.ExportQuery, w io.Writer) error
}
