// Package common holds the types and configuration shared by the workflow,
// activity and client sides of distributed transcription. Everything here
// crosses the wire, so fields stay JSON-serializable.
package common

import "time"

// TranscribeWorkflowName is the registered name clients start workflows by.
const TranscribeWorkflowName = "TranscribeFileWorkflow"

// TranscribeFileRequest is the input to the single file workflow. Exactly one
// of FilePath and FileKey is set: FilePath names a file the worker host can
// already read, FileKey names an object to fetch from storage first.
type TranscribeFileRequest struct {
	FileID     string                 `json:"file_id"`
	FilePath   string                 `json:"file_path,omitempty"`
	FileKey    string                 `json:"file_key,omitempty"`
	Collection string                 `json:"collection"`
	Provider   string                 `json:"provider,omitempty"`
	Language   string                 `json:"language,omitempty"`
	Options    map[string]interface{} `json:"options,omitempty"`
}

// TranscribeFileResult is the workflow outcome.
type TranscribeFileResult struct {
	FileID         string        `json:"file_id"`
	Text           string        `json:"text"`
	Provider       string        `json:"provider"`
	TranscriptID   int           `json:"transcript_id,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// DownloadRequest asks the worker to pull an object into its work directory.
type DownloadRequest struct {
	FileID string `json:"file_id"`
	Key    string `json:"key"`
}

// DownloadResult reports where the object landed on the worker host.
type DownloadResult struct {
	LocalPath string `json:"local_path"`
	Size      int64  `json:"size"`
}

// TranscriptionRequest is the transcribe activity input.
type TranscriptionRequest struct {
	FileID   string                 `json:"file_id"`
	FilePath string                 `json:"file_path"`
	Provider string                 `json:"provider,omitempty"`
	Language string                 `json:"language,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

// TranscriptionResult is the transcribe activity output.
type TranscriptionResult struct {
	FileID         string        `json:"file_id"`
	Text           string        `json:"text"`
	Provider       string        `json:"provider"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// PersistRequest writes a finished transcript to the repository.
type PersistRequest struct {
	Collection string `json:"collection"`
	FileName   string `json:"file_name"`
	FilePath   string `json:"file_path,omitempty"`
	Text       string `json:"text"`
	Provider   string `json:"provider,omitempty"`
	Language   string `json:"language,omitempty"`
}

// PersistResult carries the stored row's id.
type PersistResult struct {
	TranscriptID int `json:"transcript_id"`
}

// ProviderHealthResult is the provider health activity output.
type ProviderHealthResult struct {
	Provider    string    `json:"provider"`
	Healthy     bool      `json:"healthy"`
	Message     string    `json:"message,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}
