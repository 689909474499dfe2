package provider

import (
	"context"
	"fmt"
	"time"
)

// TranscriberAdapter exposes the orchestrator through the plain Transcriber
// interface used by the batch pipeline.
type TranscriberAdapter struct {
	orchestrator TranscriptionOrchestrator
}

// NewTranscriberAdapter wraps an orchestrator.
func NewTranscriberAdapter(orchestrator TranscriptionOrchestrator) *TranscriberAdapter {
	return &TranscriberAdapter{
		orchestrator: orchestrator,
	}
}

// Transcript runs one file through the orchestrator with a bounded timeout.
func (a *TranscriberAdapter) Transcript(inputFilePath string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	request := &TranscriptionRequest{
		InputFilePath: inputFilePath,
	}

	response, err := a.orchestrator.Transcribe(ctx, request)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	return response.Text, nil
}
