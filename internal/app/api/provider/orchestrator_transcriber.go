package provider

import (
	"context"
	"time"

	"rapidscribe/internal/app/api"
)

// transcriptTimeout bounds a single orchestrated transcription across the
// whole fallback chain.
const transcriptTimeout = 30 * time.Minute

// orchestratorTranscriber exposes an orchestrator through the plain
// Transcriber interface, so call sites that neither pick providers nor pass
// options still get the fallback chain. The HTTP job service runs on this;
// the CLI uses SimpleProviderTranscriber.
type orchestratorTranscriber struct {
	orchestrator TranscriptionOrchestrator
}

// NewOrchestratorTranscriber wraps orch for Transcriber call sites.
func NewOrchestratorTranscriber(orch TranscriptionOrchestrator) api.Transcriber {
	return &orchestratorTranscriber{orchestrator: orch}
}

func (t *orchestratorTranscriber) Transcript(inputFilePath string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), transcriptTimeout)
	defer cancel()

	response, err := t.orchestrator.Transcribe(ctx, &TranscriptionRequest{
		InputFilePath: inputFilePath,
	})
	if err != nil {
		return "", err
	}
	return response.Text, nil
}
