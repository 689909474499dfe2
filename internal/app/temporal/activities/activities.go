// Package activities implements the worker-side operations the transcription
// workflow schedules.
package activities

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.temporal.io/sdk/activity"

	"rapidscribe/internal/app/api/provider"
	"rapidscribe/internal/app/audio"
	"rapidscribe/internal/app/model"
	"rapidscribe/internal/app/repository"
	"rapidscribe/internal/app/temporal/pkg/common"
	"rapidscribe/internal/app/util/files"
	"rapidscribe/internal/app/utils"
)

// heartbeatInterval paces heartbeats during long transcriptions so the server
// can detect a dead worker well inside the activity's heartbeat timeout.
const heartbeatInterval = 10 * time.Second

// ObjectStore fetches objects onto the worker host.
type ObjectStore interface {
	FetchFile(ctx context.Context, key, destPath string) error
}

// Activities bundles the worker's dependencies.
type Activities struct {
	registry provider.ProviderRegistry
	db       repository.TranscriptDAO
	store    ObjectStore
	workDir  string
}

// NewActivities creates the activity set. db and store may be nil on workers
// that only transcribe local files and leave persistence to the caller.
func NewActivities(registry provider.ProviderRegistry, db repository.TranscriptDAO, store ObjectStore, workDir string) *Activities {
	return &Activities{
		registry: registry,
		db:       db,
		store:    store,
		workDir:  workDir,
	}
}

// DownloadAudio pulls the object behind req.Key into the work directory.
func (a *Activities) DownloadAudio(ctx context.Context, req common.DownloadRequest) (common.DownloadResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("downloading audio object", "fileId", req.FileID, "key", req.Key)

	if a.store == nil {
		return common.DownloadResult{}, fmt.Errorf("object storage not configured on this worker")
	}
	if err := files.EnsureDir(a.workDir); err != nil {
		return common.DownloadResult{}, err
	}

	localPath := filepath.Join(a.workDir, req.FileID+filepath.Ext(req.Key))
	if err := a.store.FetchFile(ctx, req.Key, localPath); err != nil {
		return common.DownloadResult{}, fmt.Errorf("fetch %s: %w", req.Key, err)
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return common.DownloadResult{}, err
	}

	logger.Info("audio object downloaded", "fileId", req.FileID, "size", info.Size())
	return common.DownloadResult{LocalPath: localPath, Size: info.Size()}, nil
}

// Transcribe runs one file through the requested provider, heartbeating while
// the provider works.
func (a *Activities) Transcribe(ctx context.Context, req common.TranscriptionRequest) (common.TranscriptionResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("starting transcription", "fileId", req.FileID, "provider", req.Provider)

	start := time.Now()

	var transcriber provider.TranscriptionProvider
	var err error
	if req.Provider != "" {
		transcriber, err = a.registry.GetProvider(req.Provider)
	} else {
		transcriber, err = a.registry.GetDefaultProvider()
	}
	if err != nil {
		return common.TranscriptionResult{}, err
	}

	providerReq := &provider.TranscriptionRequest{
		InputFilePath:   req.FilePath,
		Language:        req.Language,
		ProviderOptions: req.Options,
	}

	type outcome struct {
		response *provider.TranscriptionResponse
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		response, transcribeErr := transcriber.TranscriptWithOptions(ctx, providerReq)
		done <- outcome{response, transcribeErr}
	}()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case result := <-done:
			if result.err != nil {
				logger.Error("transcription failed", "fileId", req.FileID, "error", result.err)
				return common.TranscriptionResult{}, result.err
			}

			out := common.TranscriptionResult{
				FileID:         req.FileID,
				Text:           result.response.Text,
				Provider:       transcriber.GetProviderInfo().Name,
				ProcessingTime: time.Since(start),
			}
			logger.Info("transcription completed",
				"fileId", req.FileID, "provider", out.Provider, "duration", out.ProcessingTime)
			return out, nil

		case <-ticker.C:
			activity.RecordHeartbeat(ctx, fmt.Sprintf("transcribing %s", req.FileID))

		case <-ctx.Done():
			return common.TranscriptionResult{}, ctx.Err()
		}
	}
}

// PersistTranscript writes the finished transcript to the repository.
func (a *Activities) PersistTranscript(ctx context.Context, req common.PersistRequest) (common.PersistResult, error) {
	logger := activity.GetLogger(ctx)

	if a.db == nil {
		logger.Info("no repository configured, skipping persist", "fileName", req.FileName)
		return common.PersistResult{}, nil
	}

	row := &model.Transcript{
		Collection: req.Collection,
		FileName:   req.FileName,
		Text:       req.Text,
		Provider:   req.Provider,
		Language:   req.Language,
	}
	if req.FilePath != "" {
		row.InputDir = filepath.Dir(req.FilePath)
		row.AudioFileName = filepath.Base(req.FilePath)
		if hash, err := utils.FileSHA256(req.FilePath); err == nil {
			row.FileHash = hash
		}
		if duration, err := audio.GetAudioDuration(ctx, req.FilePath); err == nil {
			row.AudioDuration = float64(duration)
		}
		if info, err := os.Stat(req.FilePath); err == nil {
			row.FileSize = info.Size()
		}
	}

	id, err := a.db.SaveTranscript(ctx, row)
	if err != nil {
		return common.PersistResult{}, fmt.Errorf("persist transcript for %s: %w", req.FileName, err)
	}

	logger.Info("transcript persisted", "fileName", req.FileName, "transcriptId", id)
	return common.PersistResult{TranscriptID: id}, nil
}

// CleanupTempFile removes a file the workflow downloaded into the work
// directory. Missing files are not an error.
func (a *Activities) CleanupTempFile(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ProviderHealth checks one provider and reports rather than fails, so
// workflows can route around unhealthy providers.
func (a *Activities) ProviderHealth(ctx context.Context, providerName string) (common.ProviderHealthResult, error) {
	result := common.ProviderHealthResult{
		Provider:    providerName,
		LastChecked: time.Now(),
	}

	p, err := a.registry.GetProvider(providerName)
	if err != nil {
		result.Message = err.Error()
		return result, nil
	}

	if err := p.HealthCheck(ctx); err != nil {
		result.Message = err.Error()
		return result, nil
	}

	result.Healthy = true
	return result, nil
}
