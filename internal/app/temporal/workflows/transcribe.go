// Package workflows defines the Temporal workflows that drive distributed
// transcription.
package workflows

import (
	"path"
	"path/filepath"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"rapidscribe/internal/app/temporal/pkg/common"
)

// TranscribeFileWorkflow transcribes one audio file: fetch it from object
// storage when the request carries a key, run it through a provider, and
// persist the transcript.
func TranscribeFileWorkflow(ctx workflow.Context, req common.TranscribeFileRequest) (common.TranscribeFileResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting transcription workflow", "fileId", req.FileID)

	startTime := workflow.Now(ctx)

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute, // large files take a while
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    100 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	localPath := req.FilePath

	if req.FileKey != "" {
		var download common.DownloadResult
		err := workflow.ExecuteActivity(ctx, "DownloadAudio", common.DownloadRequest{
			FileID: req.FileID,
			Key:    req.FileKey,
		}).Get(ctx, &download)
		if err != nil {
			logger.Error("download failed", "fileId", req.FileID, "error", err)
			return common.TranscribeFileResult{FileID: req.FileID}, err
		}
		localPath = download.LocalPath

		defer func() {
			// Cleanup gets its own short-lived options so it still runs
			// when the main options context is exhausted.
			cleanupCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
				StartToCloseTimeout: time.Minute,
			})
			_ = workflow.ExecuteActivity(cleanupCtx, "CleanupTempFile", localPath).Get(cleanupCtx, nil)
		}()
	}

	var transcription common.TranscriptionResult
	err := workflow.ExecuteActivity(ctx, "Transcribe", common.TranscriptionRequest{
		FileID:   req.FileID,
		FilePath: localPath,
		Provider: req.Provider,
		Language: req.Language,
		Options:  req.Options,
	}).Get(ctx, &transcription)
	if err != nil {
		logger.Error("transcription failed", "fileId", req.FileID, "error", err)
		return common.TranscribeFileResult{FileID: req.FileID}, err
	}

	fileName := filepath.Base(req.FilePath)
	if req.FileKey != "" {
		fileName = path.Base(req.FileKey)
	}

	var persist common.PersistResult
	err = workflow.ExecuteActivity(ctx, "PersistTranscript", common.PersistRequest{
		Collection: req.Collection,
		FileName:   fileName,
		FilePath:   localPath,
		Text:       transcription.Text,
		Provider:   transcription.Provider,
		Language:   req.Language,
	}).Get(ctx, &persist)
	if err != nil {
		logger.Error("persist failed", "fileId", req.FileID, "error", err)
		return common.TranscribeFileResult{FileID: req.FileID}, err
	}

	result := common.TranscribeFileResult{
		FileID:         req.FileID,
		Text:           transcription.Text,
		Provider:       transcription.Provider,
		TranscriptID:   persist.TranscriptID,
		ProcessingTime: workflow.Now(ctx).Sub(startTime),
	}

	logger.Info("transcription workflow completed",
		"fileId", req.FileID,
		"provider", result.Provider,
		"duration", result.ProcessingTime)

	return result, nil
}
