package api

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"rapidscribe/internal/app/model"
	"rapidscribe/internal/app/temporal/pkg/common"
)

// progressInterval paces WaitWithProgress callbacks.
const progressInterval = 5 * time.Second

// DistributedTranscriber hands transcription jobs to Temporal workers and
// tracks them by workflow id.
type DistributedTranscriber struct {
	temporalClient client.Client
	taskQueue      string
}

// DistributedJob is the client-side view of one workflow execution.
type DistributedJob struct {
	ID           string    `json:"id"`
	WorkflowID   string    `json:"workflow_id"`
	RunID        string    `json:"run_id,omitempty"`
	FilePath     string    `json:"file_path,omitempty"`
	FileKey      string    `json:"file_key,omitempty"`
	Status       string    `json:"status"`
	Text         string    `json:"text,omitempty"`
	Provider     string    `json:"provider,omitempty"`
	TranscriptID int       `json:"transcript_id,omitempty"`
	Error        string    `json:"error,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`
}

// NewDistributedTranscriber dials Temporal with the given configuration.
func NewDistributedTranscriber(cfg common.Config, log *zap.Logger) (*DistributedTranscriber, error) {
	c, err := common.NewClient(cfg, log)
	if err != nil {
		return nil, err
	}
	return &DistributedTranscriber{
		temporalClient: c,
		taskQueue:      cfg.TaskQueue,
	}, nil
}

// NewDistributedTranscriberWithClient wraps an existing Temporal client.
// The caller keeps ownership of the client's lifecycle.
func NewDistributedTranscriberWithClient(c client.Client, taskQueue string) *DistributedTranscriber {
	return &DistributedTranscriber{
		temporalClient: c,
		taskQueue:      taskQueue,
	}
}

// SubmitJob starts one transcription workflow and returns immediately.
// A missing FileID is filled with a fresh uuid.
func (dt *DistributedTranscriber) SubmitJob(ctx context.Context, req common.TranscribeFileRequest) (*DistributedJob, error) {
	if req.FileID == "" {
		req.FileID = uuid.New().String()
	}
	workflowID := fmt.Sprintf("transcribe-%s", req.FileID)

	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: dt.taskQueue,
	}

	we, err := dt.temporalClient.ExecuteWorkflow(ctx, options, common.TranscribeWorkflowName, req)
	if err != nil {
		return nil, fmt.Errorf("start workflow for %s: %w", req.FileID, err)
	}

	return &DistributedJob{
		ID:          req.FileID,
		WorkflowID:  we.GetID(),
		RunID:       we.GetRunID(),
		FilePath:    req.FilePath,
		FileKey:     req.FileKey,
		Status:      model.JobStatusPending,
		SubmittedAt: time.Now(),
	}, nil
}

// SubmitBatch starts one workflow per file. Parallelism is the workers'
// concern; submitting is cheap.
func (dt *DistributedTranscriber) SubmitBatch(ctx context.Context, requests []common.TranscribeFileRequest) ([]*DistributedJob, error) {
	jobs := make([]*DistributedJob, 0, len(requests))
	for _, req := range requests {
		job, err := dt.SubmitJob(ctx, req)
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// GetJobStatus asks the Temporal server for the workflow's current state,
// fetching the result when it already finished.
func (dt *DistributedTranscriber) GetJobStatus(ctx context.Context, workflowID string) (*DistributedJob, error) {
	desc, err := dt.temporalClient.DescribeWorkflowExecution(ctx, workflowID, "")
	if err != nil {
		return nil, fmt.Errorf("describe workflow %s: %w", workflowID, err)
	}

	job := &DistributedJob{
		WorkflowID: workflowID,
		Status:     statusFromWorkflow(desc.WorkflowExecutionInfo.Status),
	}

	if job.Status == model.JobStatusProcessing {
		return job, nil
	}

	we := dt.temporalClient.GetWorkflow(ctx, workflowID, "")
	var result common.TranscribeFileResult
	if err := we.Get(ctx, &result); err != nil {
		job.Status = model.JobStatusFailed
		job.Error = err.Error()
		return job, nil
	}

	job.ID = result.FileID
	job.Text = result.Text
	job.Provider = result.Provider
	job.TranscriptID = result.TranscriptID
	return job, nil
}

// WaitForResult blocks until the workflow finishes.
func (dt *DistributedTranscriber) WaitForResult(ctx context.Context, workflowID string) (*DistributedJob, error) {
	return dt.WaitWithProgress(ctx, workflowID, nil)
}

// WaitWithProgress blocks until the workflow finishes, invoking progress
// every few seconds with the elapsed time. progress may be nil.
func (dt *DistributedTranscriber) WaitWithProgress(ctx context.Context, workflowID string, progress func(elapsed time.Duration)) (*DistributedJob, error) {
	start := time.Now()
	we := dt.temporalClient.GetWorkflow(ctx, workflowID, "")

	type outcome struct {
		result common.TranscribeFileResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		var result common.TranscribeFileResult
		err := we.Get(ctx, &result)
		done <- outcome{result, err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case out := <-done:
			job := &DistributedJob{
				WorkflowID:  workflowID,
				CompletedAt: time.Now(),
			}
			if out.err != nil {
				job.Status = model.JobStatusFailed
				job.Error = out.err.Error()
				return job, fmt.Errorf("workflow %s failed: %w", workflowID, out.err)
			}
			job.ID = out.result.FileID
			job.Status = model.JobStatusCompleted
			job.Text = out.result.Text
			job.Provider = out.result.Provider
			job.TranscriptID = out.result.TranscriptID
			return job, nil

		case <-ticker.C:
			if progress != nil {
				progress(time.Since(start))
			}

		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Close releases the Temporal client connection.
func (dt *DistributedTranscriber) Close() {
	if dt.temporalClient != nil {
		dt.temporalClient.Close()
	}
}

// statusFromWorkflow folds Temporal execution states into job statuses.
func statusFromWorkflow(status enumspb.WorkflowExecutionStatus) string {
	switch status {
	case enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING,
		enumspb.WORKFLOW_EXECUTION_STATUS_CONTINUED_AS_NEW:
		return model.JobStatusProcessing
	case enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		return model.JobStatusCompleted
	case enumspb.WORKFLOW_EXECUTION_STATUS_FAILED,
		enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED,
		enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED,
		enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:
		return model.JobStatusFailed
	default:
		return model.JobStatusPending
	}
}
