package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	enumspb "go.temporal.io/api/enums/v1"

	"rapidscribe/internal/app/model"
)

func TestStatusFromWorkflow(t *testing.T) {
	testCases := []struct {
		status enumspb.WorkflowExecutionStatus
		want   string
	}{
		{enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING, model.JobStatusProcessing},
		{enumspb.WORKFLOW_EXECUTION_STATUS_CONTINUED_AS_NEW, model.JobStatusProcessing},
		{enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED, model.JobStatusCompleted},
		{enumspb.WORKFLOW_EXECUTION_STATUS_FAILED, model.JobStatusFailed},
		{enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED, model.JobStatusFailed},
		{enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED, model.JobStatusFailed},
		{enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT, model.JobStatusFailed},
		{enumspb.WORKFLOW_EXECUTION_STATUS_UNSPECIFIED, model.JobStatusPending},
	}

	for _, tc := range testCases {
		t.Run(tc.status.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, statusFromWorkflow(tc.status))
		})
	}
}
