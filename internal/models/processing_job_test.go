package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingJob() *ProcessingJob {
	return &ProcessingJob{
		ID:      "job-1",
		UserID:  "user-1",
		JobType: JobTypeAudio,
		Status:  JobStatusPending,
	}
}

func TestJobLifecycle_Completed(t *testing.T) {
	job := newPendingJob()

	require.NoError(t, job.MarkProcessing())
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.NotNil(t, job.StartedAt)

	require.NoError(t, job.SetProgress(40))
	assert.Equal(t, 40, job.Progress)

	require.NoError(t, job.MarkCompleted())
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.NotNil(t, job.CompletedAt)
}

func TestJobLifecycle_Failed(t *testing.T) {
	job := newPendingJob()

	require.NoError(t, job.MarkProcessing())
	require.NoError(t, job.MarkFailed("provider unavailable"))

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "provider unavailable", job.ErrorMessage)
	assert.NotNil(t, job.CompletedAt)
}

func TestJob_RejectsBackwardTransitions(t *testing.T) {
	job := newPendingJob()

	// Cannot complete or fail before processing
	assert.Error(t, job.MarkCompleted())
	assert.Error(t, job.MarkFailed("x"))

	require.NoError(t, job.MarkProcessing())
	assert.Error(t, job.MarkProcessing())

	require.NoError(t, job.MarkCompleted())
	assert.Error(t, job.MarkProcessing())
	assert.Error(t, job.MarkFailed("x"))
	assert.Error(t, job.MarkCompleted())
}

func TestJob_CancelOnlyWhilePending(t *testing.T) {
	job := newPendingJob()
	require.NoError(t, job.MarkCancelled())
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, CancelledMessage, job.ErrorMessage)

	running := newPendingJob()
	require.NoError(t, running.MarkProcessing())
	assert.Error(t, running.MarkCancelled())
}

func TestJob_ProgressNeverDecreases(t *testing.T) {
	job := newPendingJob()

	// Progress updates require a running job
	assert.Error(t, job.SetProgress(10))

	require.NoError(t, job.MarkProcessing())
	require.NoError(t, job.SetProgress(60))
	require.NoError(t, job.SetProgress(30))
	assert.Equal(t, 60, job.Progress)

	require.NoError(t, job.SetProgress(250))
	assert.Equal(t, 100, job.Progress)
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, JobStatusPending.IsTerminal())
	assert.False(t, JobStatusProcessing.IsTerminal())
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
}

func TestContentTypeForJob(t *testing.T) {
	assert.Equal(t, ContentTypeTranscription, ContentTypeForJob(JobTypeAudio))
	assert.Equal(t, ContentTypeTranscription, ContentTypeForJob(JobTypeVideo))
	assert.Equal(t, ContentTypeOCR, ContentTypeForJob(JobTypeImage))
	assert.Equal(t, ContentTypeDocumentText, ContentTypeForJob(JobTypeDocument))
	assert.Equal(t, ContentTypeClassification, ContentTypeForJob(JobTypeTextClassification))
}

func TestNewProcessedContent_ClampsConfidence(t *testing.T) {
	job := newPendingJob()

	content := NewProcessedContent("content-1", job, &ProcessingResult{Confidence: 0.92})
	assert.Equal(t, 92, content.Confidence)

	content = NewProcessedContent("content-2", job, &ProcessingResult{Confidence: 1.7})
	assert.Equal(t, 100, content.Confidence)

	content = NewProcessedContent("content-3", job, &ProcessingResult{Confidence: -0.4})
	assert.Equal(t, 0, content.Confidence)
}

func TestJobMessageRoundTrip(t *testing.T) {
	msg := &JobMessage{JobID: "job-9", JobType: JobTypeImage}

	data, err := msg.ToJSON()
	require.NoError(t, err)

	got, err := JobMessageFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	_, err = JobMessageFromJSON([]byte("{not json"))
	assert.Error(t, err)
}
