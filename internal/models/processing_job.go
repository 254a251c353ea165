package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// JobStatus represents the state of a processing job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal returns true once no further transitions are possible
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobType identifies the kind of AI processing a job performs
type JobType string

const (
	JobTypeAudio              JobType = "audio"
	JobTypeVideo              JobType = "video"
	JobTypeImage              JobType = "image"
	JobTypeDocument           JobType = "document"
	JobTypeTextClassification JobType = "text_classification"
)

// IsValid returns true for a known job type
func (t JobType) IsValid() bool {
	switch t {
	case JobTypeAudio, JobTypeVideo, JobTypeImage, JobTypeDocument, JobTypeTextClassification:
		return true
	}
	return false
}

// CancelledMessage is the fixed error message recorded when a pending job
// is cancelled by its owner.
const CancelledMessage = "Cancelled by user"

// ProcessingJob is one unit of asynchronous AI work tied to a media file
// or note. Status transitions are monotonic:
//
//	pending -> processing -> completed
//	pending -> processing -> failed
//	pending -> failed (cancel only)
//
// Exactly one worker owns a job for its whole processing lifetime; all
// mutation goes through the Mark*/SetProgress methods below, which reject
// backward edges.
type ProcessingJob struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	NoteID       *string    `json:"note_id,omitempty"`
	MediaID      *string    `json:"media_id,omitempty"`
	JobType      JobType    `json:"job_type"`
	Status       JobStatus  `json:"status"`
	Progress     int        `json:"progress"` // 0-100, non-decreasing while processing
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// MarkProcessing transitions the job from pending to processing and
// records the start time.
func (j *ProcessingJob) MarkProcessing() error {
	if j.Status != JobStatusPending {
		return fmt.Errorf("cannot start job %s: status is %s, want %s", j.ID, j.Status, JobStatusPending)
	}
	now := time.Now().UTC()
	j.Status = JobStatusProcessing
	j.StartedAt = &now
	return nil
}

// MarkCompleted transitions the job from processing to completed,
// forcing progress to 100 and recording the completion time.
func (j *ProcessingJob) MarkCompleted() error {
	if j.Status != JobStatusProcessing {
		return fmt.Errorf("cannot complete job %s: status is %s, want %s", j.ID, j.Status, JobStatusProcessing)
	}
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.Progress = 100
	j.CompletedAt = &now
	return nil
}

// MarkFailed transitions the job from processing to failed. Failure is
// terminal; a new submission is required to retry.
func (j *ProcessingJob) MarkFailed(errorMsg string) error {
	if j.Status != JobStatusProcessing {
		return fmt.Errorf("cannot fail job %s: status is %s, want %s", j.ID, j.Status, JobStatusProcessing)
	}
	now := time.Now().UTC()
	j.Status = JobStatusFailed
	j.ErrorMessage = errorMsg
	j.CompletedAt = &now
	return nil
}

// MarkCancelled transitions a pending job directly to failed with the
// fixed cancellation message. Jobs already picked up by a worker cannot
// be cancelled.
func (j *ProcessingJob) MarkCancelled() error {
	if j.Status != JobStatusPending {
		return fmt.Errorf("cannot cancel job %s: status is %s, want %s", j.ID, j.Status, JobStatusPending)
	}
	now := time.Now().UTC()
	j.Status = JobStatusFailed
	j.ErrorMessage = CancelledMessage
	j.CompletedAt = &now
	return nil
}

// SetProgress updates progress while the job is processing. Progress is
// clamped to 0-100 and never decreases.
func (j *ProcessingJob) SetProgress(progress int) error {
	if j.Status != JobStatusProcessing {
		return fmt.Errorf("cannot update progress for job %s: status is %s", j.ID, j.Status)
	}
	if progress > 100 {
		progress = 100
	}
	if progress > j.Progress {
		j.Progress = progress
	}
	return nil
}

// ContentType classifies the processed output stored for a job
type ContentType string

const (
	ContentTypeTranscription  ContentType = "transcription"
	ContentTypeOCR            ContentType = "ocr"
	ContentTypeDocumentText   ContentType = "document_text"
	ContentTypeSummary        ContentType = "summary"
	ContentTypeClassification ContentType = "classification"
)

// ContentTypeForJob maps a job type to the content type it produces
func ContentTypeForJob(jobType JobType) ContentType {
	switch jobType {
	case JobTypeAudio, JobTypeVideo:
		return ContentTypeTranscription
	case JobTypeImage:
		return ContentTypeOCR
	case JobTypeDocument:
		return ContentTypeDocumentText
	case JobTypeTextClassification:
		return ContentTypeClassification
	default:
		return ContentTypeSummary
	}
}

// ProcessingResult is the provider-agnostic output of a processor run
type ProcessingResult struct {
	RawText        string            `json:"raw_text,omitempty"`
	Summary        string            `json:"summary,omitempty"`
	KeyPoints      []string          `json:"key_points,omitempty"`
	ExtractedTasks []string          `json:"extracted_tasks,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Confidence     float64           `json:"confidence_score,omitempty"` // 0.0-1.0
}

// ProcessedContent is the persisted result of a completed processing job
type ProcessedContent struct {
	ID             string      `json:"id"`
	JobID          string      `json:"job_id"`
	NoteID         *string     `json:"note_id,omitempty"`
	ContentType    ContentType `json:"content_type"`
	RawText        string      `json:"raw_text,omitempty"`
	Summary        string      `json:"summary,omitempty"`
	KeyPoints      []string    `json:"key_points,omitempty"`
	ExtractedTasks []string    `json:"extracted_tasks,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Confidence     int         `json:"confidence,omitempty"` // 0-100
	CreatedAt      time.Time   `json:"created_at"`
}

// NewProcessedContent builds a content record from a processor result,
// scaling confidence to an integer percentage.
func NewProcessedContent(id string, job *ProcessingJob, result *ProcessingResult) *ProcessedContent {
	confidence := int(result.Confidence * 100)
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	return &ProcessedContent{
		ID:             id,
		JobID:          job.ID,
		NoteID:         job.NoteID,
		ContentType:    ContentTypeForJob(job.JobType),
		RawText:        result.RawText,
		Summary:        result.Summary,
		KeyPoints:      result.KeyPoints,
		ExtractedTasks: result.ExtractedTasks,
		Metadata:       result.Metadata,
		Confidence:     confidence,
		CreatedAt:      time.Now().UTC(),
	}
}

// Classification is the PARA suggestion produced by a text classification job
type Classification struct {
	Type             string  `json:"classification_type"` // project, area, resource, archive, other
	SuggestedArea    string  `json:"suggested_area,omitempty"`
	SuggestedProject string  `json:"suggested_project,omitempty"`
	IsActionable     bool    `json:"is_actionable"`
	Priority         string  `json:"priority,omitempty"` // low, medium, high
	Confidence       float64 `json:"confidence_score"`
}

// JobMessage is the payload enqueued for background execution. The job
// record itself is the source of truth; the message only identifies it.
type JobMessage struct {
	JobID   string  `json:"job_id"`
	JobType JobType `json:"job_type"`
}

// ToJSON serializes the message for queue storage
func (m *JobMessage) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job message: %w", err)
	}
	return data, nil
}

// JobMessageFromJSON deserializes a queue message payload
func JobMessageFromJSON(data []byte) (*JobMessage, error) {
	var msg JobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job message: %w", err)
	}
	return &msg, nil
}
