package processing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

// ErrJobNotCancellable is returned when cancellation is requested for a
// job that is no longer pending.
var ErrJobNotCancellable = errors.New("job is not cancellable")

// Enqueuer puts job messages on the background queue
type Enqueuer interface {
	Enqueue(ctx context.Context, msg *models.JobMessage) error
}

// SubmitRequest describes a new processing job
type SubmitRequest struct {
	JobType models.JobType
	NoteID  *string
	MediaID *string
}

// Service owns the processing job lifecycle: submission, status,
// cancellation, and worker-side execution. All status transitions go
// through the job model's state machine; the service persists them.
type Service struct {
	jobs       interfaces.JobStorage
	media      interfaces.MediaStorage
	notes      interfaces.NoteStorage
	queue      Enqueuer
	processors map[models.JobType]interfaces.Processor
	logger     arbor.ILogger
}

func NewService(jobs interfaces.JobStorage, media interfaces.MediaStorage, notes interfaces.NoteStorage, queue Enqueuer, logger arbor.ILogger) *Service {
	return &Service{
		jobs:       jobs,
		media:      media,
		notes:      notes,
		queue:      queue,
		processors: make(map[models.JobType]interfaces.Processor),
		logger:     logger,
	}
}

// RegisterProcessor registers the processor for a job type
func (s *Service) RegisterProcessor(jobType models.JobType, processor interfaces.Processor) {
	s.processors[jobType] = processor
	s.logger.Info().
		Str("job_type", string(jobType)).
		Msg("Processor registered")
}

// Submit validates the request, persists a pending job and enqueues it.
// It returns as soon as the job is queued; processing happens on the
// worker pool.
func (s *Service) Submit(ctx context.Context, userID string, req *SubmitRequest) (*models.ProcessingJob, error) {
	if !req.JobType.IsValid() {
		return nil, fmt.Errorf("invalid job type: %s", req.JobType)
	}

	switch req.JobType {
	case models.JobTypeTextClassification:
		if req.NoteID == nil {
			return nil, fmt.Errorf("note_id is required for %s jobs", req.JobType)
		}
		if _, err := s.notes.GetNote(ctx, userID, *req.NoteID); err != nil {
			return nil, err
		}
	default:
		if req.MediaID == nil {
			return nil, fmt.Errorf("media_id is required for %s jobs", req.JobType)
		}
		// Ownership is checked here, once; workers resolve media by id
		if _, err := s.media.GetMedia(ctx, userID, *req.MediaID); err != nil {
			return nil, err
		}
	}

	job := &models.ProcessingJob{
		ID:        common.NewJobID(),
		UserID:    userID,
		NoteID:    req.NoteID,
		MediaID:   req.MediaID,
		JobType:   req.JobType,
		Status:    models.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	msg := &models.JobMessage{JobID: job.ID, JobType: job.JobType}
	if err := s.queue.Enqueue(ctx, msg); err != nil {
		// The job row exists but will never run; fail it so the client
		// sees a terminal state instead of a permanent pending
		if markErr := job.MarkCancelled(); markErr == nil {
			job.ErrorMessage = "Failed to enqueue job"
			if updateErr := s.jobs.UpdateJob(ctx, job); updateErr != nil {
				s.logger.Error().Err(updateErr).Str("job_id", job.ID).Msg("Failed to record enqueue failure")
			}
		}
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Str("job_type", string(job.JobType)).
		Msg("Job submitted")

	return job, nil
}

// GetJob returns the job if it belongs to the user
func (s *Service) GetJob(ctx context.Context, userID, jobID string) (*models.ProcessingJob, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, interfaces.ErrNotFound
	}
	return job, nil
}

// GetResult returns the stored content for a completed job
func (s *Service) GetResult(ctx context.Context, userID, jobID string) (*models.ProcessedContent, error) {
	if _, err := s.GetJob(ctx, userID, jobID); err != nil {
		return nil, err
	}
	return s.jobs.GetContentByJob(ctx, jobID)
}

// ListJobs returns the user's jobs, optionally filtered by status
func (s *Service) ListJobs(ctx context.Context, userID string, opts *interfaces.ListOptions) ([]*models.ProcessingJob, error) {
	return s.jobs.ListJobs(ctx, userID, opts)
}

// Cancel transitions a pending job to failed with the fixed
// cancellation message. Jobs already picked up by a worker return
// ErrJobNotCancellable; completed and failed jobs do too.
func (s *Service) Cancel(ctx context.Context, userID, jobID string) (*models.ProcessingJob, error) {
	job, err := s.GetJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	if err := job.MarkCancelled(); err != nil {
		return nil, fmt.Errorf("%w: status is %s", ErrJobNotCancellable, job.Status)
	}

	if err := s.jobs.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist cancellation: %w", err)
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Msg("Job cancelled")

	return job, nil
}

// Dispatch executes one queued job on a worker. The queue message only
// identifies the job; the job row is the source of truth, so a job
// cancelled while queued is detected here and skipped.
func (s *Service) Dispatch(ctx context.Context, msg *models.JobMessage) error {
	job, err := s.jobs.GetJob(ctx, msg.JobID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			// Purged or never persisted; nothing to do
			s.logger.Warn().Str("job_id", msg.JobID).Msg("Queued job no longer exists")
			return nil
		}
		return fmt.Errorf("failed to load job: %w", err)
	}

	if job.Status.IsTerminal() {
		s.logger.Info().
			Str("job_id", job.ID).
			Str("status", string(job.Status)).
			Msg("Skipping terminal job")
		return nil
	}

	if err := job.MarkProcessing(); err != nil {
		return fmt.Errorf("failed to claim job: %w", err)
	}
	if err := s.jobs.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to persist claim: %w", err)
	}

	processor, ok := s.processors[job.JobType]
	if !ok {
		return s.failJob(ctx, job, fmt.Sprintf("No processor registered for job type: %s", job.JobType))
	}

	result, err := processor.Process(ctx, job)
	if err != nil {
		return s.failJob(ctx, job, err.Error())
	}

	return s.completeJob(ctx, job, result)
}

// completeJob stores the processor output and transitions the job to
// completed
func (s *Service) completeJob(ctx context.Context, job *models.ProcessingJob, result *models.ProcessingResult) error {
	content := models.NewProcessedContent(common.NewID(), job, result)
	if err := s.jobs.CreateContent(ctx, content); err != nil {
		return s.failJob(ctx, job, fmt.Sprintf("Failed to store result: %v", err))
	}

	if job.MediaID != nil {
		if err := s.media.MarkProcessed(ctx, *job.MediaID); err != nil {
			s.logger.Warn().
				Err(err).
				Str("media_id", *job.MediaID).
				Msg("Failed to mark media processed")
		}
	}

	// When the job is linked to a note with no content yet, fill it with
	// the extracted text so the note is immediately useful
	if job.NoteID != nil && result.RawText != "" {
		s.fillEmptyNote(ctx, job.UserID, *job.NoteID, result.RawText)
	}

	if err := job.MarkCompleted(); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	if err := s.jobs.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to persist completion: %w", err)
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Str("job_type", string(job.JobType)).
		Msg("Job completed")

	return nil
}

func (s *Service) fillEmptyNote(ctx context.Context, userID, noteID, text string) {
	note, err := s.notes.GetNote(ctx, userID, noteID)
	if err != nil || note.Content != "" {
		return
	}
	note.Content = text
	note.UpdatedAt = time.Now().UTC()
	if err := s.notes.UpdateNote(ctx, note); err != nil {
		s.logger.Warn().Err(err).Str("note_id", noteID).Msg("Failed to fill note content")
	}
}

// failJob records a terminal failure. There is no automatic retry; a
// new submission is required.
func (s *Service) failJob(ctx context.Context, job *models.ProcessingJob, message string) error {
	if err := job.MarkFailed(message); err != nil {
		return fmt.Errorf("failed to fail job: %w", err)
	}
	if err := s.jobs.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to persist failure: %w", err)
	}

	s.logger.Error().
		Str("job_id", job.ID).
		Str("error", message).
		Msg("Job failed")

	return nil
}
