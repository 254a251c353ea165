package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

// JobStorage persists processing jobs and their results in SQLite
type JobStorage struct {
	db     *sql.DB
	logger arbor.ILogger
}

// NewJobStorage creates a job storage manager
func NewJobStorage(db *DB, logger arbor.ILogger) *JobStorage {
	return &JobStorage{db: db.SQL(), logger: logger}
}

func (s *JobStorage) CreateJob(ctx context.Context, job *models.ProcessingJob) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO processing_jobs (id, user_id, note_id, media_id, job_type, status, progress, error_message, created_at, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.UserID, job.NoteID, job.MediaID, job.JobType, job.Status,
		job.Progress, job.ErrorMessage, job.CreatedAt, job.StartedAt, job.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (s *JobStorage) GetJob(ctx context.Context, id string) (*models.ProcessingJob, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, note_id, media_id, job_type, status, progress, error_message, created_at, started_at, completed_at
		 FROM processing_jobs WHERE id = ?`, id)

	var job models.ProcessingJob
	err := row.Scan(&job.ID, &job.UserID, &job.NoteID, &job.MediaID, &job.JobType,
		&job.Status, &job.Progress, &job.ErrorMessage, &job.CreatedAt,
		&job.StartedAt, &job.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}
	return &job, nil
}

func (s *JobStorage) UpdateJob(ctx context.Context, job *models.ProcessingJob) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE processing_jobs SET status = ?, progress = ?, error_message = ?, started_at = ?, completed_at = ?
		 WHERE id = ?`,
		job.Status, job.Progress, job.ErrorMessage, job.StartedAt, job.CompletedAt, job.ID)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return requireRow(result)
}

func (s *JobStorage) ListJobs(ctx context.Context, userID string, opts *interfaces.ListOptions) ([]*models.ProcessingJob, error) {
	limit, offset := normalizeListOptions(opts)

	query := `SELECT id, user_id, note_id, media_id, job_type, status, progress, error_message, created_at, started_at, completed_at
		 FROM processing_jobs WHERE user_id = ?`
	args := []any{userID}
	if opts != nil && opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, opts.Status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ProcessingJob
	for rows.Next() {
		var job models.ProcessingJob
		if err := rows.Scan(&job.ID, &job.UserID, &job.NoteID, &job.MediaID, &job.JobType,
			&job.Status, &job.Progress, &job.ErrorMessage, &job.CreatedAt,
			&job.StartedAt, &job.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}

// FailStaleJobs marks jobs stuck in processing for longer than maxAge as
// failed. Covers workers killed mid-job, where no completion ever arrives.
func (s *JobStorage) FailStaleJobs(ctx context.Context, maxAge time.Duration, message string) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	result, err := s.db.ExecContext(ctx,
		`UPDATE processing_jobs SET status = ?, error_message = ?, completed_at = ?
		 WHERE status = ? AND started_at IS NOT NULL AND started_at < ?`,
		models.JobStatusFailed, message, time.Now().UTC(), models.JobStatusProcessing, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to fail stale jobs: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(affected), nil
}

// PurgeTerminalJobs deletes completed and failed jobs older than the
// retention window; processed content cascades with the job row.
func (s *JobStorage) PurgeTerminalJobs(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-retention)
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM processing_jobs
		 WHERE status IN (?, ?) AND completed_at IS NOT NULL AND completed_at < ?`,
		models.JobStatusCompleted, models.JobStatusFailed, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge terminal jobs: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(affected), nil
}

func (s *JobStorage) CreateContent(ctx context.Context, content *models.ProcessedContent) error {
	keyPoints, err := json.Marshal(content.KeyPoints)
	if err != nil {
		return fmt.Errorf("failed to marshal key points: %w", err)
	}
	tasks, err := json.Marshal(content.ExtractedTasks)
	if err != nil {
		return fmt.Errorf("failed to marshal extracted tasks: %w", err)
	}
	metadata, err := json.Marshal(content.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO processed_content (id, job_id, note_id, content_type, raw_text, summary, key_points, extracted_tasks, metadata, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		content.ID, content.JobID, content.NoteID, content.ContentType,
		content.RawText, content.Summary, string(keyPoints), string(tasks),
		string(metadata), content.Confidence, content.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create processed content: %w", err)
	}
	return nil
}

func (s *JobStorage) GetContentByJob(ctx context.Context, jobID string) (*models.ProcessedContent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, job_id, note_id, content_type, raw_text, summary, key_points, extracted_tasks, metadata, confidence, created_at
		 FROM processed_content WHERE job_id = ?`, jobID)
	content, err := scanContentRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (s *JobStorage) ListContentByNote(ctx context.Context, noteID string) ([]*models.ProcessedContent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, note_id, content_type, raw_text, summary, key_points, extracted_tasks, metadata, confidence, created_at
		 FROM processed_content WHERE note_id = ? ORDER BY created_at DESC`, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed content: %w", err)
	}
	defer rows.Close()

	var contents []*models.ProcessedContent
	for rows.Next() {
		content, err := scanContentRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}
	return contents, rows.Err()
}

// scanContentRow scans one processed_content row, decoding the JSON
// columns back into slices and maps
func scanContentRow(scan func(dest ...any) error) (*models.ProcessedContent, error) {
	var content models.ProcessedContent
	var keyPoints, tasks, metadata string
	err := scan(&content.ID, &content.JobID, &content.NoteID, &content.ContentType,
		&content.RawText, &content.Summary, &keyPoints, &tasks, &metadata,
		&content.Confidence, &content.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan processed content: %w", err)
	}
	if err := json.Unmarshal([]byte(keyPoints), &content.KeyPoints); err != nil {
		return nil, fmt.Errorf("failed to decode key points: %w", err)
	}
	if err := json.Unmarshal([]byte(tasks), &content.ExtractedTasks); err != nil {
		return nil, fmt.Errorf("failed to decode extracted tasks: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &content.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return &content, nil
}
