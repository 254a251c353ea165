package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

// CaptureStorage persists inbox captures in SQLite
type CaptureStorage struct {
	db     *sql.DB
	logger arbor.ILogger
}

// NewCaptureStorage creates a capture storage manager
func NewCaptureStorage(db *DB, logger arbor.ILogger) *CaptureStorage {
	return &CaptureStorage{db: db.SQL(), logger: logger}
}

func (s *CaptureStorage) CreateCapture(ctx context.Context, capture *models.Capture) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO captures (id, user_id, type, content, source_url, title, media_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		capture.ID, capture.UserID, capture.Type, capture.Content,
		capture.SourceURL, capture.Title, capture.MediaID, capture.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create capture: %w", err)
	}
	return nil
}

func (s *CaptureStorage) GetCapture(ctx context.Context, userID, id string) (*models.Capture, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, content, source_url, title, media_id, created_at
		 FROM captures WHERE id = ? AND user_id = ?`, id, userID)

	var capture models.Capture
	err := row.Scan(&capture.ID, &capture.UserID, &capture.Type, &capture.Content,
		&capture.SourceURL, &capture.Title, &capture.MediaID, &capture.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan capture: %w", err)
	}
	return &capture, nil
}

func (s *CaptureStorage) ListCaptures(ctx context.Context, userID string, opts *interfaces.ListOptions) ([]*models.Capture, error) {
	limit, offset := normalizeListOptions(opts)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, type, content, source_url, title, media_id, created_at
		 FROM captures WHERE user_id = ?
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list captures: %w", err)
	}
	defer rows.Close()

	var captures []*models.Capture
	for rows.Next() {
		var capture models.Capture
		if err := rows.Scan(&capture.ID, &capture.UserID, &capture.Type, &capture.Content,
			&capture.SourceURL, &capture.Title, &capture.MediaID, &capture.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		captures = append(captures, &capture)
	}
	return captures, rows.Err()
}

func (s *CaptureStorage) DeleteCapture(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM captures WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete capture: %w", err)
	}
	return requireRow(result)
}
