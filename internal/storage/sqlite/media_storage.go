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

// MediaStorage persists media metadata in SQLite; file bytes live on disk
type MediaStorage struct {
	db     *sql.DB
	logger arbor.ILogger
}

// NewMediaStorage creates a media storage manager
func NewMediaStorage(db *DB, logger arbor.ILogger) *MediaStorage {
	return &MediaStorage{db: db.SQL(), logger: logger}
}

func (s *MediaStorage) CreateMedia(ctx context.Context, media *models.Media) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO media (id, user_id, note_id, file_name, file_path, mime_type, size_bytes, is_processed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		media.ID, media.UserID, media.NoteID, media.FileName, media.FilePath,
		media.MimeType, media.SizeBytes, media.IsProcessed, media.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}
	return nil
}

func (s *MediaStorage) GetMedia(ctx context.Context, userID, id string) (*models.Media, error) {
	return s.scanMedia(s.db.QueryRowContext(ctx,
		`SELECT id, user_id, note_id, file_name, file_path, mime_type, size_bytes, is_processed, created_at
		 FROM media WHERE id = ? AND user_id = ?`, id, userID))
}

// GetMediaByID loads media without an owner check; workers resolve files
// for jobs whose ownership was validated at submission
func (s *MediaStorage) GetMediaByID(ctx context.Context, id string) (*models.Media, error) {
	return s.scanMedia(s.db.QueryRowContext(ctx,
		`SELECT id, user_id, note_id, file_name, file_path, mime_type, size_bytes, is_processed, created_at
		 FROM media WHERE id = ?`, id))
}

func (s *MediaStorage) MarkProcessed(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE media SET is_processed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark media processed: %w", err)
	}
	return requireRow(result)
}

func (s *MediaStorage) DeleteMedia(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM media WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return requireRow(result)
}

func (s *MediaStorage) ListMedia(ctx context.Context, userID string, opts *interfaces.ListOptions) ([]*models.Media, error) {
	limit, offset := normalizeListOptions(opts)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, note_id, file_name, file_path, mime_type, size_bytes, is_processed, created_at
		 FROM media WHERE user_id = ?
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	var items []*models.Media
	for rows.Next() {
		var media models.Media
		if err := rows.Scan(&media.ID, &media.UserID, &media.NoteID, &media.FileName, &media.FilePath,
			&media.MimeType, &media.SizeBytes, &media.IsProcessed, &media.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		items = append(items, &media)
	}
	return items, rows.Err()
}

func (s *MediaStorage) scanMedia(row *sql.Row) (*models.Media, error) {
	var media models.Media
	err := row.Scan(&media.ID, &media.UserID, &media.NoteID, &media.FileName, &media.FilePath,
		&media.MimeType, &media.SizeBytes, &media.IsProcessed, &media.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan media: %w", err)
	}
	return &media, nil
}
