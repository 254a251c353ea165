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

// NoteStorage persists notes and daily notes in SQLite
type NoteStorage struct {
	db     *sql.DB
	logger arbor.ILogger
}

// NewNoteStorage creates a note storage manager
func NewNoteStorage(db *DB, logger arbor.ILogger) *NoteStorage {
	return &NoteStorage{db: db.SQL(), logger: logger}
}

func (s *NoteStorage) CreateNote(ctx context.Context, note *models.Note) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, title, content, area_id, project_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		note.ID, note.UserID, note.Title, note.Content, note.AreaID, note.ProjectID,
		note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (s *NoteStorage) GetNote(ctx context.Context, userID, id string) (*models.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, area_id, project_id, created_at, updated_at
		 FROM notes WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)

	var note models.Note
	err := row.Scan(&note.ID, &note.UserID, &note.Title, &note.Content,
		&note.AreaID, &note.ProjectID, &note.CreatedAt, &note.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan note: %w", err)
	}
	return &note, nil
}

func (s *NoteStorage) UpdateNote(ctx context.Context, note *models.Note) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, area_id = ?, project_id = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		note.Title, note.Content, note.AreaID, note.ProjectID, note.UpdatedAt,
		note.ID, note.UserID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return requireRow(result)
}

// DeleteNote soft-deletes so processed content referencing the note
// stays resolvable
func (s *NoteStorage) DeleteNote(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notes SET deleted_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return requireRow(result)
}

func (s *NoteStorage) ListNotes(ctx context.Context, userID string, opts *interfaces.ListOptions) ([]*models.Note, error) {
	limit, offset := normalizeListOptions(opts)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, area_id, project_id, created_at, updated_at
		 FROM notes WHERE user_id = ? AND deleted_at IS NULL
		 ORDER BY updated_at DESC LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content,
			&note.AreaID, &note.ProjectID, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}
	return notes, rows.Err()
}

func (s *NoteStorage) GetDailyNote(ctx context.Context, userID, date string) (*models.DailyNote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, date, content, created_at, updated_at
		 FROM daily_notes WHERE user_id = ? AND date = ?`, userID, date)

	var note models.DailyNote
	err := row.Scan(&note.ID, &note.UserID, &note.Date, &note.Content,
		&note.CreatedAt, &note.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan daily note: %w", err)
	}
	return &note, nil
}

// UpsertDailyNote inserts or replaces the entry for (user, date); at most
// one daily note exists per user per date
func (s *NoteStorage) UpsertDailyNote(ctx context.Context, note *models.DailyNote) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_notes (id, user_id, date, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, date) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		note.ID, note.UserID, note.Date, note.Content, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert daily note: %w", err)
	}
	return nil
}

func (s *NoteStorage) ListDailyNotes(ctx context.Context, userID, from, to string) ([]*models.DailyNote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, date, content, created_at, updated_at
		 FROM daily_notes WHERE user_id = ? AND date >= ? AND date <= ?
		 ORDER BY date DESC`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.DailyNote
	for rows.Next() {
		var note models.DailyNote
		if err := rows.Scan(&note.ID, &note.UserID, &note.Date, &note.Content,
			&note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan daily note: %w", err)
		}
		notes = append(notes, &note)
	}
	return notes, rows.Err()
}

// requireRow converts a zero-row update/delete into ErrNotFound
func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

// normalizeListOptions applies defaults and caps to pagination options
func normalizeListOptions(opts *interfaces.ListOptions) (limit, offset int) {
	limit, offset = 50, 0
	if opts != nil {
		if opts.Limit > 0 && opts.Limit <= 500 {
			limit = opts.Limit
		}
		if opts.Offset > 0 {
			offset = opts.Offset
		}
	}
	return limit, offset
}
