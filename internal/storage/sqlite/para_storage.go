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

// ParaStorage persists the PARA taxonomy in SQLite
type ParaStorage struct {
	db     *sql.DB
	logger arbor.ILogger
}

// NewParaStorage creates a PARA storage manager
func NewParaStorage(db *DB, logger arbor.ILogger) *ParaStorage {
	return &ParaStorage{db: db.SQL(), logger: logger}
}

func (s *ParaStorage) CreateItem(ctx context.Context, item *models.ParaItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO para_items (id, user_id, kind, name, description, created_at, updated_at, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.Kind, item.Name, item.Description,
		item.CreatedAt, item.UpdatedAt, item.ArchivedAt)
	if err != nil {
		return fmt.Errorf("failed to create para item: %w", err)
	}
	return nil
}

func (s *ParaStorage) GetItem(ctx context.Context, userID, id string) (*models.ParaItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, kind, name, description, created_at, updated_at, archived_at
		 FROM para_items WHERE id = ? AND user_id = ?`, id, userID)

	var item models.ParaItem
	err := row.Scan(&item.ID, &item.UserID, &item.Kind, &item.Name, &item.Description,
		&item.CreatedAt, &item.UpdatedAt, &item.ArchivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan para item: %w", err)
	}
	return &item, nil
}

func (s *ParaStorage) UpdateItem(ctx context.Context, item *models.ParaItem) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE para_items SET kind = ?, name = ?, description = ?, updated_at = ?, archived_at = ?
		 WHERE id = ? AND user_id = ?`,
		item.Kind, item.Name, item.Description, item.UpdatedAt, item.ArchivedAt,
		item.ID, item.UserID)
	if err != nil {
		return fmt.Errorf("failed to update para item: %w", err)
	}
	return requireRow(result)
}

func (s *ParaStorage) DeleteItem(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM para_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete para item: %w", err)
	}
	return requireRow(result)
}

// ListItems returns the user's items of one kind, or all kinds when kind
// is empty
func (s *ParaStorage) ListItems(ctx context.Context, userID string, kind models.ParaKind) ([]*models.ParaItem, error) {
	query := `SELECT id, user_id, kind, name, description, created_at, updated_at, archived_at
		 FROM para_items WHERE user_id = ?`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list para items: %w", err)
	}
	defer rows.Close()

	var items []*models.ParaItem
	for rows.Next() {
		var item models.ParaItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Kind, &item.Name, &item.Description,
			&item.CreatedAt, &item.UpdatedAt, &item.ArchivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan para item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
