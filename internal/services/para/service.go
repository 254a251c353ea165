package para

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

// Service manages the PARA taxonomy
type Service struct {
	items  interfaces.ParaStorage
	logger arbor.ILogger
}

func NewService(items interfaces.ParaStorage, logger arbor.ILogger) *Service {
	return &Service{items: items, logger: logger}
}

// Create adds a new item of the given kind
func (s *Service) Create(ctx context.Context, userID string, kind models.ParaKind, name, description string) (*models.ParaItem, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid PARA kind: %s", kind)
	}
	if name == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}

	now := time.Now().UTC()
	item := &models.ParaItem{
		ID:          common.NewID(),
		UserID:      userID,
		Kind:        kind,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if kind == models.ParaKindArchive {
		item.ArchivedAt = &now
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Get returns one item owned by the user
func (s *Service) Get(ctx context.Context, userID, id string) (*models.ParaItem, error) {
	return s.items.GetItem(ctx, userID, id)
}

// Update renames or redescribes an item; the kind does not change here
func (s *Service) Update(ctx context.Context, userID, id, name, description string) (*models.ParaItem, error) {
	item, err := s.items.GetItem(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}

	item.Name = name
	item.Description = description
	item.UpdatedAt = time.Now().UTC()

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Archive moves an item into the archives
func (s *Service) Archive(ctx context.Context, userID, id string) (*models.ParaItem, error) {
	item, err := s.items.GetItem(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := item.Archive(); err != nil {
		return nil, err
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("item_id", item.ID).
		Msg("PARA item archived")

	return item, nil
}

// Delete removes an item permanently
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.items.DeleteItem(ctx, userID, id)
}

// List returns the user's items, optionally filtered by kind (empty
// kind returns everything)
func (s *Service) List(ctx context.Context, userID string, kind models.ParaKind) ([]*models.ParaItem, error) {
	if kind != "" && !kind.IsValid() {
		return nil, fmt.Errorf("invalid PARA kind: %s", kind)
	}
	return s.items.ListItems(ctx, userID, kind)
}
