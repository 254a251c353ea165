package notes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

const dateLayout = "2006-01-02"

// Service manages notes and daily notes. Markdown previews are rendered
// with GitHub Flavored Markdown extensions.
type Service struct {
	notes    interfaces.NoteStorage
	para     interfaces.ParaStorage
	markdown goldmark.Markdown
	logger   arbor.ILogger
}

func NewService(noteStorage interfaces.NoteStorage, paraStorage interfaces.ParaStorage, logger arbor.ILogger) *Service {
	return &Service{
		notes: noteStorage,
		para:  paraStorage,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		logger: logger,
	}
}

// CreateRequest carries the fields for a new note
type CreateRequest struct {
	Title     string
	Content   string
	AreaID    *string
	ProjectID *string
}

// Create validates PARA references and persists a new note
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*models.Note, error) {
	if err := s.validateParaRefs(ctx, userID, req.AreaID, req.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note := &models.Note{
		ID:        common.NewID(),
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		AreaID:    req.AreaID,
		ProjectID: req.ProjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notes.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Get returns one note owned by the user
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	return s.notes.GetNote(ctx, userID, id)
}

// Update applies changes to an existing note
func (s *Service) Update(ctx context.Context, userID, id string, req *CreateRequest) (*models.Note, error) {
	note, err := s.notes.GetNote(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateParaRefs(ctx, userID, req.AreaID, req.ProjectID); err != nil {
		return nil, err
	}

	note.Title = req.Title
	note.Content = req.Content
	note.AreaID = req.AreaID
	note.ProjectID = req.ProjectID
	note.UpdatedAt = time.Now().UTC()

	if err := s.notes.UpdateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete soft-deletes a note
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.notes.DeleteNote(ctx, userID, id)
}

// List returns the user's notes, most recently updated first
func (s *Service) List(ctx context.Context, userID string, opts *interfaces.ListOptions) ([]*models.Note, error) {
	return s.notes.ListNotes(ctx, userID, opts)
}

// Preview renders a note's markdown content to HTML
func (s *Service) Preview(ctx context.Context, userID, id string) (string, error) {
	note, err := s.notes.GetNote(ctx, userID, id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(note.Content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// GetDaily returns the daily note for a date, creating an empty one on
// first access
func (s *Service) GetDaily(ctx context.Context, userID, date string) (*models.DailyNote, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	note, err := s.notes.GetDailyNote(ctx, userID, date)
	if err == nil {
		return note, nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	note = &models.DailyNote{
		ID:        common.NewID(),
		UserID:    userID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notes.UpsertDailyNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateDaily replaces the daily note content for a date
func (s *Service) UpdateDaily(ctx context.Context, userID, date, content string) (*models.DailyNote, error) {
	note, err := s.GetDaily(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	note.Content = content
	note.UpdatedAt = time.Now().UTC()
	if err := s.notes.UpsertDailyNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// ListDaily returns daily notes in an inclusive date range
func (s *Service) ListDaily(ctx context.Context, userID, from, to string) ([]*models.DailyNote, error) {
	for _, date := range []string{from, to} {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
		}
	}
	return s.notes.ListDailyNotes(ctx, userID, from, to)
}

// validateParaRefs checks that referenced PARA items exist, belong to
// the user and have the expected kind
func (s *Service) validateParaRefs(ctx context.Context, userID string, areaID, projectID *string) error {
	if areaID != nil {
		item, err := s.para.GetItem(ctx, userID, *areaID)
		if err != nil {
			return fmt.Errorf("invalid area reference: %w", err)
		}
		if item.Kind != models.ParaKindArea {
			return fmt.Errorf("item %s is not an area", *areaID)
		}
	}
	if projectID != nil {
		item, err := s.para.GetItem(ctx, userID, *projectID)
		if err != nil {
			return fmt.Errorf("invalid project reference: %w", err)
		}
		if item.Kind != models.ParaKindProject {
			return fmt.Errorf("item %s is not a project", *projectID)
		}
	}
	return nil
}
