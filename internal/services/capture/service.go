package capture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

// Service manages the capture inbox: quick text, links, clipped web
// pages and uploaded files
type Service struct {
	captures interfaces.CaptureStorage
	media    interfaces.MediaStorage
	clipper  *WebClipper
	logger   arbor.ILogger
}

func NewService(captures interfaces.CaptureStorage, media interfaces.MediaStorage, clipper *WebClipper, logger arbor.ILogger) *Service {
	return &Service{
		captures: captures,
		media:    media,
		clipper:  clipper,
		logger:   logger,
	}
}

// CreateText stores a quick text capture
func (s *Service) CreateText(ctx context.Context, userID, content string) (*models.Capture, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("capture content cannot be empty")
	}

	capture := &models.Capture{
		ID:        common.NewID(),
		UserID:    userID,
		Type:      models.CaptureTypeText,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.captures.CreateCapture(ctx, capture); err != nil {
		return nil, err
	}
	return capture, nil
}

// CreateLink stores a bare URL capture without fetching it
func (s *Service) CreateLink(ctx context.Context, userID, sourceURL, title string) (*models.Capture, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return nil, fmt.Errorf("capture URL cannot be empty")
	}

	capture := &models.Capture{
		ID:        common.NewID(),
		UserID:    userID,
		Type:      models.CaptureTypeLink,
		SourceURL: sourceURL,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.captures.CreateCapture(ctx, capture); err != nil {
		return nil, err
	}
	return capture, nil
}

// CreateWebClip fetches the page, extracts its content as markdown and
// stores the result
func (s *Service) CreateWebClip(ctx context.Context, userID, sourceURL string) (*models.Capture, error) {
	clip, err := s.clipper.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to clip page: %w", err)
	}

	capture := &models.Capture{
		ID:        common.NewID(),
		UserID:    userID,
		Type:      models.CaptureTypeWebClip,
		Content:   clip.Markdown,
		SourceURL: sourceURL,
		Title:     clip.Title,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.captures.CreateCapture(ctx, capture); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("capture_id", capture.ID).
		Str("url", sourceURL).
		Msg("Web clip captured")

	return capture, nil
}

// CreateFile stores a capture referencing an uploaded media file
func (s *Service) CreateFile(ctx context.Context, userID, mediaID string) (*models.Capture, error) {
	media, err := s.media.GetMedia(ctx, userID, mediaID)
	if err != nil {
		return nil, err
	}

	capture := &models.Capture{
		ID:        common.NewID(),
		UserID:    userID,
		Type:      models.CaptureTypeFile,
		Title:     media.FileName,
		MediaID:   &media.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.captures.CreateCapture(ctx, capture); err != nil {
		return nil, err
	}
	return capture, nil
}

// Get returns one capture owned by the user
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Capture, error) {
	return s.captures.GetCapture(ctx, userID, id)
}

// List returns the user's captures, newest first
func (s *Service) List(ctx context.Context, userID string, opts *interfaces.ListOptions) ([]*models.Capture, error) {
	return s.captures.ListCaptures(ctx, userID, opts)
}

// Delete removes a capture from the inbox
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.captures.DeleteCapture(ctx, userID, id)
}
