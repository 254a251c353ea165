package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

// maxUploadSize caps a single media upload at 100 MB
const maxUploadSize = 100 << 20

// Service stores uploaded media files on the filesystem with their
// metadata rows in SQLite. Stored names are uuid-based so client file
// names never touch the filesystem.
type Service struct {
	media     interfaces.MediaStorage
	uploadDir string
	logger    arbor.ILogger
}

func NewService(mediaStorage interfaces.MediaStorage, uploadDir string, logger arbor.ILogger) (*Service, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Service{
		media:     mediaStorage,
		uploadDir: uploadDir,
		logger:    logger,
	}, nil
}

// Upload streams the file to disk and records its metadata
func (s *Service) Upload(ctx context.Context, userID, fileName, mimeType string, noteID *string, r io.Reader) (*models.Media, error) {
	if fileName == "" {
		return nil, fmt.Errorf("file name cannot be empty")
	}

	storedName := uuid.NewString() + filepath.Ext(fileName)
	path := filepath.Join(s.uploadDir, storedName)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create media file: %w", err)
	}

	size, err := io.Copy(f, io.LimitReader(r, maxUploadSize+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && size > maxUploadSize {
		err = fmt.Errorf("file exceeds maximum upload size")
	}
	if err != nil {
		s.removeFile(storedName)
		return nil, fmt.Errorf("failed to store media file: %w", err)
	}

	media := &models.Media{
		ID:        common.NewID(),
		UserID:    userID,
		NoteID:    noteID,
		FileName:  fileName,
		FilePath:  storedName,
		MimeType:  mimeType,
		SizeBytes: size,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.media.CreateMedia(ctx, media); err != nil {
		s.removeFile(storedName)
		return nil, err
	}

	s.logger.Info().
		Str("media_id", media.ID).
		Str("mime_type", mimeType).
		Int64("size_bytes", size).
		Msg("Media uploaded")

	return media, nil
}

// Get returns media metadata owned by the user
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Media, error) {
	return s.media.GetMedia(ctx, userID, id)
}

// Open returns the media metadata and an open reader on its file. The
// caller closes the reader.
func (s *Service) Open(ctx context.Context, userID, id string) (*models.Media, io.ReadCloser, error) {
	media, err := s.media.GetMedia(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.uploadDir, media.FilePath))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open media file: %w", err)
	}
	return media, f, nil
}

// List returns the user's media, newest first
func (s *Service) List(ctx context.Context, userID string, opts *interfaces.ListOptions) ([]*models.Media, error) {
	return s.media.ListMedia(ctx, userID, opts)
}

// Delete removes the metadata row and then the file. File removal is
// best-effort: the row is already gone, so a leftover file only wastes
// disk until manual cleanup.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	media, err := s.media.GetMedia(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.media.DeleteMedia(ctx, userID, id); err != nil {
		return err
	}

	s.removeFile(media.FilePath)
	return nil
}

// UploadDir exposes the storage root for processors that read files
// directly
func (s *Service) UploadDir() string {
	return s.uploadDir
}

func (s *Service) removeFile(storedName string) {
	if err := os.Remove(filepath.Join(s.uploadDir, storedName)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn().
			Err(err).
			Str("file", storedName).
			Msg("Failed to remove media file")
	}
}
