package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

type fakeMediaStorage struct {
	mu    sync.Mutex
	media map[string]*models.Media
}

func newFakeMediaStorage() *fakeMediaStorage {
	return &fakeMediaStorage{media: make(map[string]*models.Media)}
}

func (f *fakeMediaStorage) CreateMedia(_ context.Context, media *models.Media) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media[media.ID] = media
	return nil
}

func (f *fakeMediaStorage) GetMedia(_ context.Context, userID, id string) (*models.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	media, ok := f.media[id]
	if !ok || media.UserID != userID {
		return nil, interfaces.ErrNotFound
	}
	return media, nil
}

func (f *fakeMediaStorage) GetMediaByID(_ context.Context, id string) (*models.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	media, ok := f.media[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return media, nil
}

func (f *fakeMediaStorage) MarkProcessed(context.Context, string) error { return nil }

func (f *fakeMediaStorage) DeleteMedia(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	media, ok := f.media[id]
	if !ok || media.UserID != userID {
		return interfaces.ErrNotFound
	}
	delete(f.media, id)
	return nil
}

func (f *fakeMediaStorage) ListMedia(context.Context, string, *interfaces.ListOptions) ([]*models.Media, error) {
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *fakeMediaStorage, string) {
	t.Helper()
	storage := newFakeMediaStorage()
	dir := t.TempDir()
	service, err := NewService(storage, dir, common.GetLogger())
	require.NoError(t, err)
	return service, storage, dir
}

func TestUploadAndOpen(t *testing.T) {
	service, _, dir := newTestService(t)
	ctx := context.Background()

	media, err := service.Upload(ctx, "user-1", "memo.mp3", "audio/mpeg", nil, strings.NewReader("fake audio bytes"))
	require.NoError(t, err)
	assert.Equal(t, "memo.mp3", media.FileName)
	assert.Equal(t, ".mp3", filepath.Ext(media.FilePath))
	assert.NotEqual(t, "memo.mp3", media.FilePath)
	assert.Equal(t, int64(len("fake audio bytes")), media.SizeBytes)
	assert.False(t, media.IsProcessed)

	// File exists under the upload dir with the stored name
	_, err = os.Stat(filepath.Join(dir, media.FilePath))
	require.NoError(t, err)

	got, reader, err := service.Open(ctx, "user-1", media.ID)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, media.ID, got.ID)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "fake audio bytes", string(data))
}

func TestUpload_EmptyFileName(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Upload(context.Background(), "user-1", "", "audio/mpeg", nil, strings.NewReader("x"))
	assert.Error(t, err)
}

func TestDelete_RemovesRowAndFile(t *testing.T) {
	service, _, dir := newTestService(t)
	ctx := context.Background()

	media, err := service.Upload(ctx, "user-1", "doc.pdf", "application/pdf", nil, strings.NewReader("pdf"))
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, "user-1", media.ID))

	_, err = service.Get(ctx, "user-1", media.ID)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	_, err = os.Stat(filepath.Join(dir, media.FilePath))
	assert.True(t, os.IsNotExist(err))
}

func TestDelete_OwnerScoped(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	media, err := service.Upload(ctx, "user-1", "doc.pdf", "application/pdf", nil, strings.NewReader("pdf"))
	require.NoError(t, err)

	err = service.Delete(ctx, "user-2", media.ID)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}
