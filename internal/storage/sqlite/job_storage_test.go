package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(common.GetLogger(), &common.StorageConfig{
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
		UploadDir:  t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB, id string) {
	t.Helper()
	users := NewUserStorage(db, common.GetLogger())
	require.NoError(t, users.CreateUser(context.Background(), &models.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}))
}

func newPendingJob(userID string) *models.ProcessingJob {
	return &models.ProcessingJob{
		ID:        common.NewJobID(),
		UserID:    userID,
		JobType:   models.JobTypeAudio,
		Status:    models.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func TestJobStorage_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1")
	storage := NewJobStorage(db, common.GetLogger())
	ctx := context.Background()

	job := newPendingJob("user-1")
	require.NoError(t, storage.CreateJob(ctx, job))

	got, err := storage.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, models.JobStatusPending, got.Status)
	assert.Equal(t, 0, got.Progress)
	assert.Nil(t, got.StartedAt)
}

func TestJobStorage_GetMissing(t *testing.T) {
	db := newTestDB(t)
	storage := NewJobStorage(db, common.GetLogger())

	_, err := storage.GetJob(context.Background(), "job_missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestJobStorage_UpdateTransitions(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1")
	storage := NewJobStorage(db, common.GetLogger())
	ctx := context.Background()

	job := newPendingJob("user-1")
	require.NoError(t, storage.CreateJob(ctx, job))

	require.NoError(t, job.MarkProcessing())
	require.NoError(t, job.SetProgress(40))
	require.NoError(t, storage.UpdateJob(ctx, job))

	got, err := storage.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusProcessing, got.Status)
	assert.Equal(t, 40, got.Progress)
	require.NotNil(t, got.StartedAt)

	require.NoError(t, job.MarkCompleted())
	require.NoError(t, storage.UpdateJob(ctx, job))

	got, err = storage.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.CompletedAt)
}

func TestJobStorage_ListJobsFiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1")
	seedUser(t, db, "user-2")
	storage := NewJobStorage(db, common.GetLogger())
	ctx := context.Background()

	pending := newPendingJob("user-1")
	require.NoError(t, storage.CreateJob(ctx, pending))

	done := newPendingJob("user-1")
	require.NoError(t, done.MarkProcessing())
	require.NoError(t, done.MarkCompleted())
	require.NoError(t, storage.CreateJob(ctx, done))

	other := newPendingJob("user-2")
	require.NoError(t, storage.CreateJob(ctx, other))

	jobs, err := storage.ListJobs(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	jobs, err = storage.ListJobs(ctx, "user-1", &interfaces.ListOptions{Status: string(models.JobStatusPending)})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, pending.ID, jobs[0].ID)
}

func TestJobStorage_FailStaleJobs(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1")
	storage := NewJobStorage(db, common.GetLogger())
	ctx := context.Background()

	stale := newPendingJob("user-1")
	require.NoError(t, stale.MarkProcessing())
	old := time.Now().UTC().Add(-2 * time.Hour)
	stale.StartedAt = &old
	require.NoError(t, storage.CreateJob(ctx, stale))

	fresh := newPendingJob("user-1")
	require.NoError(t, fresh.MarkProcessing())
	require.NoError(t, storage.CreateJob(ctx, fresh))

	count, err := storage.FailStaleJobs(ctx, time.Hour, "Processing timed out")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := storage.GetJob(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	assert.Equal(t, "Processing timed out", got.ErrorMessage)

	got, err = storage.GetJob(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusProcessing, got.Status)
}

func TestJobStorage_PurgeTerminalJobs(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1")
	storage := NewJobStorage(db, common.GetLogger())
	ctx := context.Background()

	old := newPendingJob("user-1")
	require.NoError(t, old.MarkProcessing())
	require.NoError(t, old.MarkCompleted())
	past := time.Now().UTC().Add(-48 * time.Hour)
	old.CompletedAt = &past
	require.NoError(t, storage.CreateJob(ctx, old))

	active := newPendingJob("user-1")
	require.NoError(t, active.MarkProcessing())
	require.NoError(t, storage.CreateJob(ctx, active))

	count, err := storage.PurgeTerminalJobs(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = storage.GetJob(ctx, old.ID)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	_, err = storage.GetJob(ctx, active.ID)
	assert.NoError(t, err)
}

func TestJobStorage_ContentRoundTrip(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1")
	storage := NewJobStorage(db, common.GetLogger())
	ctx := context.Background()

	noteID := "note-1"
	job := newPendingJob("user-1")
	job.NoteID = &noteID
	require.NoError(t, storage.CreateJob(ctx, job))

	content := models.NewProcessedContent(common.NewID(), job, &models.ProcessingResult{
		RawText:        "transcribed text",
		Summary:        "a summary",
		KeyPoints:      []string{"first", "second"},
		ExtractedTasks: []string{"call the dentist"},
		Metadata:       map[string]string{"duration": "3m20s"},
		Confidence:     0.85,
	})
	require.NoError(t, storage.CreateContent(ctx, content))

	got, err := storage.GetContentByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContentTypeTranscription, got.ContentType)
	assert.Equal(t, []string{"first", "second"}, got.KeyPoints)
	assert.Equal(t, []string{"call the dentist"}, got.ExtractedTasks)
	assert.Equal(t, map[string]string{"duration": "3m20s"}, got.Metadata)
	assert.Equal(t, 85, got.Confidence)

	byNote, err := storage.ListContentByNote(ctx, noteID)
	require.NoError(t, err)
	require.Len(t, byNote, 1)
	assert.Equal(t, content.ID, byNote[0].ID)
}

func TestNoteStorage_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1")
	notes := NewNoteStorage(db, common.GetLogger())
	ctx := context.Background()

	note := &models.Note{
		ID:        common.NewID(),
		UserID:    "user-1",
		Title:     "test",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, notes.CreateNote(ctx, note))
	require.NoError(t, notes.DeleteNote(ctx, "user-1", note.ID))

	_, err := notes.GetNote(ctx, "user-1", note.ID)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	// Deleting again reports not found
	err = notes.DeleteNote(ctx, "user-1", note.ID)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestNoteStorage_OwnerScoping(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1")
	seedUser(t, db, "user-2")
	notes := NewNoteStorage(db, common.GetLogger())
	ctx := context.Background()

	note := &models.Note{
		ID:        common.NewID(),
		UserID:    "user-1",
		Title:     "private",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, notes.CreateNote(ctx, note))

	_, err := notes.GetNote(ctx, "user-2", note.ID)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestNoteStorage_DailyNoteUpsert(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1")
	notes := NewNoteStorage(db, common.GetLogger())
	ctx := context.Background()

	first := &models.DailyNote{
		ID:        common.NewID(),
		UserID:    "user-1",
		Date:      "2026-08-24",
		Content:   "morning",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, notes.UpsertDailyNote(ctx, first))

	second := &models.DailyNote{
		ID:        common.NewID(),
		UserID:    "user-1",
		Date:      "2026-08-24",
		Content:   "evening",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, notes.UpsertDailyNote(ctx, second))

	got, err := notes.GetDailyNote(ctx, "user-1", "2026-08-24")
	require.NoError(t, err)
	assert.Equal(t, "evening", got.Content)
	// The original row id survives the upsert
	assert.Equal(t, first.ID, got.ID)
}
