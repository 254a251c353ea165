package processing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

// fakeJobStorage is an in-memory JobStorage for service tests
type fakeJobStorage struct {
	mu      sync.Mutex
	jobs    map[string]*models.ProcessingJob
	content map[string]*models.ProcessedContent // keyed by job id
}

func newFakeJobStorage() *fakeJobStorage {
	return &fakeJobStorage{
		jobs:    make(map[string]*models.ProcessingJob),
		content: make(map[string]*models.ProcessedContent),
	}
}

func (f *fakeJobStorage) CreateJob(_ context.Context, job *models.ProcessingJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

func (f *fakeJobStorage) GetJob(_ context.Context, id string) (*models.ProcessingJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobStorage) UpdateJob(_ context.Context, job *models.ProcessingJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[job.ID]; !ok {
		return interfaces.ErrNotFound
	}
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

func (f *fakeJobStorage) ListJobs(_ context.Context, userID string, _ *interfaces.ListOptions) ([]*models.ProcessingJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var jobs []*models.ProcessingJob
	for _, job := range f.jobs {
		if job.UserID == userID {
			copied := *job
			jobs = append(jobs, &copied)
		}
	}
	return jobs, nil
}

func (f *fakeJobStorage) FailStaleJobs(context.Context, time.Duration, string) (int, error) {
	return 0, nil
}

func (f *fakeJobStorage) PurgeTerminalJobs(context.Context, time.Duration) (int, error) {
	return 0, nil
}

func (f *fakeJobStorage) CreateContent(_ context.Context, content *models.ProcessedContent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content[content.JobID] = content
	return nil
}

func (f *fakeJobStorage) GetContentByJob(_ context.Context, jobID string) (*models.ProcessedContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.content[jobID]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return content, nil
}

func (f *fakeJobStorage) ListContentByNote(context.Context, string) ([]*models.ProcessedContent, error) {
	return nil, nil
}

// fakeMediaStorage is an in-memory MediaStorage
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

func (f *fakeMediaStorage) MarkProcessed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	media, ok := f.media[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	media.IsProcessed = true
	return nil
}

func (f *fakeMediaStorage) DeleteMedia(_ context.Context, userID, id string) error {
	return nil
}

func (f *fakeMediaStorage) ListMedia(context.Context, string, *interfaces.ListOptions) ([]*models.Media, error) {
	return nil, nil
}

// fakeNoteStorage is an in-memory NoteStorage
type fakeNoteStorage struct {
	mu    sync.Mutex
	notes map[string]*models.Note
}

func newFakeNoteStorage() *fakeNoteStorage {
	return &fakeNoteStorage{notes: make(map[string]*models.Note)}
}

func (f *fakeNoteStorage) CreateNote(_ context.Context, note *models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[note.ID] = note
	return nil
}

func (f *fakeNoteStorage) GetNote(_ context.Context, userID, id string) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	note, ok := f.notes[id]
	if !ok || note.UserID != userID {
		return nil, interfaces.ErrNotFound
	}
	copied := *note
	return &copied, nil
}

func (f *fakeNoteStorage) UpdateNote(_ context.Context, note *models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notes[note.ID]; !ok {
		return interfaces.ErrNotFound
	}
	copied := *note
	f.notes[note.ID] = &copied
	return nil
}

func (f *fakeNoteStorage) DeleteNote(context.Context, string, string) error { return nil }

func (f *fakeNoteStorage) ListNotes(context.Context, string, *interfaces.ListOptions) ([]*models.Note, error) {
	return nil, nil
}

func (f *fakeNoteStorage) GetDailyNote(context.Context, string, string) (*models.DailyNote, error) {
	return nil, interfaces.ErrNotFound
}

func (f *fakeNoteStorage) UpsertDailyNote(context.Context, *models.DailyNote) error { return nil }

func (f *fakeNoteStorage) ListDailyNotes(context.Context, string, string, string) ([]*models.DailyNote, error) {
	return nil, nil
}

// fakeQueue records enqueued messages
type fakeQueue struct {
	mu       sync.Mutex
	messages []*models.JobMessage
	err      error
}

func (f *fakeQueue) Enqueue(_ context.Context, msg *models.JobMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

// fakeProcessor returns a fixed result or error
type fakeProcessor struct {
	result *models.ProcessingResult
	err    error
	calls  int
}

func (f *fakeProcessor) Process(_ context.Context, _ *models.ProcessingJob) (*models.ProcessingResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fixture struct {
	service *Service
	jobs    *fakeJobStorage
	media   *fakeMediaStorage
	notes   *fakeNoteStorage
	queue   *fakeQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	jobs := newFakeJobStorage()
	media := newFakeMediaStorage()
	notes := newFakeNoteStorage()
	queue := &fakeQueue{}
	service := NewService(jobs, media, notes, queue, common.GetLogger())
	return &fixture{service: service, jobs: jobs, media: media, notes: notes, queue: queue}
}

func (f *fixture) seedMedia(id, userID string) *models.Media {
	media := &models.Media{ID: id, UserID: userID, FileName: "a.mp3", FilePath: id + ".mp3"}
	f.media.CreateMedia(context.Background(), media)
	return media
}

func TestSubmit_PersistsPendingAndEnqueues(t *testing.T) {
	f := newFixture(t)
	f.seedMedia("media-1", "user-1")
	ctx := context.Background()

	mediaID := "media-1"
	job, err := f.service.Submit(ctx, "user-1", &SubmitRequest{
		JobType: models.JobTypeAudio,
		MediaID: &mediaID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, 0, job.Progress)

	stored, err := f.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, stored.Status)

	require.Len(t, f.queue.messages, 1)
	assert.Equal(t, job.ID, f.queue.messages[0].JobID)
	assert.Equal(t, models.JobTypeAudio, f.queue.messages[0].JobType)
}

func TestSubmit_RejectsForeignMedia(t *testing.T) {
	f := newFixture(t)
	f.seedMedia("media-1", "someone-else")

	mediaID := "media-1"
	_, err := f.service.Submit(context.Background(), "user-1", &SubmitRequest{
		JobType: models.JobTypeAudio,
		MediaID: &mediaID,
	})
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	assert.Empty(t, f.queue.messages)
}

func TestSubmit_InvalidJobType(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Submit(context.Background(), "user-1", &SubmitRequest{
		JobType: models.JobType("bogus"),
	})
	assert.Error(t, err)
}

func TestSubmit_EnqueueFailureFailsJob(t *testing.T) {
	f := newFixture(t)
	f.seedMedia("media-1", "user-1")
	f.queue.err = errors.New("queue unavailable")

	mediaID := "media-1"
	_, err := f.service.Submit(context.Background(), "user-1", &SubmitRequest{
		JobType: models.JobTypeAudio,
		MediaID: &mediaID,
	})
	require.Error(t, err)

	jobs, err := f.jobs.ListJobs(context.Background(), "user-1", nil)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.JobStatusFailed, jobs[0].Status)
}

func TestSubmit_ConcurrentSubmitsGetDistinctIDs(t *testing.T) {
	f := newFixture(t)
	f.seedMedia("media-1", "user-1")
	mediaID := "media-1"

	var wg sync.WaitGroup
	ids := make(chan string, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job, err := f.service.Submit(context.Background(), "user-1", &SubmitRequest{
				JobType: models.JobTypeAudio,
				MediaID: &mediaID,
			})
			if assert.NoError(t, err) {
				ids <- job.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	first := <-ids
	second := <-ids
	assert.NotEqual(t, first, second)
	assert.Len(t, f.queue.messages, 2)
}

func TestCancel_PendingJob(t *testing.T) {
	f := newFixture(t)
	f.seedMedia("media-1", "user-1")
	mediaID := "media-1"
	ctx := context.Background()

	job, err := f.service.Submit(ctx, "user-1", &SubmitRequest{
		JobType: models.JobTypeAudio,
		MediaID: &mediaID,
	})
	require.NoError(t, err)

	cancelled, err := f.service.Cancel(ctx, "user-1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, cancelled.Status)
	assert.Equal(t, models.CancelledMessage, cancelled.ErrorMessage)
	require.NotNil(t, cancelled.CompletedAt)
}

func TestCancel_ProcessingJobRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := &models.ProcessingJob{
		ID:        common.NewJobID(),
		UserID:    "user-1",
		JobType:   models.JobTypeAudio,
		Status:    models.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, job.MarkProcessing())
	require.NoError(t, f.jobs.CreateJob(ctx, job))

	_, err := f.service.Cancel(ctx, "user-1", job.ID)
	assert.ErrorIs(t, err, ErrJobNotCancellable)
}

func TestCancel_OwnerScoped(t *testing.T) {
	f := newFixture(t)
	f.seedMedia("media-1", "user-1")
	mediaID := "media-1"
	ctx := context.Background()

	job, err := f.service.Submit(ctx, "user-1", &SubmitRequest{
		JobType: models.JobTypeAudio,
		MediaID: &mediaID,
	})
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, "user-2", job.ID)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestDispatch_SuccessStoresContentAndMarksMedia(t *testing.T) {
	f := newFixture(t)
	f.seedMedia("media-1", "user-1")
	mediaID := "media-1"
	ctx := context.Background()

	processor := &fakeProcessor{result: &models.ProcessingResult{
		RawText:    "transcript",
		Summary:    "summary",
		Confidence: 0.9,
	}}
	f.service.RegisterProcessor(models.JobTypeAudio, processor)

	job, err := f.service.Submit(ctx, "user-1", &SubmitRequest{
		JobType: models.JobTypeAudio,
		MediaID: &mediaID,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Dispatch(ctx, &models.JobMessage{JobID: job.ID, JobType: job.JobType}))
	assert.Equal(t, 1, processor.calls)

	final, err := f.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, final.Status)
	assert.Equal(t, 100, final.Progress)

	content, err := f.jobs.GetContentByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "transcript", content.RawText)
	assert.Equal(t, models.ContentTypeTranscription, content.ContentType)
	assert.Equal(t, 90, content.Confidence)

	media, err := f.media.GetMediaByID(ctx, "media-1")
	require.NoError(t, err)
	assert.True(t, media.IsProcessed)
}

func TestDispatch_ProcessorErrorFailsJob(t *testing.T) {
	f := newFixture(t)
	f.seedMedia("media-1", "user-1")
	mediaID := "media-1"
	ctx := context.Background()

	f.service.RegisterProcessor(models.JobTypeAudio, &fakeProcessor{err: errors.New("transcription failed")})

	job, err := f.service.Submit(ctx, "user-1", &SubmitRequest{
		JobType: models.JobTypeAudio,
		MediaID: &mediaID,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Dispatch(ctx, &models.JobMessage{JobID: job.ID, JobType: job.JobType}))

	final, err := f.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, final.Status)
	assert.Equal(t, "transcription failed", final.ErrorMessage)
}

func TestDispatch_SkipsJobCancelledWhileQueued(t *testing.T) {
	f := newFixture(t)
	f.seedMedia("media-1", "user-1")
	mediaID := "media-1"
	ctx := context.Background()

	processor := &fakeProcessor{result: &models.ProcessingResult{}}
	f.service.RegisterProcessor(models.JobTypeAudio, processor)

	job, err := f.service.Submit(ctx, "user-1", &SubmitRequest{
		JobType: models.JobTypeAudio,
		MediaID: &mediaID,
	})
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, "user-1", job.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.Dispatch(ctx, &models.JobMessage{JobID: job.ID, JobType: job.JobType}))
	assert.Equal(t, 0, processor.calls)

	final, err := f.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, final.Status)
	assert.Equal(t, models.CancelledMessage, final.ErrorMessage)
}

func TestDispatch_MissingProcessorFailsJob(t *testing.T) {
	f := newFixture(t)
	f.seedMedia("media-1", "user-1")
	mediaID := "media-1"
	ctx := context.Background()

	job, err := f.service.Submit(ctx, "user-1", &SubmitRequest{
		JobType: models.JobTypeAudio,
		MediaID: &mediaID,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Dispatch(ctx, &models.JobMessage{JobID: job.ID, JobType: job.JobType}))

	final, err := f.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, final.Status)
	assert.Contains(t, final.ErrorMessage, "No processor registered")
}

func TestDispatch_FillsEmptyNoteContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	note := &models.Note{ID: "note-1", UserID: "user-1"}
	require.NoError(t, f.notes.CreateNote(ctx, note))

	f.service.RegisterProcessor(models.JobTypeTextClassification, &fakeProcessor{
		result: &models.ProcessingResult{RawText: "extracted text"},
	})

	noteID := "note-1"
	job, err := f.service.Submit(ctx, "user-1", &SubmitRequest{
		JobType: models.JobTypeTextClassification,
		NoteID:  &noteID,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Dispatch(ctx, &models.JobMessage{JobID: job.ID, JobType: job.JobType}))

	updated, err := f.notes.GetNote(ctx, "user-1", "note-1")
	require.NoError(t, err)
	assert.Equal(t, "extracted text", updated.Content)
}

func TestGetResult_RequiresOwnership(t *testing.T) {
	f := newFixture(t)
	f.seedMedia("media-1", "user-1")
	mediaID := "media-1"
	ctx := context.Background()

	f.service.RegisterProcessor(models.JobTypeAudio, &fakeProcessor{
		result: &models.ProcessingResult{RawText: "x"},
	})

	job, err := f.service.Submit(ctx, "user-1", &SubmitRequest{
		JobType: models.JobTypeAudio,
		MediaID: &mediaID,
	})
	require.NoError(t, err)
	require.NoError(t, f.service.Dispatch(ctx, &models.JobMessage{JobID: job.ID, JobType: job.JobType}))

	_, err = f.service.GetResult(ctx, "user-2", job.ID)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	content, err := f.service.GetResult(ctx, "user-1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", content.RawText)
}
