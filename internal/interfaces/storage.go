package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ZordnajelA/aura/internal/models"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different owner. Storage implementations never reveal which.
var ErrNotFound = errors.New("record not found")

// ListOptions controls pagination and filtering for list queries
type ListOptions struct {
	Limit  int
	Offset int
	Status string
}

// UserStorage persists user accounts
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// NoteStorage persists notes and daily notes
type NoteStorage interface {
	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, userID, id string) (*models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, userID, id string) error
	ListNotes(ctx context.Context, userID string, opts *ListOptions) ([]*models.Note, error)

	GetDailyNote(ctx context.Context, userID, date string) (*models.DailyNote, error)
	UpsertDailyNote(ctx context.Context, note *models.DailyNote) error
	ListDailyNotes(ctx context.Context, userID, from, to string) ([]*models.DailyNote, error)
}

// ParaStorage persists the PARA taxonomy
type ParaStorage interface {
	CreateItem(ctx context.Context, item *models.ParaItem) error
	GetItem(ctx context.Context, userID, id string) (*models.ParaItem, error)
	UpdateItem(ctx context.Context, item *models.ParaItem) error
	DeleteItem(ctx context.Context, userID, id string) error
	ListItems(ctx context.Context, userID string, kind models.ParaKind) ([]*models.ParaItem, error)
}

// CaptureStorage persists inbox captures
type CaptureStorage interface {
	CreateCapture(ctx context.Context, capture *models.Capture) error
	GetCapture(ctx context.Context, userID, id string) (*models.Capture, error)
	ListCaptures(ctx context.Context, userID string, opts *ListOptions) ([]*models.Capture, error)
	DeleteCapture(ctx context.Context, userID, id string) error
}

// MediaStorage persists media metadata (files live on the filesystem)
type MediaStorage interface {
	CreateMedia(ctx context.Context, media *models.Media) error
	GetMedia(ctx context.Context, userID, id string) (*models.Media, error)
	GetMediaByID(ctx context.Context, id string) (*models.Media, error)
	MarkProcessed(ctx context.Context, id string) error
	DeleteMedia(ctx context.Context, userID, id string) error
	ListMedia(ctx context.Context, userID string, opts *ListOptions) ([]*models.Media, error)
}

// JobStorage persists processing jobs and their results
type JobStorage interface {
	CreateJob(ctx context.Context, job *models.ProcessingJob) error
	GetJob(ctx context.Context, id string) (*models.ProcessingJob, error)
	UpdateJob(ctx context.Context, job *models.ProcessingJob) error
	ListJobs(ctx context.Context, userID string, opts *ListOptions) ([]*models.ProcessingJob, error)

	// FailStaleJobs marks jobs processing longer than maxAge as failed with
	// the given message. Returns the number of jobs transitioned.
	FailStaleJobs(ctx context.Context, maxAge time.Duration, message string) (int, error)

	// PurgeTerminalJobs deletes completed/failed jobs older than retention.
	// Returns the number of jobs removed.
	PurgeTerminalJobs(ctx context.Context, retention time.Duration) (int, error)

	CreateContent(ctx context.Context, content *models.ProcessedContent) error
	GetContentByJob(ctx context.Context, jobID string) (*models.ProcessedContent, error)
	ListContentByNote(ctx context.Context, noteID string) ([]*models.ProcessedContent, error)
}
