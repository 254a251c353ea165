package processors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
	"github.com/ZordnajelA/aura/internal/models"
)

// fakeLLM returns a canned response and records the request
type fakeLLM struct {
	response string
	request  *interfaces.GenerateRequest
}

func (f *fakeLLM) GenerateContent(_ context.Context, request *interfaces.GenerateRequest) (*interfaces.GenerateResponse, error) {
	f.request = request
	return &interfaces.GenerateResponse{Text: f.response, Provider: "gemini", Model: "gemini-2.0-flash"}, nil
}

func (f *fakeLLM) Close() error { return nil }

// noteStore serves a single note
type noteStore struct {
	interfaces.NoteStorage
	note *models.Note
}

func (s *noteStore) GetNote(_ context.Context, userID, id string) (*models.Note, error) {
	if s.note == nil || s.note.ID != id || s.note.UserID != userID {
		return nil, interfaces.ErrNotFound
	}
	return s.note, nil
}

// paraStore serves fixed item lists per kind
type paraStore struct {
	interfaces.ParaStorage
	items map[models.ParaKind][]*models.ParaItem
}

func (s *paraStore) ListItems(_ context.Context, _ string, kind models.ParaKind) ([]*models.ParaItem, error) {
	return s.items[kind], nil
}

func TestClassifierProcessor(t *testing.T) {
	notes := &noteStore{note: &models.Note{
		ID:      "note-1",
		UserID:  "user-1",
		Title:   "Kitchen renovation quotes",
		Content: "Got three quotes, need to pick a contractor by Friday.",
	}}
	para := &paraStore{items: map[models.ParaKind][]*models.ParaItem{
		models.ParaKindArea:    {{Name: "Home", Description: "House upkeep"}},
		models.ParaKindProject: {{Name: "Kitchen renovation"}},
	}}
	model := &fakeLLM{response: "```json\n" + `{
		"classification_type": "project",
		"suggested_area": "Home",
		"suggested_project": "Kitchen renovation",
		"is_actionable": true,
		"priority": "high",
		"confidence_score": 0.92
	}` + "\n```"}

	processor := NewClassifierProcessor(notes, para, model, common.GetLogger())

	noteID := "note-1"
	job := &models.ProcessingJob{
		ID:      "job-1",
		UserID:  "user-1",
		NoteID:  &noteID,
		JobType: models.JobTypeTextClassification,
	}

	result, err := processor.Process(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, "project", result.Metadata["classification_type"])
	assert.Equal(t, "Kitchen renovation", result.Metadata["suggested_project"])
	assert.Equal(t, "true", result.Metadata["is_actionable"])
	assert.InDelta(t, 0.92, result.Confidence, 0.001)

	// The prompt carries the user's real areas and projects
	require.NotNil(t, model.request)
	assert.Contains(t, model.request.Prompt, "Home: House upkeep")
	assert.Contains(t, model.request.Prompt, "Kitchen renovation")
	assert.Contains(t, model.request.Prompt, "Kitchen renovation quotes")
}

func TestClassifierProcessor_EmptyNoteRejected(t *testing.T) {
	notes := &noteStore{note: &models.Note{ID: "note-1", UserID: "user-1"}}
	para := &paraStore{items: map[models.ParaKind][]*models.ParaItem{}}
	processor := NewClassifierProcessor(notes, para, &fakeLLM{}, common.GetLogger())

	noteID := "note-1"
	job := &models.ProcessingJob{ID: "job-1", UserID: "user-1", NoteID: &noteID}

	_, err := processor.Process(context.Background(), job)
	assert.Error(t, err)
}

func TestClassifierProcessor_MissingNote(t *testing.T) {
	processor := NewClassifierProcessor(&noteStore{}, &paraStore{}, &fakeLLM{}, common.GetLogger())

	noteID := "missing"
	job := &models.ProcessingJob{ID: "job-1", UserID: "user-1", NoteID: &noteID}

	_, err := processor.Process(context.Background(), job)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}
