package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/services/notes"
)

// NoteHandler serves note CRUD and markdown preview
type NoteHandler struct {
	notes  *notes.Service
	logger arbor.ILogger
}

func NewNoteHandler(noteService *notes.Service, logger arbor.ILogger) *NoteHandler {
	return &NoteHandler{notes: noteService, logger: logger}
}

type noteRequest struct {
	Title     string  `json:"title" validate:"required"`
	Content   string  `json:"content"`
	AreaID    *string `json:"area_id"`
	ProjectID *string `json:"project_id"`
}

// Create handles POST /api/notes
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.Create(r.Context(), UserID(r), &notes.CreateRequest{
		Title:     req.Title,
		Content:   req.Content,
		AreaID:    req.AreaID,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, note)
}

// Get handles GET /api/notes/{id}
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(r.Context(), UserID(r), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, note)
}

// Update handles PUT /api/notes/{id}
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.Update(r.Context(), UserID(r), r.PathValue("id"), &notes.CreateRequest{
		Title:     req.Title,
		Content:   req.Content,
		AreaID:    req.AreaID,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, note)
}

// Delete handles DELETE /api/notes/{id}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), UserID(r), r.PathValue("id")); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// List handles GET /api/notes
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.notes.List(r.Context(), UserID(r), ListOptionsFromQuery(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"notes": items,
		"count": len(items),
	})
}

// Preview handles GET /api/notes/{id}/preview
func (h *NoteHandler) Preview(w http.ResponseWriter, r *http.Request) {
	html, err := h.notes.Preview(r.Context(), UserID(r), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"html": html})
}
