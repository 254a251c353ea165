package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/services/notes"
)

// DailyNoteHandler serves date-keyed daily notes
type DailyNoteHandler struct {
	notes  *notes.Service
	logger arbor.ILogger
}

func NewDailyNoteHandler(noteService *notes.Service, logger arbor.ILogger) *DailyNoteHandler {
	return &DailyNoteHandler{notes: noteService, logger: logger}
}

type dailyNoteRequest struct {
	Content string `json:"content"`
}

// Get handles GET /api/daily/{date}. An empty note is created on first
// access so every date always resolves.
func (h *DailyNoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.GetDaily(r.Context(), UserID(r), r.PathValue("date"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, note)
}

// Update handles PUT /api/daily/{date}
func (h *DailyNoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dailyNoteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.UpdateDaily(r.Context(), UserID(r), r.PathValue("date"), req.Content)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, note)
}

// List handles GET /api/daily?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *DailyNoteHandler) List(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		WriteError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}

	items, err := h.notes.ListDaily(r.Context(), UserID(r), from, to)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"daily_notes": items,
		"count":       len(items),
	})
}
