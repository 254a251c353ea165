package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/models"
	"github.com/ZordnajelA/aura/internal/services/capture"
)

// CaptureHandler serves the capture inbox endpoints
type CaptureHandler struct {
	captures *capture.Service
	logger   arbor.ILogger
}

func NewCaptureHandler(captureService *capture.Service, logger arbor.ILogger) *CaptureHandler {
	return &CaptureHandler{captures: captureService, logger: logger}
}

type captureRequest struct {
	Type    string `json:"type" validate:"required,oneof=text link webclip file"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	MediaID string `json:"media_id"`
}

// Create handles POST /api/captures. The type field selects between a
// quick text note, a bare link, a fetched web clip and a file reference.
func (h *CaptureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	userID := UserID(r)

	var (
		item *models.Capture
		err  error
	)
	switch models.CaptureType(req.Type) {
	case models.CaptureTypeText:
		item, err = h.captures.CreateText(r.Context(), userID, req.Content)
	case models.CaptureTypeLink:
		item, err = h.captures.CreateLink(r.Context(), userID, req.URL, req.Title)
	case models.CaptureTypeWebClip:
		item, err = h.captures.CreateWebClip(r.Context(), userID, req.URL)
	case models.CaptureTypeFile:
		item, err = h.captures.CreateFile(r.Context(), userID, req.MediaID)
	}
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, item)
}

// Get handles GET /api/captures/{id}
func (h *CaptureHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.captures.Get(r.Context(), UserID(r), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// List handles GET /api/captures
func (h *CaptureHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.captures.List(r.Context(), UserID(r), ListOptionsFromQuery(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"captures": items,
		"count":    len(items),
	})
}

// Delete handles DELETE /api/captures/{id}
func (h *CaptureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.captures.Delete(r.Context(), UserID(r), r.PathValue("id")); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
