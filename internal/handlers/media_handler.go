package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/services/media"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger files spill to temporary disk storage
const maxMultipartMemory = 32 << 20

// MediaHandler serves media upload, download and management
type MediaHandler struct {
	media  *media.Service
	logger arbor.ILogger
}

func NewMediaHandler(mediaService *media.Service, logger arbor.ILogger) *MediaHandler {
	return &MediaHandler{media: mediaService, logger: logger}
}

// Upload handles POST /api/media. Expects a multipart form with a
// "file" part and an optional "note_id" field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Missing file part")
		return
	}
	defer file.Close()

	var noteID *string
	if v := r.FormValue("note_id"); v != "" {
		noteID = &v
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	item, err := h.media.Upload(r.Context(), UserID(r), header.Filename, mimeType, noteID, file)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, item)
}

// Get handles GET /api/media/{id}
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.media.Get(r.Context(), UserID(r), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// Download handles GET /api/media/{id}/download, streaming the stored
// file back with its original name
func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	item, reader, err := h.media.Open(r.Context(), UserID(r), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", item.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(item.SizeBytes, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.FileName))

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn().Err(err).Str("media_id", item.ID).Msg("Media download interrupted")
	}
}

// List handles GET /api/media
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.media.List(r.Context(), UserID(r), ListOptionsFromQuery(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"media": items,
		"count": len(items),
	})
}

// Delete handles DELETE /api/media/{id}
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.media.Delete(r.Context(), UserID(r), r.PathValue("id")); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
