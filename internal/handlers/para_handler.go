package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/models"
	"github.com/ZordnajelA/aura/internal/services/para"
)

// ParaHandler serves the PARA taxonomy endpoints
type ParaHandler struct {
	para   *para.Service
	logger arbor.ILogger
}

func NewParaHandler(paraService *para.Service, logger arbor.ILogger) *ParaHandler {
	return &ParaHandler{para: paraService, logger: logger}
}

type paraCreateRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=project area resource archive"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type paraUpdateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// Create handles POST /api/para
func (h *ParaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req paraCreateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	item, err := h.para.Create(r.Context(), UserID(r), models.ParaKind(req.Kind), req.Name, req.Description)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

// Get handles GET /api/para/{id}
func (h *ParaHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.para.Get(r.Context(), UserID(r), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// Update handles PUT /api/para/{id}
func (h *ParaHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req paraUpdateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	item, err := h.para.Update(r.Context(), UserID(r), r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// Archive handles POST /api/para/{id}/archive
func (h *ParaHandler) Archive(w http.ResponseWriter, r *http.Request) {
	item, err := h.para.Archive(r.Context(), UserID(r), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/para/{id}
func (h *ParaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.para.Delete(r.Context(), UserID(r), r.PathValue("id")); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// List handles GET /api/para?kind=project
func (h *ParaHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := models.ParaKind(r.URL.Query().Get("kind"))

	items, err := h.para.List(r.Context(), UserID(r), kind)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}
