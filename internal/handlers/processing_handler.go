package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/models"
	"github.com/ZordnajelA/aura/internal/services/processing"
)

// ProcessingHandler serves AI processing job submission and tracking
type ProcessingHandler struct {
	processing *processing.Service
	logger     arbor.ILogger
}

func NewProcessingHandler(processingService *processing.Service, logger arbor.ILogger) *ProcessingHandler {
	return &ProcessingHandler{processing: processingService, logger: logger}
}

type submitJobRequest struct {
	JobType string  `json:"job_type" validate:"required,oneof=audio video image document text_classification"`
	NoteID  *string `json:"note_id"`
	MediaID *string `json:"media_id"`
}

// Submit handles POST /api/processing/jobs
func (h *ProcessingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.processing.Submit(r.Context(), UserID(r), &processing.SubmitRequest{
		JobType: models.JobType(req.JobType),
		NoteID:  req.NoteID,
		MediaID: req.MediaID,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusAccepted, job)
}

// GetJob handles GET /api/processing/jobs/{id}
func (h *ProcessingHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.processing.GetJob(r.Context(), UserID(r), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// GetResult handles GET /api/processing/jobs/{id}/result
func (h *ProcessingHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	content, err := h.processing.GetResult(r.Context(), UserID(r), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, content)
}

// List handles GET /api/processing/jobs?status=pending
func (h *ProcessingHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.processing.ListJobs(r.Context(), UserID(r), ListOptionsFromQuery(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// Cancel handles POST /api/processing/jobs/{id}/cancel. Only pending
// jobs can be cancelled; anything already picked up runs to completion.
func (h *ProcessingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	job, err := h.processing.Cancel(r.Context(), UserID(r), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}
