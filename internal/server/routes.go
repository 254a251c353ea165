package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes. Method-pattern routes keep
// the mux flat; path parameters come from r.PathValue in the handlers.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// System
	mux.HandleFunc("GET /health", s.app.StatusHandler.Health)
	mux.HandleFunc("GET /api/status/usage", s.app.StatusHandler.Usage)

	// Authentication
	mux.HandleFunc("POST /api/auth/register", s.app.AuthHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.app.AuthHandler.Login)

	// Notes
	mux.HandleFunc("POST /api/notes", s.app.NoteHandler.Create)
	mux.HandleFunc("GET /api/notes", s.app.NoteHandler.List)
	mux.HandleFunc("GET /api/notes/{id}", s.app.NoteHandler.Get)
	mux.HandleFunc("PUT /api/notes/{id}", s.app.NoteHandler.Update)
	mux.HandleFunc("DELETE /api/notes/{id}", s.app.NoteHandler.Delete)
	mux.HandleFunc("GET /api/notes/{id}/preview", s.app.NoteHandler.Preview)

	// Daily notes
	mux.HandleFunc("GET /api/daily", s.app.DailyNoteHandler.List)
	mux.HandleFunc("GET /api/daily/{date}", s.app.DailyNoteHandler.Get)
	mux.HandleFunc("PUT /api/daily/{date}", s.app.DailyNoteHandler.Update)

	// PARA taxonomy
	mux.HandleFunc("POST /api/para", s.app.ParaHandler.Create)
	mux.HandleFunc("GET /api/para", s.app.ParaHandler.List)
	mux.HandleFunc("GET /api/para/{id}", s.app.ParaHandler.Get)
	mux.HandleFunc("PUT /api/para/{id}", s.app.ParaHandler.Update)
	mux.HandleFunc("DELETE /api/para/{id}", s.app.ParaHandler.Delete)
	mux.HandleFunc("POST /api/para/{id}/archive", s.app.ParaHandler.Archive)

	// Captures
	mux.HandleFunc("POST /api/captures", s.app.CaptureHandler.Create)
	mux.HandleFunc("GET /api/captures", s.app.CaptureHandler.List)
	mux.HandleFunc("GET /api/captures/{id}", s.app.CaptureHandler.Get)
	mux.HandleFunc("DELETE /api/captures/{id}", s.app.CaptureHandler.Delete)

	// Media
	mux.HandleFunc("POST /api/media", s.app.MediaHandler.Upload)
	mux.HandleFunc("GET /api/media", s.app.MediaHandler.List)
	mux.HandleFunc("GET /api/media/{id}", s.app.MediaHandler.Get)
	mux.HandleFunc("GET /api/media/{id}/download", s.app.MediaHandler.Download)
	mux.HandleFunc("DELETE /api/media/{id}", s.app.MediaHandler.Delete)

	// Processing jobs
	mux.HandleFunc("POST /api/processing/jobs", s.app.ProcessingHandler.Submit)
	mux.HandleFunc("GET /api/processing/jobs", s.app.ProcessingHandler.List)
	mux.HandleFunc("GET /api/processing/jobs/{id}", s.app.ProcessingHandler.GetJob)
	mux.HandleFunc("GET /api/processing/jobs/{id}/result", s.app.ProcessingHandler.GetResult)
	mux.HandleFunc("POST /api/processing/jobs/{id}/cancel", s.app.ProcessingHandler.Cancel)

	return mux
}
