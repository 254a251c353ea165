package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/ratelimit"
)

// StatusHandler serves health and provider usage endpoints
type StatusHandler struct {
	registry  *ratelimit.Registry
	startTime time.Time
	logger    arbor.ILogger
}

func NewStatusHandler(registry *ratelimit.Registry, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		registry:  registry,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Health handles GET /health
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "aura",
		"version": common.GetVersion(),
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Usage handles GET /api/status/usage, reporting the per-provider
// sliding-window consumption
func (h *StatusHandler) Usage(w http.ResponseWriter, r *http.Request) {
	usages := h.registry.UsageSnapshot()

	providers := make([]map[string]any, 0, len(usages))
	for _, usage := range usages {
		available, err := h.registry.CheckAvailability(usage.Provider)
		if err != nil {
			h.logger.Warn().Err(err).Str("provider", usage.Provider).Msg("Availability check failed")
			continue
		}
		providers = append(providers, map[string]any{
			"usage":     usage,
			"available": available,
		})
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"providers": providers,
	})
}
