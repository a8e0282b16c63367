package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	version   string
	startedAt time.Time
	sessions  func() int
}

// NewHealthHandler creates the health handler. sessions reports the
// live session count and may be nil.
func NewHealthHandler(version string, sessions func() int) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startedAt: time.Now(),
		sessions:  sessions,
	}
}

// Healthz handles GET /api/healthz.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	}
	if h.sessions != nil {
		body["sessions"] = h.sessions()
	}
	render.JSON(w, r, body)
}
