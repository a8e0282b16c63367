package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spendlens/internal/exporter"
)

// TemplateHandler serves the blank upload template.
type TemplateHandler struct {
	logger *slog.Logger
}

// NewTemplateHandler creates the template handler.
func NewTemplateHandler(logger *slog.Logger) *TemplateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateHandler{logger: logger.With(slog.String("component", "template_handler"))}
}

// Routes returns the template routes.
func (h *TemplateHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/csv", h.GetCSV)
	return r
}

// GetCSV handles GET /api/template/csv: a header-only CSV carrying the
// display column names an upload is expected to use.
func (h *TemplateHandler) GetCSV(w http.ResponseWriter, r *http.Request) {
	writeAttachment(w, "spend_leads_template.csv", "text/csv; charset=utf-8", exporter.TemplateCSV())
}
