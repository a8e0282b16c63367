package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "spendlens/internal/errors"
	"spendlens/internal/validation"
	v1 "spendlens/pkg/contracts/api/v1"
)

// defaultMaxUploadBytes caps spreadsheet uploads when no configured
// limit is supplied.
const defaultMaxUploadBytes = 16 << 20

// SessionHandler serves the dataset session API.
type SessionHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
	uploads      *validation.UploadValidator
	maxUpload    int64
}

// NewSessionHandler creates the session handler. maxUpload bounds the
// multipart upload size; zero selects the default.
func NewSessionHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUpload int64) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return &SessionHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "session_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
		uploads:      validation.NewUploadValidator(logger),
		maxUpload:    maxUpload,
	}
}

// Routes returns the session routes.
func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateSession)

	r.Route("/{sessionID}", func(r chi.Router) {
		r.Use(h.SessionCtx)
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Get("/options", h.GetOptions)
		r.Get("/filters", h.GetFilters)
		r.Put("/filters", h.SetFilters)
		r.Get("/rows", h.GetRows)
		r.Put("/rows", h.ReplaceRows)
		r.Get("/summary", h.GetSummary)
		r.Get("/aggregates", h.GetAggregates)
		r.Get("/chart", h.GetChart)
		r.Get("/export/csv", h.ExportCSV)
		r.Get("/export/pdf", h.ExportPDF)
	})

	return r
}

// SessionCtx validates the session ID path parameter.
func (h *SessionHandler) SessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if _, err := uuid.Parse(id); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("session_id", "Session ID must be a UUID"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateSession handles POST /api/sessions. The spreadsheet arrives as
// the "file" field of a multipart form.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrUpload(fmt.Errorf("parse multipart form: %w", err)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A spreadsheet file is required"))
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	if err := h.uploads.Validate(header.Filename, head[:n]); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", err.Error()))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrUpload(fmt.Errorf("rewind upload: %w", err)))
		return
	}

	resp, err := h.service.CreateSession(r.Context(), header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

// GetSession handles GET /api/sessions/{sessionID}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Describe(r.Context(), h.sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// DeleteSession handles DELETE /api/sessions/{sessionID}.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSession(r.Context(), h.sessionID(r)); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// GetOptions handles GET /api/sessions/{sessionID}/options.
func (h *SessionHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context(), h.sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

// GetFilters handles GET /api/sessions/{sessionID}/filters.
func (h *SessionHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	id := h.sessionID(r)
	desc, err := h.service.Describe(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, v1.FiltersResponse{Filters: desc.Filters, Options: desc.Options})
}

// SetFilters handles PUT /api/sessions/{sessionID}/filters.
func (h *SessionHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var req v1.SetFiltersRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	resp, err := h.service.SetFilters(r.Context(), h.sessionID(r), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetRows handles GET /api/sessions/{sessionID}/rows.
func (h *SessionHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Rows(r.Context(), h.sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// ReplaceRows handles PUT /api/sessions/{sessionID}/rows.
func (h *SessionHandler) ReplaceRows(w http.ResponseWriter, r *http.Request) {
	var req v1.ReplaceRowsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	resp, err := h.service.ReplaceRows(r.Context(), h.sessionID(r), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetSummary handles GET /api/sessions/{sessionID}/summary.
func (h *SessionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Summary(r.Context(), h.sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetAggregates handles GET /api/sessions/{sessionID}/aggregates.
func (h *SessionHandler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	params := v1.AggregatesParams{
		By:    r.URL.Query().Get("by"),
		Order: r.URL.Query().Get("order"),
	}
	var err error
	if params.Top, err = queryInt(r, "top"); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("top", "top must be an integer"))
		return
	}
	if err := h.validate.Struct(params); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	resp, err := h.service.Aggregates(r.Context(), h.sessionID(r), params)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetChart handles GET /api/sessions/{sessionID}/chart, returning a
// rendered PNG.
func (h *SessionHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	params := v1.ChartParams{
		By:      r.URL.Query().Get("by"),
		Measure: r.URL.Query().Get("measure"),
	}
	var err error
	if params.Top, err = queryInt(r, "top"); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("top", "top must be an integer"))
		return
	}
	if err := h.validate.Struct(params); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	png, err := h.service.Chart(r.Context(), h.sessionID(r), params)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// ExportCSV handles GET /api/sessions/{sessionID}/export/csv.
func (h *SessionHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.service.ExportCSV(r.Context(), h.sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	writeAttachment(w, name, "text/csv; charset=utf-8", data)
}

// ExportPDF handles GET /api/sessions/{sessionID}/export/pdf.
func (h *SessionHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.service.ExportPDF(r.Context(), h.sessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	writeAttachment(w, name, "application/pdf", data)
}

func (h *SessionHandler) sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
