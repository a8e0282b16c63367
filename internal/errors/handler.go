package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"spendlens/internal/dataprocessing"
)

// ErrorHandler provides centralized error handling for HTTP handlers:
// it maps domain errors to APIErrors, logs server-side failures, and
// writes the structured response.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger.With(slog.String("component", "error_handler"))}
}

// HandleError converts any error to a structured response and writes it.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	apiErr := h.toAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}

	if renderErr := render.Render(w, r, apiErr); renderErr != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}

func (h *ErrorHandler) toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var missing *dataprocessing.MissingColumnsError
	if errors.As(err, &missing) {
		return ErrMissingColumns(missing.Columns)
	}

	return NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
		"Internal server error", err.Error())
}
