package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"spendlens/internal/dataprocessing"
)

func TestErrMissingColumns(t *testing.T) {
	e := ErrMissingColumns([]string{"leads", "month"})
	assert.Equal(t, http.StatusUnprocessableEntity, e.StatusCode)
	assert.Equal(t, "MISSING_COLUMNS", e.ErrorCode)
	assert.Equal(t, map[string][]string{"missing": {"leads", "month"}}, e.Details)
}

func TestHandleErrorMapsMissingColumns(t *testing.T) {
	h := NewErrorHandler(nil)

	// Wrapped domain errors unwrap to the structured response.
	err := fmt.Errorf("ingest failed: %w", &dataprocessing.MissingColumnsError{Columns: []string{"leads"}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	h.HandleError(rec, req, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"MISSING_COLUMNS"`)
	assert.Contains(t, rec.Body.String(), `"leads"`)
}

func TestHandleErrorPassesThroughAPIError(t *testing.T) {
	h := NewErrorHandler(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/x", nil)
	h.HandleError(rec, req, ErrSessionNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_NOT_FOUND")
}

func TestHandleErrorUnknownBecomesInternal(t *testing.T) {
	h := NewErrorHandler(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.HandleError(rec, req, fmt.Errorf("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}
