package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlens/internal/config"
	v1 "spendlens/pkg/contracts/api/v1"
)

const uploadCSV = `Month,Company,Destination,Spend,Leads,Messages,Impressions,Converted
January,Acme,London,1000,20,40,5000,5
January,Brio,Paris,500,5,10,2500,1
February,Brio,Rome,800,16,20,4000,4
`

func newTestApp(t *testing.T) *Application {
	t.Helper()
	cfg := config.Default()
	cfg.Security.RateLimit.Enabled = false
	cfg.Logging.Level = "error"
	cfg.Session.TTL = time.Hour
	a, err := NewWithConfig(cfg)
	require.NoError(t, err)
	return a
}

func uploadSession(t *testing.T, server *httptest.Server) v1.SessionResponse {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "spend.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(uploadCSV))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := http.Post(server.URL+"/api/sessions", writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session v1.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	return session
}

func TestUploadFilterSummaryFlow(t *testing.T) {
	a := newTestApp(t)
	server := httptest.NewServer(a.Router)
	defer server.Close()

	session := uploadSession(t, server)
	assert.Equal(t, "January", session.Filters.Month)
	assert.Equal(t, 3, session.TotalRows)
	assert.Equal(t, 2, session.WorkingRows)

	body := strings.NewReader(`{"month":"February"}`)
	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/sessions/%s/filters", server.URL, session.ID), body)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated v1.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, 1, updated.WorkingRows)

	resp, err = http.Get(fmt.Sprintf("%s/api/sessions/%s/summary", server.URL, session.ID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary v1.SummaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 800.0, summary.Summary.TotalSpend)
	assert.Equal(t, int64(16), summary.Summary.TotalLeads)
	assert.InDelta(t, 50.0, summary.Summary.CPL, 1e-9)
}

func TestExportEndpoints(t *testing.T) {
	a := newTestApp(t)
	server := httptest.NewServer(a.Router)
	defer server.Close()

	session := uploadSession(t, server)

	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/export/csv", server.URL, session.ID))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "filtered_January_All_All.csv")

	resp, err = http.Get(fmt.Sprintf("%s/api/sessions/%s/export/pdf", server.URL, session.ID))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestHealthzAndMetrics(t *testing.T) {
	a := newTestApp(t)
	server := httptest.NewServer(a.Router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, Version, health["version"])

	// A request above has already been recorded by the middleware.
	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var metricsBody bytes.Buffer
	_, err = metricsBody.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, metricsBody.String(), "spendlens_http_requests_total")
}

func TestTemplateDownload(t *testing.T) {
	a := newTestApp(t)
	server := httptest.NewServer(a.Router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/template/csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body.String(), "Month,Brand,Destination"))
}

func TestUnknownSessionIs404(t *testing.T) {
	a := newTestApp(t)
	server := httptest.NewServer(a.Router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/sessions/0de9177a-54e1-4922-9a11-13bd39839d85/rows")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
