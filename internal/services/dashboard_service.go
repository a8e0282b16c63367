// Package services implements the application services between the
// HTTP transport and the dataset pipeline.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"spendlens/internal/dataprocessing"
	apierrors "spendlens/internal/errors"
	"spendlens/internal/exporter"
	"spendlens/internal/infrastructure"
	"spendlens/internal/session"
	v1 "spendlens/pkg/contracts/api/v1"
	"spendlens/pkg/contracts/domain"
)

// Chart ranking depths used by the dashboard and the PDF summary.
const (
	defaultTopN  = 10
	minTopN      = 5
	maxTopN      = 30
	pdfTopBrands = 5
	pdfTopChart  = 10
)

// Notifier pushes data-change events to connected dashboard clients.
type Notifier interface {
	NotifyDataUpdate(sessionID, reason, traceID string)
}

// NoopNotifier satisfies Notifier when no push channel exists (the
// offline report CLI).
type NoopNotifier struct{}

// NotifyDataUpdate implements Notifier.
func (NoopNotifier) NotifyDataUpdate(string, string, string) {}

// DashboardService runs the session pipeline: ingest, filter, edit,
// metrics, aggregation, and export.
type DashboardService struct {
	store    *session.Store
	notifier Notifier
	logger   *slog.Logger
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(store *session.Store, notifier Notifier, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &DashboardService{
		store:    store,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
}

// CreateSession ingests an uploaded spreadsheet and opens a session
// over it. The month filter defaults to the first candidate, matching
// the dashboard's single-select behavior.
func (s *DashboardService) CreateSession(ctx context.Context, filename string, r io.Reader) (v1.SessionResponse, error) {
	var (
		records []domain.Record
		err     error
	)
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		records, err = dataprocessing.ParseCSV(r)
	} else {
		records, err = dataprocessing.ParseWorkbook(r)
	}
	if err != nil {
		return v1.SessionResponse{}, err
	}

	filters := domain.NewFilterState("")
	if months := dataprocessing.MonthOptions(records); len(months) > 0 {
		filters.Month = months[0]
	}

	sess := s.store.Create(filename, records, filters)
	s.logger.InfoContext(ctx, "session created",
		slog.String("session_id", sess.ID),
		slog.String("source", filename),
		slog.Int("records", len(records)))

	s.notifier.NotifyDataUpdate(sess.ID, "upload", infrastructure.GetTraceID(ctx))
	return s.describe(sess), nil
}

// Describe returns the session state.
func (s *DashboardService) Describe(ctx context.Context, id string) (v1.SessionResponse, error) {
	sess, err := s.get(id)
	if err != nil {
		return v1.SessionResponse{}, err
	}
	return s.describe(sess), nil
}

// Options returns the progressive filter candidates under the current
// selection.
func (s *DashboardService) Options(ctx context.Context, id string) (domain.FilterOptions, error) {
	sess, err := s.get(id)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return dataprocessing.Options(sess.Records, sess.Filters), nil
}

// SetFilters updates the cascading filter selection. Each level is
// validated against the candidates derived from the narrowed subset, so
// a selection not on offer is rejected rather than silently yielding an
// empty dashboard. Changing filters discards pending edits: the edit
// surface is always the filtered view.
func (s *DashboardService) SetFilters(ctx context.Context, id string, req v1.SetFiltersRequest) (v1.SessionResponse, error) {
	sess, err := s.get(id)
	if err != nil {
		return v1.SessionResponse{}, err
	}

	next := domain.FilterState{
		Month:       strings.TrimSpace(req.Month),
		Brand:       orAll(req.Brand),
		Destination: orAll(req.Destination),
	}

	if !contains(dataprocessing.MonthOptions(sess.Records), next.Month) {
		return v1.SessionResponse{}, apierrors.ErrValidation("month", fmt.Sprintf("%q is not an available month", next.Month))
	}
	opts := dataprocessing.Options(sess.Records, domain.FilterState{
		Month: next.Month, Brand: next.Brand, Destination: domain.AllSentinel,
	})
	if !contains(opts.Brands, next.Brand) {
		return v1.SessionResponse{}, apierrors.ErrValidation("brand", fmt.Sprintf("%q is not an available brand", next.Brand))
	}
	if !contains(opts.Destinations, next.Destination) {
		return v1.SessionResponse{}, apierrors.ErrValidation("destination", fmt.Sprintf("%q is not an available destination", next.Destination))
	}

	var updated session.Session
	if !s.store.Update(id, func(sess *session.Session) {
		sess.Filters = next
		sess.Edited = nil
		updated = *sess
	}) {
		return v1.SessionResponse{}, apierrors.ErrSessionNotFound
	}

	s.notifier.NotifyDataUpdate(id, "filters", infrastructure.GetTraceID(ctx))
	return s.describe(&updated), nil
}

// Rows returns the working row set with per-row derived ratios.
func (s *DashboardService) Rows(ctx context.Context, id string) (v1.RowsResponse, error) {
	sess, err := s.get(id)
	if err != nil {
		return v1.RowsResponse{}, err
	}
	views := dataprocessing.Views(s.workingSet(sess))
	if views == nil {
		views = []domain.RecordView{}
	}
	return v1.RowsResponse{Rows: views}, nil
}

// ReplaceRows applies a user edit: the submitted rows replace the
// working set wholesale. Every cell is re-coerced with the ingest
// rules; edits are trusted no more than original input.
func (s *DashboardService) ReplaceRows(ctx context.Context, id string, req v1.ReplaceRowsRequest) (v1.RowsResponse, error) {
	edited := make([]domain.Record, 0, len(req.Rows))
	for _, in := range req.Rows {
		edited = append(edited, domain.Record{
			Month:          dataprocessing.CoerceText(in.Month),
			Brand:          dataprocessing.CoerceText(in.Brand),
			Destination:    dataprocessing.CoerceText(in.Destination),
			SpentGBP:       dataprocessing.CoerceAmount(in.SpentGBP),
			Leads:          dataprocessing.CoerceCount(in.Leads),
			Messages:       dataprocessing.CoerceCount(in.Messages),
			Impressions:    dataprocessing.CoerceCount(in.Impressions),
			ConvertedLeads: dataprocessing.CoerceCount(in.ConvertedLeads),
		})
	}

	if !s.store.Update(id, func(sess *session.Session) { sess.Edited = edited }) {
		return v1.RowsResponse{}, apierrors.ErrSessionNotFound
	}

	s.logger.InfoContext(ctx, "rows replaced",
		slog.String("session_id", id),
		slog.Int("rows", len(edited)))
	s.notifier.NotifyDataUpdate(id, "edit", infrastructure.GetTraceID(ctx))

	return s.Rows(ctx, id)
}

// Summary computes the KPI block from the working set.
func (s *DashboardService) Summary(ctx context.Context, id string) (v1.SummaryResponse, error) {
	sess, err := s.get(id)
	if err != nil {
		return v1.SummaryResponse{}, err
	}
	summary := dataprocessing.Summarize(s.workingSet(sess))
	return v1.SummaryResponse{
		Filters:  sess.Filters,
		Summary:  summary,
		Messages: dataprocessing.MessagesPlaceholder(summary),
	}, nil
}

// Aggregates groups the working set by the requested dimension(s).
func (s *DashboardService) Aggregates(ctx context.Context, id string, params v1.AggregatesParams) (v1.AggregatesResponse, error) {
	sess, err := s.get(id)
	if err != nil {
		return v1.AggregatesResponse{}, err
	}

	rows := dataprocessing.Aggregate(s.workingSet(sess), dataprocessing.GroupBy(params.By))
	order := dataprocessing.Order(params.Order)
	if params.Order == "" {
		order = dataprocessing.OrderSpendDesc
	}
	dataprocessing.Sort(rows, order)
	rows = dataprocessing.TopN(rows, params.Top)
	if rows == nil {
		rows = []domain.AggregateRow{}
	}
	return v1.AggregatesResponse{By: params.By, Rows: rows}, nil
}

// Chart renders a ranked bar chart PNG of the working set.
func (s *DashboardService) Chart(ctx context.Context, id string, params v1.ChartParams) ([]byte, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	measure := exporter.ChartMeasure(params.Measure)
	rows := dataprocessing.Aggregate(s.workingSet(sess), dataprocessing.GroupBy(params.By))
	if measure == exporter.MeasureSpend {
		dataprocessing.Sort(rows, dataprocessing.OrderSpendDesc)
	} else {
		dataprocessing.Sort(rows, dataprocessing.OrderLeadsDesc)
	}
	rows = dataprocessing.TopN(rows, clampTopN(params.Top))

	title := fmt.Sprintf("Top %s by %s", dimensionTitle(params.By), measure.AxisTitle())
	return exporter.RenderBarChart(title, measure, rows)
}

// ExportCSV serializes the working set for download.
func (s *DashboardService) ExportCSV(ctx context.Context, id string) (string, []byte, error) {
	sess, err := s.get(id)
	if err != nil {
		return "", nil, err
	}

	data, err := exporter.RecordsCSV(s.workingSet(sess), exporter.CSVOptions{BOMPrefix: true})
	if err != nil {
		return "", nil, err
	}
	prefix := "filtered"
	if sess.Edited != nil {
		prefix = "edited"
	}
	return exporter.ExportFilename(prefix, sess.Filters, "csv"), data, nil
}

// ExportPDF builds the one-page summary report for download.
func (s *DashboardService) ExportPDF(ctx context.Context, id string) (string, []byte, error) {
	sess, err := s.get(id)
	if err != nil {
		return "", nil, err
	}
	working := s.workingSet(sess)

	byBrand := dataprocessing.Aggregate(working, dataprocessing.GroupByBrand)
	dataprocessing.Sort(byBrand, dataprocessing.OrderSpendDesc)

	byDest := dataprocessing.Aggregate(working, dataprocessing.GroupByDestination)
	dataprocessing.Sort(byDest, dataprocessing.OrderLeadsDesc)

	var chartPNG []byte
	if rows := dataprocessing.TopN(byDest, pdfTopChart); len(rows) > 0 {
		chartPNG, err = exporter.RenderBarChart("Top Destinations by Leads", exporter.MeasureLeads, rows)
		if err != nil {
			return "", nil, err
		}
	}

	data, err := exporter.BuildSummaryPDF(exporter.SummaryReport{
		Filters:   sess.Filters,
		Summary:   dataprocessing.Summarize(working),
		TopBrands: dataprocessing.TopN(byBrand, pdfTopBrands),
		ChartPNG:  chartPNG,
	})
	if err != nil {
		return "", nil, err
	}
	return exporter.SummaryFilename(sess.Filters), data, nil
}

// DeleteSession discards a session and all of its in-memory state.
func (s *DashboardService) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	s.store.Delete(id)
	s.notifier.NotifyDataUpdate(id, "delete", infrastructure.GetTraceID(ctx))
	return nil
}

func (s *DashboardService) get(id string) (*session.Session, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, apierrors.ErrSessionNotFound
	}
	return sess, nil
}

func (s *DashboardService) workingSet(sess *session.Session) []domain.Record {
	return sess.WorkingSet(dataprocessing.Apply)
}

func (s *DashboardService) describe(sess *session.Session) v1.SessionResponse {
	return v1.SessionResponse{
		ID:          sess.ID,
		SourceName:  sess.SourceName,
		Filters:     sess.Filters,
		Options:     dataprocessing.Options(sess.Records, sess.Filters),
		TotalRows:   len(sess.Records),
		WorkingRows: len(s.workingSet(sess)),
		Edited:      sess.Edited != nil,
		CreatedAt:   sess.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func orAll(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return domain.AllSentinel
	}
	return v
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func clampTopN(n int) int {
	if n == 0 {
		return defaultTopN
	}
	if n < minTopN {
		return minTopN
	}
	if n > maxTopN {
		return maxTopN
	}
	return n
}

func dimensionTitle(by string) string {
	if by == string(dataprocessing.GroupByBrand) {
		return "Companies"
	}
	return "Destinations"
}
