package http

import (
	"context"
	"io"

	v1 "spendlens/pkg/contracts/api/v1"
	"spendlens/pkg/contracts/domain"
)

// DashboardServiceInterface defines what the session handler needs from
// the service layer. It exists so handler tests can substitute a mock.
type DashboardServiceInterface interface {
	CreateSession(ctx context.Context, filename string, r io.Reader) (v1.SessionResponse, error)
	Describe(ctx context.Context, id string) (v1.SessionResponse, error)
	Options(ctx context.Context, id string) (domain.FilterOptions, error)
	SetFilters(ctx context.Context, id string, req v1.SetFiltersRequest) (v1.SessionResponse, error)
	Rows(ctx context.Context, id string) (v1.RowsResponse, error)
	ReplaceRows(ctx context.Context, id string, req v1.ReplaceRowsRequest) (v1.RowsResponse, error)
	Summary(ctx context.Context, id string) (v1.SummaryResponse, error)
	Aggregates(ctx context.Context, id string, params v1.AggregatesParams) (v1.AggregatesResponse, error)
	Chart(ctx context.Context, id string, params v1.ChartParams) ([]byte, error)
	ExportCSV(ctx context.Context, id string) (string, []byte, error)
	ExportPDF(ctx context.Context, id string) (string, []byte, error)
	DeleteSession(ctx context.Context, id string) error
}
