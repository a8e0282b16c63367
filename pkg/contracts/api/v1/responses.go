package api

import "spendlens/pkg/contracts/domain"

// SessionResponse describes a dataset session: its identity, the active
// filter selection, the candidate lists, and the row counts at each
// pipeline stage.
type SessionResponse struct {
	ID          string               `json:"id"`
	SourceName  string               `json:"source_name"`
	Filters     domain.FilterState   `json:"filters"`
	Options     domain.FilterOptions `json:"options"`
	TotalRows   int                  `json:"total_rows"`
	WorkingRows int                  `json:"working_rows"`
	Edited      bool                 `json:"edited"`
	CreatedAt   string               `json:"created_at"`
}

// RowsResponse is the working row set with per-row derived ratios.
type RowsResponse struct {
	Rows []domain.RecordView `json:"rows"`
}

// FiltersResponse pairs the active selection with the candidate lists
// it allows.
type FiltersResponse struct {
	Filters domain.FilterState   `json:"filters"`
	Options domain.FilterOptions `json:"options"`
}

// SummaryResponse is the KPI block plus the messages-dashboard
// placeholder.
type SummaryResponse struct {
	Filters  domain.FilterState       `json:"filters"`
	Summary  domain.Summary           `json:"summary"`
	Messages domain.MessagesDashboard `json:"messages_dashboard"`
}

// AggregatesResponse is one group-by result set.
type AggregatesResponse struct {
	By   string                `json:"by"`
	Rows []domain.AggregateRow `json:"rows"`
}
