// Package api contains API contract definitions for the spend & leads
// dashboard service. Version v1 is the current stable API version.
package api

// SetFiltersRequest updates a session's cascading filter selection.
// Month must be one of the session's month candidates; brand and
// destination default to the "All" sentinel when empty.
type SetFiltersRequest struct {
	Month       string `json:"month" validate:"required"`
	Brand       string `json:"brand"`
	Destination string `json:"destination"`
}

// RecordInput is one user-edited row. Numeric cells arrive untyped
// because edits are trusted no more than uploaded input: a cell may be a
// JSON number, a numeric string, or garbage, and is re-coerced with the
// same silent-repair rules as ingestion.
type RecordInput struct {
	Month          string `json:"month"`
	Brand          string `json:"brand"`
	Destination    string `json:"destination"`
	SpentGBP       any    `json:"spent_gbp"`
	Leads          any    `json:"leads"`
	Messages       any    `json:"messages"`
	Impressions    any    `json:"impressions"`
	ConvertedLeads any    `json:"converted_leads"`
}

// ReplaceRowsRequest replaces the session's working row set. The row
// count may differ arbitrarily from the pre-edit subset; the schema is
// the sole validation.
type ReplaceRowsRequest struct {
	Rows []RecordInput `json:"rows" validate:"required"`
}

// AggregatesParams are the query parameters of the aggregates endpoint.
type AggregatesParams struct {
	By    string `json:"by" validate:"required,oneof=brand destination brand_destination"`
	Order string `json:"order" validate:"omitempty,oneof=spend_desc leads_desc spend_asc leads_asc"`
	Top   int    `json:"top" validate:"omitempty,min=1"`
}

// ChartParams are the query parameters of the chart endpoint. Top is
// clamped to the 5..30 range the dashboard slider allows.
type ChartParams struct {
	By      string `json:"by" validate:"required,oneof=brand destination"`
	Measure string `json:"measure" validate:"required,oneof=leads spent_gbp"`
	Top     int    `json:"top" validate:"omitempty,min=5,max=30"`
}
