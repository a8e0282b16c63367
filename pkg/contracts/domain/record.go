package domain

// Record is one row of marketing spend/leads data after column
// normalization and type coercion. String fields are trimmed and never
// null (empty is legal); numeric fields are non-negative, with
// unparseable input coerced to zero at ingest.
type Record struct {
	Month          string  `json:"month"`
	Brand          string  `json:"brand"`
	Destination    string  `json:"destination"`
	SpentGBP       float64 `json:"spent_gbp"`
	Leads          int64   `json:"leads"`
	Messages       int64   `json:"messages"`
	Impressions    int64   `json:"impressions"`
	ConvertedLeads int64   `json:"converted_leads"`
}

// RecordView is a Record plus its derived ratios. Derived fields are
// recomputed on every read and never stored as source truth.
type RecordView struct {
	Record
	CPL            float64 `json:"cpl"`
	ConversionRate float64 `json:"conversion_rate"`
}

// FilterState is the cascading filter selection for a session:
// month (required) then brand then destination. AllSentinel on brand or
// destination means "no filter at that level".
type FilterState struct {
	Month       string `json:"month"`
	Brand       string `json:"brand"`
	Destination string `json:"destination"`
}

// AllSentinel is the brand/destination selection meaning "do not filter".
const AllSentinel = "All"

// NewFilterState returns a filter for the given month with brand and
// destination left wide open.
func NewFilterState(month string) FilterState {
	return FilterState{Month: month, Brand: AllSentinel, Destination: AllSentinel}
}

// FilterOptions lists the candidate values for each filter level,
// derived from the progressively narrowed subset.
type FilterOptions struct {
	Months       []string `json:"months"`
	Brands       []string `json:"brands"`
	Destinations []string `json:"destinations"`
}
