package domain

// AggregateRow is the summary of a group of Records sharing one or two
// categorical key values. Sums are computed over the numeric measures;
// CPL and ConversionRate are re-derived from the summed values, never
// averaged across rows.
type AggregateRow struct {
	Brand          string  `json:"brand,omitempty"`
	Destination    string  `json:"destination,omitempty"`
	SpentGBP       float64 `json:"spent_gbp"`
	Leads          int64   `json:"leads"`
	Messages       int64   `json:"messages"`
	Impressions    int64   `json:"impressions"`
	ConvertedLeads int64   `json:"converted_leads"`
	CPL            float64 `json:"cpl"`
	ConversionRate float64 `json:"conversion_rate"`
}

// Label returns the display label for the row's group key.
func (a AggregateRow) Label() string {
	switch {
	case a.Brand != "" && a.Destination != "":
		return a.Brand + " / " + a.Destination
	case a.Destination != "":
		return a.Destination
	default:
		return a.Brand
	}
}

// RankedEntry is one line of a top-N ranking.
type RankedEntry struct {
	Rank  int     `json:"rank"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Summary holds the session-level KPI block computed from the working
// (edited) subset.
type Summary struct {
	TotalSpend       float64 `json:"total_spend"`
	TotalLeads       int64   `json:"total_leads"`
	TotalMessages    int64   `json:"total_messages"`
	TotalImpressions int64   `json:"total_impressions"`
	TotalConverted   int64   `json:"total_converted"`
	CPL              float64 `json:"cpl"`
	ConversionRate   float64 `json:"conversion_rate"`
	Brands           int     `json:"brands"`
	Destinations     int     `json:"destinations"`

	TopBrandsBySpend []RankedEntry `json:"top_brands_by_spend"`
	TopBrandsByLeads []RankedEntry `json:"top_brands_by_leads"`
}

// MessagesDashboard is the placeholder block for the messages view.
// Only the total is real; the ratio metrics have no defined formulas yet
// and stay null.
type MessagesDashboard struct {
	TotalMessages   int64    `json:"total_messages"`
	CPLPlaceholder  *float64 `json:"cpl_placeholder"`
	ConvPlaceholder *float64 `json:"conversion_placeholder"`
}
