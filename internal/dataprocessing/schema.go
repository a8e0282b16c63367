package dataprocessing

import (
	"fmt"
	"sort"
	"strings"
)

// Canonical field names. Every spreadsheet column is mapped to one of
// these (or passed through untouched and ignored downstream).
const (
	ColMonth          = "month"
	ColBrand          = "brand"
	ColDestination    = "destination"
	ColSpentGBP       = "spent_gbp"
	ColLeads          = "leads"
	ColMessages       = "messages"
	ColImpressions    = "impressions"
	ColConvertedLeads = "converted_leads"
)

// CanonicalColumns is the full canonical column set in display order.
var CanonicalColumns = []string{
	ColMonth, ColBrand, ColDestination, ColSpentGBP,
	ColLeads, ColMessages, ColImpressions, ColConvertedLeads,
}

// DisplayHeaders are the template/export headers users see, aligned
// index-for-index with CanonicalColumns.
var DisplayHeaders = []string{
	"Month", "Brand", "Destination", "Spent (GBP)",
	"Leads", "Messages", "Impressions", "Converted Leads",
}

// requiredColumns must all resolve after aliasing or ingestion fails.
var requiredColumns = []string{ColMonth, ColBrand, ColDestination, ColSpentGBP, ColLeads}

// aliasTable maps normalized header variants to canonical names.
// Lookups are case- and whitespace-insensitive; the canonical names
// themselves are included so exported files round-trip.
var aliasTable = map[string]string{
	"month":           ColMonth,
	"brand":           ColBrand,
	"company":         ColBrand,
	"destination":     ColDestination,
	"spent (gbp)":     ColSpentGBP,
	"spend (gbp)":     ColSpentGBP,
	"spent":           ColSpentGBP,
	"spend":           ColSpentGBP,
	"spent_gbp":       ColSpentGBP,
	"leads":           ColLeads,
	"messages":        ColMessages,
	"impressions":     ColImpressions,
	"converted leads": ColConvertedLeads,
	"converted":       ColConvertedLeads,
	"converted_leads": ColConvertedLeads,
}

// CanonicalColumn resolves a raw header to its canonical field name.
// The header is trimmed and lowercased before lookup. Unmatched headers
// return ok=false and pass through unchanged.
func CanonicalColumn(header string) (string, bool) {
	name, ok := aliasTable[strings.ToLower(strings.TrimSpace(header))]
	return name, ok
}

// MonthOrder is the canonical twelve-month display ordering.
var MonthOrder = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MissingColumnsError reports the required canonical columns that could
// not be resolved after aliasing. It is the only hard-stop error in the
// pipeline; all other malformed input is silently repaired.
type MissingColumnsError struct {
	Columns []string
}

// Error returns the sorted list of missing canonical names.
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

func newMissingColumnsError(missing map[string]bool) *MissingColumnsError {
	cols := make([]string, 0, len(missing))
	for c := range missing {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return &MissingColumnsError{Columns: cols}
}
