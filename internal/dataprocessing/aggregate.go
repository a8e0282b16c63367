package dataprocessing

import (
	"sort"

	"spendlens/pkg/contracts/domain"
)

// GroupBy selects the categorical key(s) for aggregation.
type GroupBy string

const (
	GroupByBrand            GroupBy = "brand"
	GroupByDestination      GroupBy = "destination"
	GroupByBrandDestination GroupBy = "brand_destination"
)

// Order selects the output ordering of an aggregation.
type Order string

const (
	OrderSpendDesc Order = "spend_desc"
	OrderLeadsDesc Order = "leads_desc"
	OrderSpendAsc  Order = "spend_asc"
	OrderLeadsAsc  Order = "leads_asc"
)

type groupKey struct {
	brand       string
	destination string
}

// Aggregate groups records by the given key(s), sums the numeric
// measures, and re-derives cpl and conversion_rate from the summed
// values. Groups with no matching rows are simply absent (no
// zero-filling), and ordering is left to the caller via Sort.
func Aggregate(records []domain.Record, by GroupBy) []domain.AggregateRow {
	acc := make(map[groupKey]*domain.AggregateRow)
	var order []groupKey

	for _, rec := range records {
		key := groupKey{}
		switch by {
		case GroupByBrand:
			key.brand = rec.Brand
		case GroupByDestination:
			key.destination = rec.Destination
		case GroupByBrandDestination:
			key.brand = rec.Brand
			key.destination = rec.Destination
		}

		row, ok := acc[key]
		if !ok {
			row = &domain.AggregateRow{Brand: key.brand, Destination: key.destination}
			acc[key] = row
			order = append(order, key)
		}
		row.SpentGBP += rec.SpentGBP
		row.Leads += rec.Leads
		row.Messages += rec.Messages
		row.Impressions += rec.Impressions
		row.ConvertedLeads += rec.ConvertedLeads
	}

	out := make([]domain.AggregateRow, 0, len(order))
	for _, key := range order {
		row := acc[key]
		row.CPL, row.ConversionRate = DeriveRatios(row.SpentGBP, row.Leads, row.ConvertedLeads)
		out = append(out, *row)
	}
	return out
}

// Sort orders aggregate rows in place by the requested ordering, with
// the group label as a deterministic tie-break.
func Sort(rows []domain.AggregateRow, order Order) {
	less := func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch order {
		case OrderSpendDesc:
			if a.SpentGBP != b.SpentGBP {
				return a.SpentGBP > b.SpentGBP
			}
		case OrderSpendAsc:
			if a.SpentGBP != b.SpentGBP {
				return a.SpentGBP < b.SpentGBP
			}
		case OrderLeadsDesc:
			if a.Leads != b.Leads {
				return a.Leads > b.Leads
			}
		case OrderLeadsAsc:
			if a.Leads != b.Leads {
				return a.Leads < b.Leads
			}
		}
		return a.Label() < b.Label()
	}
	sort.SliceStable(rows, less)
}

// TopN returns the first n rows without copying the backing array, or
// all rows when fewer exist.
func TopN(rows []domain.AggregateRow, n int) []domain.AggregateRow {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}
