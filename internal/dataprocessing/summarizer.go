package dataprocessing

import "spendlens/pkg/contracts/domain"

// topRanked is the ranking depth of the KPI block's brand leaderboards.
const topRanked = 3

// Summarize computes the session-level KPI block from the working
// subset: measure totals, overall CPL and conversion rate derived from
// the sums, distinct dimension counts, and the top brand leaderboards.
func Summarize(records []domain.Record) domain.Summary {
	s := domain.Summary{}

	brands := make(map[string]bool)
	destinations := make(map[string]bool)
	for _, rec := range records {
		s.TotalSpend += rec.SpentGBP
		s.TotalLeads += rec.Leads
		s.TotalMessages += rec.Messages
		s.TotalImpressions += rec.Impressions
		s.TotalConverted += rec.ConvertedLeads
		if rec.Brand != "" {
			brands[rec.Brand] = true
		}
		if rec.Destination != "" {
			destinations[rec.Destination] = true
		}
	}
	s.Brands = len(brands)
	s.Destinations = len(destinations)
	s.CPL, s.ConversionRate = DeriveRatios(s.TotalSpend, s.TotalLeads, s.TotalConverted)

	byBrand := Aggregate(records, GroupByBrand)

	Sort(byBrand, OrderSpendDesc)
	for i, row := range TopN(byBrand, topRanked) {
		s.TopBrandsBySpend = append(s.TopBrandsBySpend, domain.RankedEntry{
			Rank: i + 1, Label: row.Brand, Value: row.SpentGBP,
		})
	}

	Sort(byBrand, OrderLeadsDesc)
	for i, row := range TopN(byBrand, topRanked) {
		s.TopBrandsByLeads = append(s.TopBrandsByLeads, domain.RankedEntry{
			Rank: i + 1, Label: row.Brand, Value: float64(row.Leads),
		})
	}

	return s
}

// MessagesPlaceholder builds the reserved messages-dashboard block. The
// total is real; the ratio metrics have no defined formulas and stay
// null until a messages conversion source exists.
func MessagesPlaceholder(s domain.Summary) domain.MessagesDashboard {
	return domain.MessagesDashboard{TotalMessages: s.TotalMessages}
}
