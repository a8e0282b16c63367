package dataprocessing

import "spendlens/pkg/contracts/domain"

// SafeDiv returns n/d, or exactly 0.0 when the denominator is zero.
// This is the single division rule for every derived ratio, applied
// identically at row level and aggregate level.
func SafeDiv(n, d float64) float64 {
	if d == 0 {
		return 0.0
	}
	return n / d
}

// DeriveRatios computes cost-per-lead and conversion rate from raw
// measures. Ratios are always recomputed from the numerator and
// denominator at hand, never averaged across rows.
func DeriveRatios(spentGBP float64, leads, convertedLeads int64) (cpl, conversionRate float64) {
	cpl = SafeDiv(spentGBP, float64(leads))
	conversionRate = SafeDiv(float64(convertedLeads), float64(leads))
	return cpl, conversionRate
}

// View attaches the derived ratios to a Record.
func View(rec domain.Record) domain.RecordView {
	cpl, cr := DeriveRatios(rec.SpentGBP, rec.Leads, rec.ConvertedLeads)
	return domain.RecordView{Record: rec, CPL: cpl, ConversionRate: cr}
}

// Views attaches derived ratios to every record in order.
func Views(records []domain.Record) []domain.RecordView {
	out := make([]domain.RecordView, len(records))
	for i, rec := range records {
		out[i] = View(rec)
	}
	return out
}
