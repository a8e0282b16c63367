package dataprocessing

import (
	"sort"

	"spendlens/pkg/contracts/domain"
)

// The filter stage applies cascading categorical predicates in a fixed
// order: month (required) -> brand -> destination. Candidate lists are
// always derived from the currently narrowed subset, so a selection not
// present under the prior choices is never offered.

// MonthOptions returns the month candidates for a dataset. When every
// distinct month is one of the twelve canonical names, candidates follow
// the canonical January..December ordering; otherwise they fall back to
// lexical ordering of the distinct values present.
func MonthOptions(records []domain.Record) []string {
	present := make(map[string]bool)
	for _, rec := range records {
		if rec.Month != "" {
			present[rec.Month] = true
		}
	}

	var months []string
	for _, m := range MonthOrder {
		if present[m] {
			months = append(months, m)
			delete(present, m)
		}
	}
	if len(present) == 0 {
		return months
	}

	// Non-canonical month values present: lexical order of everything.
	all := months
	for m := range present {
		all = append(all, m)
	}
	sort.Strings(all)
	return all
}

// Options derives the candidate list for each filter level from the
// progressively narrowed subset: brand options reflect the selected
// month, destination options the selected month+brand. The "All"
// sentinel heads the brand and destination lists.
func Options(records []domain.Record, state domain.FilterState) domain.FilterOptions {
	opts := domain.FilterOptions{Months: MonthOptions(records)}

	byMonth := filterEq(records, func(r domain.Record) string { return r.Month }, state.Month)
	opts.Brands = withAllSentinel(distinctSorted(byMonth, func(r domain.Record) string { return r.Brand }))

	narrowed := byMonth
	if state.Brand != "" && state.Brand != domain.AllSentinel {
		narrowed = filterEq(narrowed, func(r domain.Record) string { return r.Brand }, state.Brand)
	}
	opts.Destinations = withAllSentinel(distinctSorted(narrowed, func(r domain.Record) string { return r.Destination }))

	return opts
}

// Apply narrows the record set to the filter selection. Brand and
// destination equal to the "All" sentinel (or empty) apply no predicate
// at that level.
func Apply(records []domain.Record, state domain.FilterState) []domain.Record {
	out := filterEq(records, func(r domain.Record) string { return r.Month }, state.Month)
	if state.Brand != "" && state.Brand != domain.AllSentinel {
		out = filterEq(out, func(r domain.Record) string { return r.Brand }, state.Brand)
	}
	if state.Destination != "" && state.Destination != domain.AllSentinel {
		out = filterEq(out, func(r domain.Record) string { return r.Destination }, state.Destination)
	}
	return out
}

func filterEq(records []domain.Record, key func(domain.Record) string, want string) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if key(rec) == want {
			out = append(out, rec)
		}
	}
	return out
}

func distinctSorted(records []domain.Record, key func(domain.Record) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, rec := range records {
		v := key(rec)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func withAllSentinel(values []string) []string {
	return append([]string{domain.AllSentinel}, values...)
}
