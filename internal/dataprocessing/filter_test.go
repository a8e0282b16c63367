package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"spendlens/pkg/contracts/domain"
)

func sampleRecords() []domain.Record {
	return []domain.Record{
		{Month: "March", Brand: "Acme", Destination: "Dubai"},
		{Month: "March", Brand: "Acme", Destination: "Rome"},
		{Month: "March", Brand: "Globex", Destination: "Rome"},
		{Month: "January", Brand: "Initech", Destination: "Oslo"},
	}
}

func TestMonthOptionsCanonicalOrder(t *testing.T) {
	months := MonthOptions(sampleRecords())
	assert.Equal(t, []string{"January", "March"}, months)
}

func TestMonthOptionsLexicalFallback(t *testing.T) {
	// A non-canonical month value forces lexical ordering of the
	// distinct values present.
	records := []domain.Record{
		{Month: "Q1"},
		{Month: "March"},
		{Month: "August"},
	}
	assert.Equal(t, []string{"August", "March", "Q1"}, MonthOptions(records))
}

func TestOptionsProgressiveNarrowing(t *testing.T) {
	records := sampleRecords()

	opts := Options(records, domain.NewFilterState("March"))
	// Brand candidates reflect only the selected month.
	assert.Equal(t, []string{"All", "Acme", "Globex"}, opts.Brands)
	// With no brand chosen, destinations reflect the whole month.
	assert.Equal(t, []string{"All", "Dubai", "Rome"}, opts.Destinations)

	opts = Options(records, domain.FilterState{Month: "March", Brand: "Globex", Destination: domain.AllSentinel})
	// Dubai is not offered under March+Globex.
	assert.Equal(t, []string{"All", "Rome"}, opts.Destinations)

	opts = Options(records, domain.NewFilterState("January"))
	assert.Equal(t, []string{"All", "Initech"}, opts.Brands)
	assert.NotContains(t, opts.Brands, "Acme")
}

func TestApply(t *testing.T) {
	records := sampleRecords()

	subset := Apply(records, domain.NewFilterState("March"))
	assert.Len(t, subset, 3)

	subset = Apply(records, domain.FilterState{Month: "March", Brand: "Acme", Destination: domain.AllSentinel})
	assert.Len(t, subset, 2)

	subset = Apply(records, domain.FilterState{Month: "March", Brand: "Acme", Destination: "Rome"})
	assert.Len(t, subset, 1)
	assert.Equal(t, "Rome", subset[0].Destination)
}

func TestApplyEmptySelectionsActAsAll(t *testing.T) {
	subset := Apply(sampleRecords(), domain.FilterState{Month: "March"})
	assert.Len(t, subset, 3)
}
