package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlens/pkg/contracts/domain"
)

func TestAggregateSumThenDivide(t *testing.T) {
	// Discriminating case from the safe-division contract: rows (10,1)
	// and (0,0) must aggregate to cpl 10/1 = 10.0, not an average over
	// one undefined per-row term.
	rows := Aggregate([]domain.Record{
		{Brand: "Acme", SpentGBP: 10, Leads: 1},
		{Brand: "Acme", SpentGBP: 0, Leads: 0},
	}, GroupByBrand)

	require.Len(t, rows, 1)
	assert.InDelta(t, 10.0, rows[0].CPL, 1e-9)
}

func TestAggregateByBrand(t *testing.T) {
	records := []domain.Record{
		{Brand: "Acme", Destination: "Dubai", SpentGBP: 100, Leads: 10, Messages: 3, Impressions: 1000, ConvertedLeads: 2},
		{Brand: "Acme", Destination: "Rome", SpentGBP: 50, Leads: 10, Messages: 1, Impressions: 500, ConvertedLeads: 3},
		{Brand: "Globex", Destination: "Rome", SpentGBP: 30, Leads: 5, ConvertedLeads: 1},
	}

	rows := Aggregate(records, GroupByBrand)
	require.Len(t, rows, 2)

	Sort(rows, OrderSpendDesc)
	acme := rows[0]
	assert.Equal(t, "Acme", acme.Brand)
	assert.InDelta(t, 150, acme.SpentGBP, 1e-9)
	assert.Equal(t, int64(20), acme.Leads)
	assert.Equal(t, int64(4), acme.Messages)
	assert.Equal(t, int64(1500), acme.Impressions)
	assert.Equal(t, int64(5), acme.ConvertedLeads)
	assert.InDelta(t, 7.5, acme.CPL, 1e-9)
	assert.InDelta(t, 0.25, acme.ConversionRate, 1e-9)
}

func TestAggregateByBrandDestination(t *testing.T) {
	records := []domain.Record{
		{Brand: "Acme", Destination: "Dubai", SpentGBP: 10, Leads: 1},
		{Brand: "Acme", Destination: "Rome", SpentGBP: 20, Leads: 2},
		{Brand: "Acme", Destination: "Dubai", SpentGBP: 5, Leads: 1},
	}

	rows := Aggregate(records, GroupByBrandDestination)
	require.Len(t, rows, 2)

	Sort(rows, OrderSpendDesc)
	assert.Equal(t, "Acme", rows[0].Brand)
	assert.Equal(t, "Rome", rows[0].Destination)
	assert.Equal(t, "Acme / Rome", rows[0].Label())
	assert.InDelta(t, 15, rows[1].SpentGBP, 1e-9)
}

func TestAggregateOmitsAbsentGroups(t *testing.T) {
	rows := Aggregate(nil, GroupByDestination)
	assert.Empty(t, rows)
}

func TestSortOrders(t *testing.T) {
	rows := []domain.AggregateRow{
		{Brand: "B", SpentGBP: 10, Leads: 30},
		{Brand: "A", SpentGBP: 30, Leads: 10},
		{Brand: "C", SpentGBP: 20, Leads: 20},
	}

	Sort(rows, OrderSpendDesc)
	assert.Equal(t, []string{"A", "C", "B"}, labels(rows))

	Sort(rows, OrderLeadsDesc)
	assert.Equal(t, []string{"B", "C", "A"}, labels(rows))

	// Ascending order puts the largest value last, so a horizontal bar
	// chart renders it at the top.
	Sort(rows, OrderLeadsAsc)
	assert.Equal(t, []string{"A", "C", "B"}, labels(rows))
}

func TestTopN(t *testing.T) {
	rows := []domain.AggregateRow{{Brand: "A"}, {Brand: "B"}, {Brand: "C"}}
	assert.Len(t, TopN(rows, 2), 2)
	assert.Len(t, TopN(rows, 0), 3)
	assert.Len(t, TopN(rows, 10), 3)
}

func labels(rows []domain.AggregateRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Label()
	}
	return out
}
