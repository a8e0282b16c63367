package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlens/pkg/contracts/domain"
)

func TestSummarize(t *testing.T) {
	records := []domain.Record{
		{Brand: "Acme", Destination: "Dubai", SpentGBP: 100, Leads: 10, Messages: 5, Impressions: 1000, ConvertedLeads: 4},
		{Brand: "Globex", Destination: "Rome", SpentGBP: 300, Leads: 20, Messages: 2, Impressions: 2000, ConvertedLeads: 5},
		{Brand: "Initech", Destination: "Rome", SpentGBP: 50, Leads: 10, ConvertedLeads: 1},
	}

	s := Summarize(records)

	assert.InDelta(t, 450, s.TotalSpend, 1e-9)
	assert.Equal(t, int64(40), s.TotalLeads)
	assert.Equal(t, int64(7), s.TotalMessages)
	assert.Equal(t, int64(3000), s.TotalImpressions)
	assert.Equal(t, int64(10), s.TotalConverted)
	assert.InDelta(t, 11.25, s.CPL, 1e-9)
	assert.InDelta(t, 0.25, s.ConversionRate, 1e-9)
	assert.Equal(t, 3, s.Brands)
	assert.Equal(t, 2, s.Destinations)

	require.Len(t, s.TopBrandsBySpend, 3)
	assert.Equal(t, "Globex", s.TopBrandsBySpend[0].Label)
	assert.Equal(t, 1, s.TopBrandsBySpend[0].Rank)
	assert.InDelta(t, 300, s.TopBrandsBySpend[0].Value, 1e-9)

	require.NotEmpty(t, s.TopBrandsByLeads)
	assert.Equal(t, "Globex", s.TopBrandsByLeads[0].Label)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalSpend)
	assert.Equal(t, 0.0, s.CPL)
	assert.Equal(t, 0.0, s.ConversionRate)
	assert.Empty(t, s.TopBrandsBySpend)
}

func TestMessagesPlaceholder(t *testing.T) {
	block := MessagesPlaceholder(domain.Summary{TotalMessages: 42})
	assert.Equal(t, int64(42), block.TotalMessages)
	assert.Nil(t, block.CPLPlaceholder)
	assert.Nil(t, block.ConvPlaceholder)
}
