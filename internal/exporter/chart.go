package exporter

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"spendlens/pkg/contracts/domain"
)

// Chart dimensions match the dashboard's card layout aspect ratio.
const (
	chartWidth  = 1024
	chartHeight = 560
	barWidth    = 60
)

// ChartMeasure selects which summed measure a chart ranks by.
type ChartMeasure string

const (
	MeasureLeads ChartMeasure = "leads"
	MeasureSpend ChartMeasure = "spent_gbp"
)

// MeasureValue extracts the measure from an aggregate row.
func (m ChartMeasure) MeasureValue(row domain.AggregateRow) float64 {
	if m == MeasureSpend {
		return row.SpentGBP
	}
	return float64(row.Leads)
}

// Axis title per measure.
func (m ChartMeasure) AxisTitle() string {
	if m == MeasureSpend {
		return "Spend (GBP)"
	}
	return "Leads"
}

// RenderBarChart renders ranked aggregate rows as a bar chart PNG. Rows
// should arrive ranked largest-first so the most important group takes
// the leading position on the axis.
func RenderBarChart(title string, measure ChartMeasure, rows []domain.AggregateRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data to chart")
	}

	bars := make([]chart.Value, 0, len(rows))
	maxValue := 0.0
	for _, row := range rows {
		v := measure.MeasureValue(row)
		if v > maxValue {
			maxValue = v
		}
		bars = append(bars, chart.Value{
			Label: row.Label(),
			Value: v,
		})
	}
	// go-chart refuses a zero-span axis, which a single bar or all-equal
	// values would otherwise produce.
	if maxValue == 0 {
		maxValue = 1
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidth,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Bottom: 20},
		},
		YAxis: chart.YAxis{
			Name:  measure.AxisTitle(),
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}
