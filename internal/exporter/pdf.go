package exporter

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"spendlens/pkg/contracts/domain"
)

// Fixed one-page layout: absolute coordinates in points, drawn top to
// bottom on A4 (595.28 x 841.89 pt).
const (
	pdfMargin     = 36.0
	pdfPageWidth  = 595.28
	pdfLineHeight = 14.0
	pdfChartH     = 240.0
)

// SummaryReport is everything the one-page PDF needs, precomputed by
// the caller from the working row set.
type SummaryReport struct {
	Filters   domain.FilterState
	Summary   domain.Summary
	TopBrands []domain.AggregateRow // top 5 by summed spend, ranked
	ChartPNG  []byte                // top 10 destinations by summed leads
}

// BuildSummaryPDF renders the fixed one-page summary: title, filter
// line, six KPIs, the top-brands list, and one chart image. There is no
// pagination; overflow past the page is out of scope.
func BuildSummaryPDF(report SummaryReport) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("Spend, Leads & Messages - Summary Report", false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(pdfMargin, 40, "Spend, Leads & Messages - Summary Report")

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(pdfMargin, 58, fmt.Sprintf("Filters: Month=%s | Brand=%s | Destination=%s",
		report.Filters.Month, report.Filters.Brand, report.Filters.Destination))

	y := 90.0
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(pdfMargin, y, "Key Metrics")
	pdf.SetFont("Helvetica", "", 10)

	s := report.Summary
	kpis := []string{
		"Total Spend: " + formatMoney(s.TotalSpend),
		"Total Leads: " + formatCount(s.TotalLeads),
		"Total Messages: " + formatCount(s.TotalMessages),
		"Impressions: " + formatCount(s.TotalImpressions),
		"CPL: " + formatMoney(s.CPL),
		"Conversion Rate: " + formatPercent(s.ConversionRate),
	}
	for _, line := range kpis {
		y += pdfLineHeight
		pdf.Text(pdfMargin, y, tr(line))
	}

	y += 22
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(pdfMargin, y, "Top Companies (by Spend)")
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range report.TopBrands {
		y += 12
		pdf.Text(pdfMargin, y, tr(fmt.Sprintf("%s: %s", row.Brand, formatMoney(row.SpentGBP))))
	}

	if len(report.ChartPNG) > 0 {
		y += 24
		if y+pdfChartH > 841.89-pdfMargin {
			y = 841.89 - pdfMargin - pdfChartH
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("summary-chart", opts, bytes.NewReader(report.ChartPNG))
		pdf.ImageOptions("summary-chart", pdfMargin, y, pdfPageWidth-2*pdfMargin, pdfChartH, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
