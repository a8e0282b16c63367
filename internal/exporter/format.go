package exporter

import (
	"fmt"
	"strings"

	"spendlens/pkg/contracts/domain"
)

// formatMoney renders a GBP amount with thousands separators and exactly
// 2 decimal places, e.g. "£1,234.50".
func formatMoney(f float64) string {
	return "£" + groupThousands(fmt.Sprintf("%.2f", f))
}

// formatCount renders an integer count with thousands separators.
func formatCount(i int64) string {
	return groupThousands(fmt.Sprintf("%d", i))
}

// formatPercent renders a 0..1 ratio as a percentage with 2 decimal
// places, e.g. "12.50%".
func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// groupThousands inserts comma separators into the integer part of a
// plain decimal string. The input never carries a sign: all exported
// amounts are non-negative by contract.
func groupThousands(s string) string {
	intPart := s
	frac := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}
	if len(intPart) <= 3 {
		return intPart + frac
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}

// ExportFilename builds a download filename embedding the filter
// selection, with spaces replaced by underscores.
func ExportFilename(prefix string, filters domain.FilterState, ext string) string {
	name := fmt.Sprintf("%s_%s_%s_%s.%s", prefix, filters.Month, filters.Brand, filters.Destination, ext)
	return strings.ReplaceAll(name, " ", "_")
}

// SummaryFilename builds the PDF report filename, which embeds only the
// month.
func SummaryFilename(filters domain.FilterState) string {
	return strings.ReplaceAll(fmt.Sprintf("summary_report_%s.pdf", filters.Month), " ", "_")
}
