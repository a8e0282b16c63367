// Command report generates the dashboard exports offline: it reads a
// spreadsheet, applies a filter selection, and writes the filtered CSV
// and the PDF summary without running the server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"spendlens/internal/dataprocessing"
	"spendlens/internal/exporter"
	"spendlens/pkg/contracts/domain"
)

func main() {
	var (
		inPath  = flag.String("in", "", "input spreadsheet (.xlsx or .csv)")
		month   = flag.String("month", "", "month to report on (default: first available)")
		brand   = flag.String("brand", domain.AllSentinel, "brand filter")
		dest    = flag.String("dest", domain.AllSentinel, "destination filter")
		outDir  = flag.String("out", ".", "output directory")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*inPath, *month, *brand, *dest, *outDir, logger); err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, month, brand, dest, outDir string, logger *slog.Logger) error {
	if inPath == "" {
		return fmt.Errorf("-in is required")
	}

	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var records []domain.Record
	if strings.EqualFold(filepath.Ext(inPath), ".csv") {
		records, err = dataprocessing.ParseCSV(f)
	} else {
		records, err = dataprocessing.ParseWorkbook(f)
	}
	if err != nil {
		return err
	}
	logger.Debug("parsed input", slog.Int("records", len(records)))

	months := dataprocessing.MonthOptions(records)
	if len(months) == 0 {
		return fmt.Errorf("input contains no data rows")
	}
	if month == "" {
		month = months[0]
	} else if !containsString(months, month) {
		return fmt.Errorf("month %q not in input (available: %s)", month, strings.Join(months, ", "))
	}

	filters := domain.FilterState{Month: month, Brand: brand, Destination: dest}
	working := dataprocessing.Apply(records, filters)
	if len(working) == 0 {
		return fmt.Errorf("no rows match month=%q brand=%q destination=%q", month, brand, dest)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	csvData, err := exporter.RecordsCSV(working, exporter.CSVOptions{BOMPrefix: true})
	if err != nil {
		return err
	}
	csvPath := filepath.Join(outDir, exporter.ExportFilename("filtered", filters, "csv"))
	if err := os.WriteFile(csvPath, csvData, 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	pdfData, err := buildPDF(working, filters)
	if err != nil {
		return err
	}
	pdfPath := filepath.Join(outDir, exporter.SummaryFilename(filters))
	if err := os.WriteFile(pdfPath, pdfData, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	fmt.Printf("wrote %s (%d rows)\n", csvPath, len(working))
	fmt.Printf("wrote %s\n", pdfPath)
	return nil
}

func buildPDF(working []domain.Record, filters domain.FilterState) ([]byte, error) {
	byBrand := dataprocessing.Aggregate(working, dataprocessing.GroupByBrand)
	dataprocessing.Sort(byBrand, dataprocessing.OrderSpendDesc)

	byDest := dataprocessing.Aggregate(working, dataprocessing.GroupByDestination)
	dataprocessing.Sort(byDest, dataprocessing.OrderLeadsDesc)

	var chartPNG []byte
	if rows := dataprocessing.TopN(byDest, 10); len(rows) > 0 {
		png, err := exporter.RenderBarChart("Top Destinations by Leads", exporter.MeasureLeads, rows)
		if err != nil {
			return nil, err
		}
		chartPNG = png
	}

	return exporter.BuildSummaryPDF(exporter.SummaryReport{
		Filters:   filters,
		Summary:   dataprocessing.Summarize(working),
		TopBrands: dataprocessing.TopN(byBrand, 5),
		ChartPNG:  chartPNG,
	})
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
