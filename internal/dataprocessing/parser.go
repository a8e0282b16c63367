package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"spendlens/pkg/contracts/domain"
)

// ParseWorkbook reads an uploaded .xlsx workbook and builds normalized
// Records from its first sheet. The first row is the header row.
func ParseWorkbook(r io.Reader) ([]domain.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	slog.Debug("parsed workbook",
		slog.String("sheet", sheets[0]),
		slog.Int("total_rows", len(rows)))

	return BuildRecords(rows)
}

// ParseCSV reads comma-delimited UTF-8 input (optionally BOM-prefixed)
// and builds normalized Records. Used for CSV uploads and for
// round-tripping the service's own exports.
func ParseCSV(r io.Reader) ([]domain.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv input: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return BuildRecords(rows)
}

// BuildRecords turns raw tabular input (header row first) into Records:
// headers are resolved through the alias table, required columns are
// enforced, optional count columns are synthesized as zero, and every
// cell goes through the coercion rules. Returns *MissingColumnsError
// when a required canonical column cannot be resolved.
func BuildRecords(rows [][]string) ([]domain.Record, error) {
	if len(rows) == 0 {
		return nil, newMissingColumnsError(requiredSet())
	}

	// Map canonical name -> column index. First resolvable header wins;
	// unmatched headers are left alone and ignored downstream.
	columnMap := make(map[string]int)
	for i, header := range rows[0] {
		name, ok := CanonicalColumn(header)
		if !ok {
			continue
		}
		if _, seen := columnMap[name]; !seen {
			columnMap[name] = i
		}
	}

	missing := requiredSet()
	for name := range columnMap {
		delete(missing, name)
	}
	if len(missing) > 0 {
		return nil, newMissingColumnsError(missing)
	}

	cell := func(row []string, name string) any {
		idx, ok := columnMap[name]
		if !ok || idx >= len(row) {
			return nil
		}
		return row[idx]
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		records = append(records, domain.Record{
			Month:          CoerceText(cell(row, ColMonth)),
			Brand:          CoerceText(cell(row, ColBrand)),
			Destination:    CoerceText(cell(row, ColDestination)),
			SpentGBP:       CoerceAmount(cell(row, ColSpentGBP)),
			Leads:          CoerceCount(cell(row, ColLeads)),
			Messages:       CoerceCount(cell(row, ColMessages)),
			Impressions:    CoerceCount(cell(row, ColImpressions)),
			ConvertedLeads: CoerceCount(cell(row, ColConvertedLeads)),
		})
	}
	return records, nil
}

func requiredSet() map[string]bool {
	set := make(map[string]bool, len(requiredColumns))
	for _, c := range requiredColumns {
		set[c] = true
	}
	return set
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
