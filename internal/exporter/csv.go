package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"spendlens/internal/dataprocessing"
	"spendlens/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize UTF-8 CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures CSV serialization.
type CSVOptions struct {
	BOMPrefix bool
}

// TemplateCSV returns a header-only CSV listing the display headers, for
// users preparing new input files.
func TemplateCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	// Write error surfaces via Flush below; a bytes.Buffer cannot fail.
	_ = w.Write(dataprocessing.DisplayHeaders)
	w.Flush()
	return buf.Bytes()
}

// RecordsCSV serializes records with the display header row. Amounts
// keep their full precision so re-ingesting the file reproduces the
// exact values.
func RecordsCSV(records []domain.Record, opts CSVOptions) ([]byte, error) {
	var buf bytes.Buffer
	if opts.BOMPrefix {
		buf.Write(utf8BOM)
	}

	w := csv.NewWriter(&buf)
	if err := w.Write(dataprocessing.DisplayHeaders); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Month,
			rec.Brand,
			rec.Destination,
			strconv.FormatFloat(rec.SpentGBP, 'f', -1, 64),
			strconv.FormatInt(rec.Leads, 10),
			strconv.FormatInt(rec.Messages, 10),
			strconv.FormatInt(rec.Impressions, 10),
			strconv.FormatInt(rec.ConvertedLeads, 10),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
