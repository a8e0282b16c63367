package dataprocessing

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes a minimal xlsx file with the given header and
// rows and returns its path.
func buildWorkbook(t *testing.T, header []string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for r, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	path := filepath.Join(t.TempDir(), "upload.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func parseWorkbookFile(t *testing.T, path string) ([][]string, error) {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	return f.GetRows(f.GetSheetList()[0])
}

func TestParseWorkbook(t *testing.T) {
	path := buildWorkbook(t,
		[]string{"Month", "Brand", "Destination", "Spent (GBP)", "Leads", "Messages", "Impressions", "Converted Leads"},
		[][]any{
			{"March", "Acme", "Dubai", 1500.50, 30, 12, 10000, 6},
			{"March", "Globex", "Rome", 800, 10, 0, 4000, 1},
		})

	rows, err := parseWorkbookFile(t, path)
	require.NoError(t, err)

	records, err := BuildRecords(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "March", records[0].Month)
	assert.Equal(t, "Acme", records[0].Brand)
	assert.Equal(t, "Dubai", records[0].Destination)
	assert.InDelta(t, 1500.50, records[0].SpentGBP, 1e-9)
	assert.Equal(t, int64(30), records[0].Leads)
	assert.Equal(t, int64(6), records[0].ConvertedLeads)
}

func TestBuildRecordsAliasResolution(t *testing.T) {
	// "Spend" (no "Spent") must populate the canonical spent_gbp field.
	records, err := BuildRecords([][]string{
		{"Month", "Brand", "Destination", "Spend", "Leads"},
		{"April", "Acme", "Paris", "250.75", "5"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 250.75, records[0].SpentGBP, 1e-9)
}

func TestBuildRecordsCompanyAlias(t *testing.T) {
	// "Company" is the brand column's alternate name in the wild.
	records, err := BuildRecords([][]string{
		{"Month", "Company", "Destination", "Spend", "Leads"},
		{"April", "Acme", "Paris", "250", "5"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0].Brand)
}

func TestBuildRecordsHeaderWhitespaceAndCase(t *testing.T) {
	records, err := BuildRecords([][]string{
		{"  month ", "BRAND", " Destination", "spent (gbp)", "LEADS "},
		{"May", "Acme", "Lisbon", "100", "2"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].Leads)
}

func TestBuildRecordsMissingColumns(t *testing.T) {
	_, err := BuildRecords([][]string{
		{"Month", "Brand", "Destination", "Spent (GBP)"},
		{"June", "Acme", "Cairo", "10"},
	})

	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"leads"}, missing.Columns)
}

func TestBuildRecordsMissingColumnsSorted(t *testing.T) {
	_, err := BuildRecords([][]string{
		{"Leads", "Spent (GBP)"},
		{"3", "10"},
	})

	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"brand", "destination", "month"}, missing.Columns)
}

func TestBuildRecordsOptionalColumnsSynthesized(t *testing.T) {
	records, err := BuildRecords([][]string{
		{"Month", "Brand", "Destination", "Spent (GBP)", "Leads"},
		{"July", "Acme", "Oslo", "42", "7"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Zero(t, records[0].Messages)
	assert.Zero(t, records[0].Impressions)
	assert.Zero(t, records[0].ConvertedLeads)
}

func TestBuildRecordsSilentRepair(t *testing.T) {
	// Unparseable numeric cells coerce to 0 and never block the pipeline.
	records, err := BuildRecords([][]string{
		{"Month", "Brand", "Destination", "Spent (GBP)", "Leads", "Impressions"},
		{"March", "Acme", "Dubai", "N/A", "N/A", "not a number"},
		{"March", "Acme", "Rome", "1,250.00", " 14 ", "-3"},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Zero(t, records[0].SpentGBP)
	assert.Zero(t, records[0].Leads)
	assert.Zero(t, records[0].Impressions)

	assert.InDelta(t, 1250.0, records[1].SpentGBP, 1e-9)
	assert.Equal(t, int64(14), records[1].Leads)
	// Negatives are clamped, not preserved.
	assert.Zero(t, records[1].Impressions)
}

func TestBuildRecordsUnknownColumnsIgnored(t *testing.T) {
	records, err := BuildRecords([][]string{
		{"Month", "Brand", "Destination", "Spent (GBP)", "Leads", "Notes"},
		{"March", "Acme", "Dubai", "10", "1", "internal comment"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0].Brand)
}

func TestBuildRecordsSkipsEmptyRows(t *testing.T) {
	records, err := BuildRecords([][]string{
		{"Month", "Brand", "Destination", "Spent (GBP)", "Leads"},
		{"March", "Acme", "Dubai", "10", "1"},
		{"", "", "", "", ""},
		{"March", "Globex", "Rome", "20", "2"},
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseCSV(t *testing.T) {
	input := "Month,Brand,Destination,Spent (GBP),Leads\nMarch,Acme,Dubai,99.50,9\n"
	records, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 99.50, records[0].SpentGBP, 1e-9)
	assert.Equal(t, int64(9), records[0].Leads)
}

func TestParseCSVWithBOM(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	buf.WriteString("Month,Brand,Destination,Spent (GBP),Leads\nMarch,Acme,Dubai,10,1\n")

	records, err := ParseCSV(&buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "March", records[0].Month)
}
