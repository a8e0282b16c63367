// Package exporter serializes session data for download: CSV (template
// and full data), ranked bar chart PNGs, and the one-page PDF summary
// report. CSV exports round-trip through the ingest parser: re-importing
// an export reproduces identical canonical field values.
package exporter
