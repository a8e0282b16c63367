// Package dataprocessing implements the dataset pipeline core: column
// normalization and type coercion at ingest, cascading filters, derived
// ratio metrics with safe-division semantics, and group-by-sum
// aggregation.
//
// The only hard error is MissingColumnsError, raised when a required
// canonical column cannot be resolved through the alias table. Every
// other malformed cell is silently repaired to a safe default, by
// design: the dashboard favors best-effort display over strict
// validation.
package dataprocessing
