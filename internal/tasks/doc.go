// Package tasks runs long operations with real-time progress reporting.
//
// # Bulk Export
//
// [Exporter.BulkExport] saves a list of songs to a directory:
//   - songs are fetched one at a time through a [Fetcher] behind a [rate.Limiter]
//   - a bounded worker pool writes each song as text, CSV, Markdown or JSON, plus its cover image on request
//   - failed songs are recorded and the run continues
//   - an export_manifest.json summarizes the run in input order
//
// # Progress Reporting
//
// Progress is sent on an optional channel as [ProgressUpdate] values.
// Updates use select with default so a slow reader never blocks the export.
package tasks
