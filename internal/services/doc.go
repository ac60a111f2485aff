// Package services is the boundary between the transports (HTTP and CLI) and
// the pure claim pipelines.
//
// ClaimsService turns uploaded files into tables, runs Pipeline A (Template)
// or Pipeline B (Report) and writes the resulting workbook (Export). It owns
// the telemetry for a run: one span per run with child spans for each decoded
// upload and for the export, span events and counters per pipeline stage, and
// a warning log line per data-quality diagnostic.
//
// Errors are returned unchanged from the loader and pipeline packages so that
// callers can match *table.MissingColumnError and *loader.UnsupportedFormatError.
// Missing uploads are reported as a single *errors.APIError naming every absent
// field.
//
// HealthService answers the liveness, readiness and version probes.
package services
