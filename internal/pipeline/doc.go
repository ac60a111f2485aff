// Package pipeline maps raw claim and benefit tables into the export template.
//
// Every stage is a pure function over *table.Table. Stages never log or render;
// data-quality findings travel back to the caller as Diagnostics.
//
// # Stages
//
//	Clean        trim headers and text, keep status "R" rows, drop internal columns
//	Deduplicate  report repeated claim keys, keep the last occurrence
//	Transform    build the canonical claim template (Pipeline A)
//	Aggregate    count claims and total the monetary columns
//	FilterReference  restrict the claim-ratio table to policies in the batch
//
// # Pipelines
//
// RunTemplate (Pipeline A) turns one claim file into the SC sheet.
// RunReport (Pipeline B) combines claims, benefits and claim-ratio data into the
// Summary, SC and Benefit sheets.
//
// A missing required column aborts a run with *table.MissingColumnError. Nothing
// else does.
package pipeline
