package api

import "encoding/json"

// PreviewResponse is returned by the preview endpoints.
type PreviewResponse struct {
	Pipeline    string       `json:"pipeline"`
	Columns     []string     `json:"columns"`
	Rows        [][]any      `json:"rows"`
	TotalRows   int          `json:"total_rows"`
	Summary     Summary      `json:"summary"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Counts      Counts       `json:"counts"`
}

// Summary carries the run totals. Exact values keep every decimal place;
// the whole-unit values are what the workbook shows.
type Summary struct {
	Claims      int         `json:"claims"`
	Billed      json.Number `json:"billed"`
	Accepted    json.Number `json:"accepted"`
	ExcessTotal json.Number `json:"excess_total"`
	Unpaid      json.Number `json:"unpaid"`
	Whole       WholeTotals `json:"whole"`
}

// WholeTotals are the monetary totals truncated toward zero.
type WholeTotals struct {
	Billed      json.Number `json:"billed"`
	Accepted    json.Number `json:"accepted"`
	ExcessTotal json.Number `json:"excess_total"`
	Unpaid      json.Number `json:"unpaid"`
}

// Diagnostic is a non-fatal data-quality warning. Count is the number of
// affected cells; Values may be shortened when sent in WarningsHeader.
type Diagnostic struct {
	Kind    string   `json:"kind"`
	Table   string   `json:"table,omitempty"`
	Column  string   `json:"column"`
	Values  []string `json:"values,omitempty"`
	Count   int      `json:"count"`
	Message string   `json:"message"`
}

// Counts tracks rows through a run.
type Counts struct {
	Loaded     int `json:"loaded"`
	Retained   int `json:"retained"`
	Duplicates int `json:"duplicates_dropped"`
	Output     int `json:"output"`
}
