package pipeline

import "fmt"

// Kind classifies a diagnostic.
type Kind string

const (
	KindDuplicateKeys  Kind = "duplicate_keys"
	KindInvalidDates   Kind = "invalid_dates"
	KindInvalidAmounts Kind = "invalid_amounts"
)

// Diagnostic is a non-fatal data-quality finding.
type Diagnostic struct {
	Kind    Kind     `json:"kind"`
	Table   string   `json:"table,omitempty"`
	Column  string   `json:"column"`
	Values  []string `json:"values,omitempty"`
	Count   int      `json:"count"`
	Message string   `json:"message"`
}

// Diagnostics is the side channel every stage returns next to its table.
type Diagnostics []Diagnostic

// Of returns the diagnostics of the given kind.
func (d Diagnostics) Of(kind Kind) Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Kind == kind {
			out = append(out, diag)
		}
	}
	return out
}

// Messages flattens the diagnostics into user-facing lines.
func (d Diagnostics) Messages() []string {
	out := make([]string, 0, len(d))
	for _, diag := range d {
		out = append(out, diag.Message)
	}
	return out
}

func duplicateDiagnostic(tableName, key string, values []string) Diagnostic {
	return Diagnostic{
		Kind:    KindDuplicateKeys,
		Table:   tableName,
		Column:  key,
		Values:  values,
		Count:   len(values),
		Message: fmt.Sprintf("Duplicated %s values: %d kept as last occurrence", key, len(values)),
	}
}

func invalidDateDiagnostic(tableName, column string, values []string, count int) Diagnostic {
	return Diagnostic{
		Kind:    KindInvalidDates,
		Table:   tableName,
		Column:  column,
		Values:  values,
		Count:   count,
		Message: fmt.Sprintf("Invalid date values detected in column '%s'. Coerced to empty.", column),
	}
}

func invalidAmountDiagnostic(tableName, column string, values []string, count int) Diagnostic {
	return Diagnostic{
		Kind:    KindInvalidAmounts,
		Table:   tableName,
		Column:  column,
		Values:  values,
		Count:   count,
		Message: fmt.Sprintf("Invalid amount values detected in column '%s'. Coerced to empty.", column),
	}
}
