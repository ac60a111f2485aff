package exporter

import (
	"github.com/shopspring/decimal"
)

// cellValue converts a table cell to a value excelize writes natively.
// Decimals are written as numbers so totals stay summable in the sheet.
func cellValue(v any) any {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.InexactFloat64()
	default:
		return val
	}
}

func rowValues(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = cellValue(v)
	}
	return out
}
