package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"claimsheet/internal/table"
)

// DateLayout renders dates as month/day/year without leading zeros.
const DateLayout = "1/2/2006"

// dateLayouts are tried in order. Slash forms are month-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"01-02-06",
	"2006/01/02",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// maxExcelSerial is 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958465

// ParseDate parses a date cell. Blank text is not a date. Plain numbers are
// read as Excel serial dates, which is how unstyled spreadsheet cells arrive.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1 || serial > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a monetary cell. Thousands separators and a currency
// symbol are ignored, "-" reads as zero and "(x)" as negative.
func ParseAmount(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case float64:
		return decimal.NewFromFloat(val), true
	case string:
		return parseAmountText(val)
	default:
		return decimal.Zero, false
	}
}

func parseAmountText(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "-" {
		return decimal.Zero, true
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// CoerceDates replaces the cells of each column with time.Time. Any cell left
// empty, blank or unparseable, is reported once per column; only unparseable
// text is listed in the diagnostic values. Absent columns are reported as
// missing.
func CoerceDates(t *table.Table, columns ...string) (*table.Table, Diagnostics, error) {
	return coerce(t, columns, true, func(v any) (any, bool) {
		if tm, ok := v.(time.Time); ok {
			return tm, true
		}
		tm, ok := ParseDate(table.Text(v))
		if !ok {
			return nil, false
		}
		return tm, true
	}, invalidDateDiagnostic)
}

// CoerceAmounts replaces the cells of each column with decimal.Decimal. Blank
// cells become nil silently; unparseable cells become nil and are reported.
func CoerceAmounts(t *table.Table, columns ...string) (*table.Table, Diagnostics, error) {
	return coerce(t, columns, false, func(v any) (any, bool) {
		d, ok := ParseAmount(v)
		if !ok {
			return nil, false
		}
		return d, true
	}, invalidAmountDiagnostic)
}

func coerce(
	t *table.Table,
	columns []string,
	reportBlank bool,
	convert func(any) (any, bool),
	report func(tableName, column string, values []string, count int) Diagnostic,
) (*table.Table, Diagnostics, error) {
	if err := t.Require(columns...); err != nil {
		return nil, nil, err
	}

	out := t.Clone()
	var diags Diagnostics
	for _, col := range columns {
		idx := out.Index(col)
		var invalid []string
		blanks := 0
		for _, row := range out.Rows {
			if table.IsBlank(row[idx]) {
				row[idx] = nil
				if reportBlank {
					blanks++
				}
				continue
			}
			v, ok := convert(row[idx])
			if !ok {
				invalid = append(invalid, table.Text(row[idx]))
			}
			row[idx] = v
		}
		if n := len(invalid) + blanks; n > 0 {
			diags = append(diags, report(t.Name, col, invalid, n))
		}
	}
	return out, diags, nil
}
