package pipeline

import (
	"slices"
	"strings"
	"time"

	"claimsheet/internal/table"
)

// Source column names of the Pipeline A claim export.
const (
	ColClaimStatus     = "Claim Status"
	ColClaimNo         = "Claim No"
	ColProductType     = "Product Type"
	ColRoomOption      = "Room Option"
	ColTreatmentStart  = "Treatment Start"
	ColTreatmentFinish = "Treatment Finish"
	ColDate            = "Date"
)

// RoomUnknown fills a blank room option for inpatient and maternity claims.
const RoomUnknown = "Unknown"

// roomOptionProducts are the product types whose blank room option is filled.
var roomOptionProducts = []string{"IP", "MA"}

// TemplateDateColumns are coerced to dates before the template is built.
var TemplateDateColumns = []string{ColTreatmentStart, ColTreatmentFinish, ColDate}

// TemplateAmountColumns are the source monetary columns, in output order.
var TemplateAmountColumns = []string{"Billed", "Accepted", "Excess Coy", "Excess Emp", "Excess Total", "Unpaid"}

type templateColumn struct {
	name   string
	source string
	render func(v any) any
}

var templateColumns = []templateColumn{
	{name: "Policy No", source: "Policy No"},
	{name: "Client Name", source: "Client Name"},
	{name: "Claim No", source: ColClaimNo},
	{name: "Member No", source: "Member No"},
	{name: "Emp ID", source: "Emp ID"},
	{name: "Emp Name", source: "Emp Name"},
	{name: "Patient Name", source: "Patient Name"},
	{name: "Membership", source: "Membership"},
	{name: "Product Type", source: ColProductType},
	{name: "Claim Type", source: "Claim Type"},
	{name: "Room Option", source: ColRoomOption, render: normalizeRoom},
	{name: "Area", source: "Area"},
	{name: "Diagnosis", source: "Primary Diagnosis", render: upper},
	{name: "Treatment Place", source: "Treatment Place", render: upper},
	{name: "Treatment Start", source: ColTreatmentStart, render: formatDate},
	{name: "Treatment Finish", source: ColTreatmentFinish, render: formatDate},
	{name: "Date", source: ColDate, render: formatDate},
	{name: "Tahun", source: ColDate, render: year},
	{name: "Bulan", source: ColDate, render: month},
	{name: "Sum of Billed", source: "Billed"},
	{name: "Sum of Accepted", source: "Accepted"},
	{name: "Sum of Excess Coy", source: "Excess Coy"},
	{name: "Sum of Excess Emp", source: "Excess Emp"},
	{name: "Sum of Excess Total", source: "Excess Total"},
	{name: "Sum of Unpaid", source: "Unpaid"},
}

// TemplateColumns returns the canonical output header, "No" first.
func TemplateColumns() []string {
	cols := make([]string, 0, len(templateColumns)+1)
	cols = append(cols, "No")
	for _, c := range templateColumns {
		cols = append(cols, c.name)
	}
	return cols
}

// TemplateSourceColumns returns every column Pipeline A reads from its input,
// the status column first.
func TemplateSourceColumns() []string {
	cols := []string{ColClaimStatus}
	for _, c := range templateColumns {
		if !slices.Contains(cols, c.source) {
			cols = append(cols, c.source)
		}
	}
	return cols
}

// Transform builds the canonical template from a cleaned, deduplicated claim
// table. Dates and amounts are coerced first; failures are reported and the
// cells left empty.
func Transform(t *table.Table) (*table.Table, Diagnostics, error) {
	if err := t.Require(TemplateSourceColumns()[1:]...); err != nil {
		return nil, nil, err
	}

	dated, diags, err := CoerceDates(t, TemplateDateColumns...)
	if err != nil {
		return nil, nil, err
	}
	coerced, amountDiags, err := CoerceAmounts(dated, TemplateAmountColumns...)
	if err != nil {
		return nil, nil, err
	}
	diags = append(diags, amountDiags...)

	out := &table.Table{Name: t.Name, Columns: TemplateColumns(), Rows: make([][]any, 0, len(coerced.Rows))}
	indexes := make([]int, len(templateColumns))
	for i, c := range templateColumns {
		indexes[i] = coerced.Index(c.source)
	}
	product := coerced.Index(ColProductType)
	room := out.Index(ColRoomOption)
	for n, src := range coerced.Rows {
		row := make([]any, 0, len(templateColumns)+1)
		row = append(row, n+1)
		for i, c := range templateColumns {
			v := src[indexes[i]]
			if c.render != nil {
				v = c.render(v)
			}
			row = append(row, v)
		}
		// The fill is applied after normalization so the literal is kept as is.
		if row[room] == nil && slices.Contains(roomOptionProducts, table.Text(src[product])) {
			row[room] = RoomUnknown
		}
		out.Rows = append(out.Rows, row)
	}
	return out, diags, nil
}

func normalizeRoom(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.ToUpper(strings.Join(strings.Fields(s), ""))
	if s == "" {
		return nil
	}
	return s
}

func upper(v any) any {
	if s, ok := v.(string); ok {
		return strings.ToUpper(s)
	}
	return v
}

func formatDate(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(DateLayout)
	}
	return nil
}

func year(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Year()
	}
	return nil
}

func month(v any) any {
	if t, ok := v.(time.Time); ok {
		return int(t.Month())
	}
	return nil
}
