package pipeline

import (
	"github.com/shopspring/decimal"

	"claimsheet/internal/table"
)

// Summary holds the claim count and the exact monetary totals of a table.
type Summary struct {
	Claims      int             `json:"claims"`
	Billed      decimal.Decimal `json:"billed"`
	Accepted    decimal.Decimal `json:"accepted"`
	ExcessTotal decimal.Decimal `json:"excess_total"`
	Unpaid      decimal.Decimal `json:"unpaid"`
}

// SumColumns names the columns Aggregate totals.
type SumColumns struct {
	Billed      string
	Accepted    string
	ExcessTotal string
	Unpaid      string
}

var (
	// TemplateSums addresses the canonical template.
	TemplateSums = SumColumns{
		Billed:      "Sum of Billed",
		Accepted:    "Sum of Accepted",
		ExcessTotal: "Sum of Excess Total",
		Unpaid:      "Sum of Unpaid",
	}

	// ReportSums addresses the Pipeline B claim table.
	ReportSums = SumColumns{
		Billed:      "Billed",
		Accepted:    "Accepted",
		ExcessTotal: "ExcessTotal",
		Unpaid:      "Unpaid",
	}
)

// Aggregate counts rows and totals the four monetary columns over the whole
// table. Empty and non-numeric cells contribute nothing.
func Aggregate(t *table.Table, cols SumColumns) (Summary, error) {
	if err := t.Require(cols.Billed, cols.Accepted, cols.ExcessTotal, cols.Unpaid); err != nil {
		return Summary{}, err
	}
	return Summary{
		Claims:      t.Len(),
		Billed:      sum(t, cols.Billed),
		Accepted:    sum(t, cols.Accepted),
		ExcessTotal: sum(t, cols.ExcessTotal),
		Unpaid:      sum(t, cols.Unpaid),
	}, nil
}

func sum(t *table.Table, col string) decimal.Decimal {
	idx := t.Index(col)
	total := decimal.Zero
	for _, row := range t.Rows {
		if table.IsBlank(row[idx]) {
			continue
		}
		if d, ok := ParseAmount(row[idx]); ok {
			total = total.Add(d)
		}
	}
	return total
}

// Whole truncates every total toward zero, the whole-unit view shown to users.
func (s Summary) Whole() Summary {
	return Summary{
		Claims:      s.Claims,
		Billed:      s.Billed.Truncate(0),
		Accepted:    s.Accepted.Truncate(0),
		ExcessTotal: s.ExcessTotal.Truncate(0),
		Unpaid:      s.Unpaid.Truncate(0),
	}
}

// SummaryLabels are the row labels of the summary block, in order.
var SummaryLabels = []string{"Total Claims", "Total Billed", "Total Accepted", "Total Excess", "Total Unpaid"}

// Table renders the whole-unit summary as a two-column label/value block.
func (s Summary) Table() *table.Table {
	w := s.Whole()
	values := []any{w.Claims, w.Billed, w.Accepted, w.ExcessTotal, w.Unpaid}
	rows := make([][]any, len(SummaryLabels))
	for i, label := range SummaryLabels {
		rows[i] = []any{label, values[i]}
	}
	return table.New("summary", []string{"Metric", "Value"}, rows)
}
