package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsheet/internal/table"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAggregate(t *testing.T) {
	in := table.New("claims", []string{"Billed", "Accepted", "ExcessTotal", "Unpaid"}, [][]any{
		{dec("100.75"), dec("80.5"), dec("20"), dec("0")},
		{dec("200.50"), nil, dec("0.25"), "10"},
		{nil, dec("19.5"), nil, nil},
	})

	s, err := Aggregate(in, ReportSums)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Claims)
	assert.True(t, dec("301.25").Equal(s.Billed))
	assert.True(t, dec("100").Equal(s.Accepted))
	assert.True(t, dec("20.25").Equal(s.ExcessTotal))
	assert.True(t, dec("10").Equal(s.Unpaid))

	w := s.Whole()
	assert.Equal(t, "301", w.Billed.String())
	assert.Equal(t, "20", w.ExcessTotal.String())
}

func TestAggregateEqualsColumnSums(t *testing.T) {
	in := claimTable(
		claimRow(map[string]any{"Claim No": "C1", "Billed": "10.10", "Unpaid": "1"}),
		claimRow(map[string]any{"Claim No": "C2", "Billed": "20.20", "Unpaid": "2"}),
		claimRow(map[string]any{"Claim No": "C3", "Billed": "30.30", "Unpaid": "3"}),
	)
	out, _, err := Transform(in)
	require.NoError(t, err)

	s, err := Aggregate(out, TemplateSums)
	require.NoError(t, err)

	want := decimal.Zero
	for i := range out.Rows {
		want = want.Add(cell(out, i, "Sum of Billed").(decimal.Decimal))
	}
	assert.True(t, want.Equal(s.Billed))
	assert.True(t, dec("60.6").Equal(s.Billed))
	assert.True(t, dec("6").Equal(s.Unpaid))
}

func TestAggregateTruncatesTowardZero(t *testing.T) {
	s := Summary{Billed: dec("-10.9"), Accepted: dec("10.9")}.Whole()
	assert.Equal(t, "-10", s.Billed.String())
	assert.Equal(t, "10", s.Accepted.String())
}

func TestAggregateMissingColumn(t *testing.T) {
	_, err := Aggregate(table.New("claims", []string{"Billed"}, nil), ReportSums)
	assert.Error(t, err)
}

func TestSummaryTable(t *testing.T) {
	s := Summary{Claims: 2, Billed: dec("10.6"), Accepted: dec("5"), ExcessTotal: dec("0"), Unpaid: dec("1.2")}
	tbl := s.Table()

	assert.Equal(t, []string{"Metric", "Value"}, tbl.Columns)
	require.Equal(t, len(SummaryLabels), tbl.Len())
	assert.Equal(t, []any{"Total Claims", 2}, tbl.Rows[0])
	assert.Equal(t, "Total Billed", tbl.Rows[1][0])
	assert.True(t, dec("10").Equal(tbl.Rows[1][1].(decimal.Decimal)))
}
