package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsheet/internal/table"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{input: "2024-03-05", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ok: true},
		{input: "3/5/2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ok: true},
		{input: "03/05/2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ok: true},
		{input: "2024-03-05 14:30:00", want: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), ok: true},
		{input: "05-Mar-2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ok: true},
		{input: " 2024-03-05 ", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ok: true},
		{input: "45292", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{input: "0", ok: false},
		{input: "-3", ok: false},
		{input: "not-a-date", ok: false},
		{input: "13/45/2024", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{name: "plain", input: "100", want: "100", ok: true},
		{name: "decimal", input: "1500.75", want: "1500.75", ok: true},
		{name: "thousands", input: "1,234,567.50", want: "1234567.5", ok: true},
		{name: "currency", input: "$ 12", want: "12", ok: true},
		{name: "dash is zero", input: "-", want: "0", ok: true},
		{name: "accounting negative", input: "(1,000)", want: "-1000", ok: true},
		{name: "negative", input: "-5", want: "-5", ok: true},
		{name: "int", input: 7, want: "7", ok: true},
		{name: "already decimal", input: decimal.RequireFromString("2.5"), want: "2.5", ok: true},
		{name: "garbage", input: "abc", ok: false},
		{name: "nil", input: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestCoerceDatesReportsInvalidOncePerColumn(t *testing.T) {
	in := table.New("claims", []string{"Date", "Other"}, [][]any{
		{"2024-01-15", "x"},
		{"not-a-date", "y"},
		{nil, "z"},
		{"also bad", "w"},
	})

	out, diags, err := CoerceDates(in, "Date")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), out.Rows[0][0])
	assert.Nil(t, out.Rows[1][0])
	assert.Nil(t, out.Rows[2][0])
	assert.Nil(t, out.Rows[3][0])
	assert.Equal(t, 4, out.Len())

	require.Len(t, diags, 1)
	assert.Equal(t, KindInvalidDates, diags[0].Kind)
	assert.Equal(t, "Date", diags[0].Column)
	assert.Equal(t, []string{"not-a-date", "also bad"}, diags[0].Values)
	assert.Equal(t, 3, diags[0].Count, "blank cells count as failed dates")
	assert.Contains(t, diags[0].Message, "'Date'")

	assert.Equal(t, "not-a-date", in.Rows[1][0], "input must not be mutated")
}

func TestCoerceAmounts(t *testing.T) {
	in := table.New("claims", []string{"Billed"}, [][]any{{"1,000"}, {"oops"}, {nil}})

	out, diags, err := CoerceAmounts(in, "Billed")
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(1000).Equal(out.Rows[0][0].(decimal.Decimal)))
	assert.Nil(t, out.Rows[1][0])
	assert.Nil(t, out.Rows[2][0])
	require.Len(t, diags, 1)
	assert.Equal(t, KindInvalidAmounts, diags[0].Kind)
	assert.Equal(t, []string{"oops"}, diags[0].Values)
	assert.Equal(t, 1, diags[0].Count)
}

func TestCoerceDatesBlankOnly(t *testing.T) {
	in := table.New("claims", []string{"Date"}, [][]any{{"2024-01-15"}, {"  "}, {nil}})

	out, diags, err := CoerceDates(in, "Date")
	require.NoError(t, err)
	assert.Nil(t, out.Rows[1][0])

	require.Len(t, diags, 1)
	assert.Equal(t, KindInvalidDates, diags[0].Kind)
	assert.Empty(t, diags[0].Values)
	assert.Equal(t, 2, diags[0].Count)
}

func TestCoerceMissingColumn(t *testing.T) {
	_, _, err := CoerceDates(table.New("claims", []string{"A"}, nil), "Date")
	assert.Error(t, err)
}
