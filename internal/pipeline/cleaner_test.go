package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsheet/internal/table"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name    string
		input   *table.Table
		profile Profile
		columns []string
		rows    [][]any
	}{
		{
			name: "keeps only ready rows and trims",
			input: table.New("claims", []string{" Claim No ", "Claim Status", "Area "}, [][]any{
				{" C1 ", "R", " Jakarta"},
				{"C2", "P", "Bali"},
				{"C3", " R ", "   "},
			}),
			profile: TemplateClaims,
			columns: []string{"Claim No", "Claim Status", "Area"},
			rows:    [][]any{{"C1", "R", "Jakarta"}, {"C3", "R", nil}},
		},
		{
			name: "missing status column keeps every row",
			input: table.New("claims", []string{"Claim No"}, [][]any{
				{"C1"}, {"C2"},
			}),
			profile: TemplateClaims,
			columns: []string{"Claim No"},
			rows:    [][]any{{"C1"}, {"C2"}},
		},
		{
			name: "internal columns dropped when present",
			input: table.New("claims", []string{"ClaimNo", "ClaimStatus", "BilledInternal", "Billed"}, [][]any{
				{"C1", "R", "1", "100"},
				{"C2", "X", "2", "200"},
			}),
			profile: ReportClaims,
			columns: []string{"ClaimNo", "Billed"},
			rows:    [][]any{{"C1", "100"}},
		},
		{
			name: "benefit status column",
			input: table.New("benefits", []string{"Benefit", "Status_Claim"}, [][]any{
				{"Dental", "R"},
				{"Optical", "D"},
			}),
			profile: ReportBenefits,
			columns: []string{"Benefit"},
			rows:    [][]any{{"Dental"}},
		},
		{
			name: "lowercase status is not ready",
			input: table.New("claims", []string{"Claim Status"}, [][]any{
				{"r"},
			}),
			profile: TemplateClaims,
			columns: []string{"Claim Status"},
			rows:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.input.Clone()
			out := Clean(tt.input, tt.profile)

			assert.Equal(t, tt.columns, out.Columns)
			require.Equal(t, len(tt.rows), out.Len())
			for i := range tt.rows {
				assert.Equal(t, tt.rows[i], out.Rows[i])
			}
			assert.Equal(t, before, tt.input, "input must not be mutated")
		})
	}
}

func TestCleanNeverKeepsNonReadyRows(t *testing.T) {
	statuses := []any{"R", "P", "D", nil, "", "RR", "R "}
	rows := make([][]any, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []any{s})
	}

	out := Clean(table.New("claims", []string{"Claim Status"}, rows), TemplateClaims)
	for _, row := range out.Rows {
		assert.Equal(t, StatusReady, row[0])
	}
	assert.Equal(t, 2, out.Len())
}
