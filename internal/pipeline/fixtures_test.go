package pipeline

import "claimsheet/internal/table"

var templateInputColumns = []string{
	"Claim Status", "Policy No", "Client Name", "Claim No", "Member No", "Emp ID", "Emp Name",
	"Patient Name", "Membership", "Product Type", "Claim Type", "Room Option", "Area",
	"Primary Diagnosis", "Treatment Place", "Treatment Start", "Treatment Finish", "Date",
	"Billed", "Accepted", "Excess Coy", "Excess Emp", "Excess Total", "Unpaid",
}

// claimRow builds a Pipeline A input row; overrides are keyed by column name.
func claimRow(overrides map[string]any) []any {
	defaults := map[string]any{
		"Claim Status":      "R",
		"Policy No":         "P1",
		"Client Name":       "Acme",
		"Claim No":          "C1",
		"Member No":         "M1",
		"Emp ID":            "E1",
		"Emp Name":          "Budi",
		"Patient Name":      "Budi",
		"Membership":        "Employee",
		"Product Type":      "OP",
		"Claim Type":        "Cashless",
		"Room Option":       "vip room",
		"Area":              "Jakarta",
		"Primary Diagnosis": "fever",
		"Treatment Place":   "rs medika",
		"Treatment Start":   "2024-01-05",
		"Treatment Finish":  "2024-01-07",
		"Date":              "2024-01-10",
		"Billed":            "100",
		"Accepted":          "80",
		"Excess Coy":        "5",
		"Excess Emp":        "15",
		"Excess Total":      "20",
		"Unpaid":            "0",
	}
	row := make([]any, len(templateInputColumns))
	for i, c := range templateInputColumns {
		v := defaults[c]
		if o, ok := overrides[c]; ok {
			v = o
		}
		row[i] = v
	}
	return row
}

func claimTable(rows ...[]any) *table.Table {
	return table.New("claims", templateInputColumns, rows)
}

func cell(t *table.Table, row int, col string) any {
	return t.Rows[row][t.Index(col)]
}
