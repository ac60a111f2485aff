package testutil

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/xuri/excelize/v2"

	"claimsheet/internal/pipeline"
)

// CSV encodes header and rows as comma-separated bytes.
func CSV(t testing.TB, header []string, rows ...[]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		t.Fatalf("write csv header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write csv rows: %v", err)
	}
	return buf.Bytes()
}

// XLSX writes rows, header first, into the first sheet of a new workbook.
func XLSX(t testing.TB, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// TemplateClaim returns a finalized Pipeline A claim; overrides replace values
// by source column name.
func TemplateClaim(claimNo string, overrides map[string]string) map[string]string {
	row := map[string]string{
		pipeline.ColClaimStatus:     pipeline.StatusReady,
		pipeline.ColClaimNo:         claimNo,
		pipeline.ColProductType:     "OP",
		pipeline.ColRoomOption:      "vip",
		pipeline.ColTreatmentStart:  "2024-01-05",
		pipeline.ColTreatmentFinish: "2024-01-07",
		pipeline.ColDate:            "2024-01-10",
		"Billed":                    "100",
		"Accepted":                  "80",
		"Excess Coy":                "5",
		"Excess Emp":                "15",
		"Excess Total":              "20",
		"Unpaid":                    "0",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

// TemplateClaimsCSV renders claims with every Pipeline A source column. Columns
// a claim does not set are filled with "x".
func TemplateClaimsCSV(t testing.TB, claims ...map[string]string) []byte {
	t.Helper()

	header := pipeline.TemplateSourceColumns()
	rows := make([][]string, len(claims))
	for i, claim := range claims {
		row := make([]string, len(header))
		for j, col := range header {
			v, ok := claim[col]
			if !ok {
				v = "x"
			}
			row[j] = v
		}
		rows[i] = row
	}
	return CSV(t, header, rows...)
}

// ReportClaimsCSV is a Pipeline B claim export: C1 twice (last wins), C2 for
// policy P2 and a pending C3 that the cleaner drops.
func ReportClaimsCSV(t testing.TB) []byte {
	t.Helper()
	return CSV(t,
		[]string{"ClaimStatus", "ClaimNo", "PolicyNo", "Billed", "Accepted", "ExcessTotal", "Unpaid", "BilledInternal"},
		[]string{"R", "C1", "P1", "10", "8", "2", "0", "9"},
		[]string{"R", "C1", "P1", "100", "80", "20", "0", "90"},
		[]string{"R", "C2", "P2", "50.5", "50", "0.5", "0", "50"},
		[]string{"P", "C3", "P3", "70", "70", "0", "0", "70"},
	)
}

// BenefitsCSV is a Pipeline B benefit export with one pending row.
func BenefitsCSV(t testing.TB) []byte {
	t.Helper()
	return CSV(t,
		[]string{"Status_Claim", "ClaimNo", "Benefit", "Amount"},
		[]string{"R", "C1", "Room", "60"},
		[]string{"R", "C2", "Drugs", "50"},
		[]string{"N", "C3", "Room", "70"},
	)
}

// ClaimRatioXLSX is a claim-ratio workbook covering P1, P2 and P9 with one
// column outside the allow-list.
func ClaimRatioXLSX(t testing.TB) []byte {
	t.Helper()
	return XLSX(t, [][]any{
		{"PolicyNo", "ClientName", "Premium", "ClaimPaid", "ClaimRatio", "Broker"},
		{"P1", "Acme", 1000, 100, 0.1, "B1"},
		{"P2", "Globex", 2000, 50, 0.025, "B2"},
		{"P9", "Initech", 500, 0, 0, "B3"},
	})
}
