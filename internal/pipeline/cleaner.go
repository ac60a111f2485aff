package pipeline

import (
	"strings"

	"claimsheet/internal/table"
)

// StatusReady is the only status value retained by Clean.
const StatusReady = "R"

// Profile describes how one source kind is cleaned.
type Profile struct {
	Name         string
	StatusColumn string
	// Drop lists internal columns removed when present.
	Drop []string
}

var reportInternalColumns = []string{"ClaimStatus", "Status_Claim", "BilledInternal"}

var (
	// TemplateClaims is the claim export consumed by Pipeline A.
	TemplateClaims = Profile{Name: "claim", StatusColumn: "Claim Status"}

	// ReportClaims is the claim export consumed by Pipeline B.
	ReportClaims = Profile{Name: "claim", StatusColumn: "ClaimStatus", Drop: reportInternalColumns}

	// ReportBenefits is the benefit export consumed by Pipeline B.
	ReportBenefits = Profile{Name: "benefit", StatusColumn: "Status_Claim", Drop: reportInternalColumns}
)

// TrimHeaders returns a copy of t with column names trimmed.
func TrimHeaders(t *table.Table) *table.Table {
	out := t.Clone()
	for i, c := range out.Columns {
		out.Columns[i] = strings.TrimSpace(c)
	}
	return out
}

// Clean trims headers and text cells, keeps rows whose status is "R" and removes
// the profile's internal columns. A missing status column disables filtering and
// missing internal columns are ignored.
func Clean(t *table.Table, p Profile) *table.Table {
	out := TrimHeaders(t)
	for _, row := range out.Rows {
		for i, v := range row {
			if s, ok := v.(string); ok {
				s = strings.TrimSpace(s)
				if s == "" {
					row[i] = nil
				} else {
					row[i] = s
				}
			}
		}
	}

	if idx := out.Index(p.StatusColumn); idx >= 0 {
		out = out.Filter(func(row []any) bool {
			return table.Text(row[idx]) == StatusReady
		})
	}

	if len(p.Drop) > 0 {
		out = out.Drop(p.Drop...)
	}
	return out
}
