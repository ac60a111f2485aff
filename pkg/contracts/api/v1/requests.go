// Package api contains the v1 HTTP contract of the claim sheet service.
package api

// Multipart field names accepted by the upload endpoints.
const (
	FieldClaims     = "claims"
	FieldClaimRatio = "claim_ratio"
	FieldBenefits   = "benefits"
	FieldFilename   = "filename"
)

// ExportForm holds the non-file fields of an export request. A blank filename
// falls back to the configured default.
type ExportForm struct {
	Filename string `form:"filename" json:"filename" validate:"omitempty,max=200,filename"`
}

// WarningsHeader carries the JSON-encoded diagnostics of an export, since the
// body is the workbook itself.
const WarningsHeader = "X-Claimsheet-Warnings"
