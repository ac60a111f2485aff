package pipeline

import (
	"claimsheet/internal/exporter"
	"claimsheet/internal/table"
)

// Pipeline B source column names.
const (
	ColReportClaimNo = "ClaimNo"
)

// Sheet layout of a Pipeline B workbook.
const (
	SummarySheet = "Summary"
	ClaimsSheet  = "SC"
	BenefitSheet = "Benefit"

	// ClaimRatioStartRow places the claim-ratio table below the summary block.
	ClaimRatioStartRow = 8
)

// ReportClaimColumns must exist in the Pipeline B claim export.
var ReportClaimColumns = []string{"ClaimStatus", ColReportClaimNo, ColPolicyNo, "Billed", "Accepted", "ExcessTotal", "Unpaid"}

// ReportAmountColumns are coerced to decimals on the SC sheet.
var ReportAmountColumns = []string{"Billed", "Accepted", "ExcessTotal", "Unpaid"}

// ReportInput holds the three Pipeline B uploads.
type ReportInput struct {
	Claims     *table.Table
	ClaimRatio *table.Table
	Benefits   *table.Table
}

// ReportResult is the outcome of Pipeline B.
type ReportResult struct {
	Claims      *table.Table
	Benefits    *table.Table
	ClaimRatio  *table.Table
	Summary     Summary
	Diagnostics Diagnostics
	Counts      Counts
}

// RunReport combines claims, benefits and claim-ratio data. The claim table is
// cleaned, deduplicated on ClaimNo, numbered and totalled; benefits are cleaned;
// the claim-ratio table is restricted to the policies present in the claims.
func RunReport(in ReportInput, opts ...Option) (*ReportResult, error) {
	cfg := newRunConfig(opts)

	claims := TrimHeaders(in.Claims)
	if err := claims.Require(ReportClaimColumns...); err != nil {
		return nil, err
	}
	benefits := TrimHeaders(in.Benefits)
	if err := benefits.Require(ReportBenefits.StatusColumn); err != nil {
		return nil, err
	}
	ratio := TrimHeaders(in.ClaimRatio)
	if err := ratio.Require(ColPolicyNo); err != nil {
		return nil, err
	}

	cleaned := Clean(claims, ReportClaims)
	cfg.observer.StageDone(StageClean, in.Claims.Name, in.Claims.Len(), cleaned.Len())

	deduped, diags, err := Deduplicate(cleaned, ColReportClaimNo)
	if err != nil {
		return nil, err
	}
	cfg.observer.StageDone(StageDedup, in.Claims.Name, cleaned.Len(), deduped.Len())

	coerced, amountDiags, err := CoerceAmounts(deduped, ReportAmountColumns...)
	if err != nil {
		return nil, err
	}
	diags = append(diags, amountDiags...)
	numbered := number(coerced)
	cfg.observer.StageDone(StageCoerce, in.Claims.Name, deduped.Len(), numbered.Len())

	cleanBenefits := Clean(benefits, ReportBenefits)
	cfg.observer.StageDone(StageClean, in.Benefits.Name, in.Benefits.Len(), cleanBenefits.Len())

	policies, err := KeySet(numbered, ColPolicyNo)
	if err != nil {
		return nil, err
	}
	filteredRatio, err := FilterReference(ratio, ColPolicyNo, policies, ClaimRatioColumns)
	if err != nil {
		return nil, err
	}
	cfg.observer.StageDone(StageReference, in.ClaimRatio.Name, in.ClaimRatio.Len(), filteredRatio.Len())

	summary, err := Aggregate(numbered, ReportSums)
	if err != nil {
		return nil, err
	}
	cfg.observer.StageDone(StageAggregate, in.Claims.Name, numbered.Len(), numbered.Len())

	return &ReportResult{
		Claims:      numbered,
		Benefits:    cleanBenefits,
		ClaimRatio:  filteredRatio,
		Summary:     summary,
		Diagnostics: diags,
		Counts: Counts{
			Loaded:     in.Claims.Len(),
			Retained:   cleaned.Len(),
			Duplicates: cleaned.Len() - deduped.Len(),
			Output:     numbered.Len(),
		},
	}, nil
}

// number prepends a 1-based "No" column, replacing any existing one.
func number(t *table.Table) *table.Table {
	t = t.Drop("No")
	out := &table.Table{
		Name:    t.Name,
		Columns: append([]string{"No"}, t.Columns...),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]any{i + 1}, row...)
	}
	return out
}

// Sheets lays the result out as the Summary, SC and Benefit sheets.
func (r *ReportResult) Sheets() []exporter.Sheet {
	return []exporter.Sheet{
		{Name: SummarySheet, Blocks: []exporter.Block{
			{Table: r.Summary.Table()},
			{Table: r.ClaimRatio, StartRow: ClaimRatioStartRow},
		}},
		{Name: ClaimsSheet, Blocks: []exporter.Block{{Table: r.Claims}}},
		{Name: BenefitSheet, Blocks: []exporter.Block{{Table: r.Benefits}}},
	}
}
