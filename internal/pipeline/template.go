package pipeline

import (
	"claimsheet/internal/exporter"
	"claimsheet/internal/table"
)

// TemplateSheet is the only sheet of a Pipeline A workbook.
const TemplateSheet = "SC"

// TemplateResult is the outcome of Pipeline A.
type TemplateResult struct {
	Output      *table.Table
	Summary     Summary
	Diagnostics Diagnostics
	Counts      Counts
}

// RunTemplate cleans, deduplicates and transforms one claim table into the
// canonical template and totals it. claims is not modified.
func RunTemplate(claims *table.Table, opts ...Option) (*TemplateResult, error) {
	cfg := newRunConfig(opts)

	trimmed := TrimHeaders(claims)
	if err := trimmed.Require(TemplateSourceColumns()...); err != nil {
		return nil, err
	}

	cleaned := Clean(trimmed, TemplateClaims)
	cfg.observer.StageDone(StageClean, claims.Name, claims.Len(), cleaned.Len())

	deduped, diags, err := Deduplicate(cleaned, ColClaimNo)
	if err != nil {
		return nil, err
	}
	cfg.observer.StageDone(StageDedup, claims.Name, cleaned.Len(), deduped.Len())

	output, transformDiags, err := Transform(deduped)
	if err != nil {
		return nil, err
	}
	diags = append(diags, transformDiags...)
	cfg.observer.StageDone(StageTransform, claims.Name, deduped.Len(), output.Len())

	summary, err := Aggregate(output, TemplateSums)
	if err != nil {
		return nil, err
	}
	cfg.observer.StageDone(StageAggregate, claims.Name, output.Len(), output.Len())

	return &TemplateResult{
		Output:      output,
		Summary:     summary,
		Diagnostics: diags,
		Counts: Counts{
			Loaded:     claims.Len(),
			Retained:   cleaned.Len(),
			Duplicates: cleaned.Len() - deduped.Len(),
			Output:     output.Len(),
		},
	}, nil
}

// Sheets lays the result out as a workbook.
func (r *TemplateResult) Sheets() []exporter.Sheet {
	return []exporter.Sheet{
		{Name: TemplateSheet, Blocks: []exporter.Block{{Table: r.Output}}},
	}
}
