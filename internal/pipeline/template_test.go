package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsheet/internal/table"
)

type recordingObserver struct {
	stages []Stage
}

func (o *recordingObserver) StageDone(stage Stage, _ string, _, _ int) {
	o.stages = append(o.stages, stage)
}

func TestRunTemplate(t *testing.T) {
	in := claimTable(
		claimRow(map[string]any{"Claim No": "C1", "Billed": "100", "Accepted": "80"}),
		claimRow(map[string]any{"Claim No": "C9", "Claim Status": "P"}),
		claimRow(map[string]any{"Claim No": "C1", "Billed": "150", "Accepted": "90"}),
		claimRow(map[string]any{"Claim No": "C2", "Date": "not-a-date"}),
	)
	obs := &recordingObserver{}

	res, err := RunTemplate(in, WithObserver(obs))
	require.NoError(t, err)

	require.Equal(t, 2, res.Output.Len())
	assert.Equal(t, "C1", cell(res.Output, 0, "Claim No"))
	assert.Equal(t, "C2", cell(res.Output, 1, "Claim No"))
	assert.Equal(t, "150", table.Text(cell(res.Output, 0, "Sum of Billed")))
	assert.Equal(t, 1, cell(res.Output, 0, "No"))

	assert.Equal(t, Counts{Loaded: 4, Retained: 3, Duplicates: 1, Output: 2}, res.Counts)
	assert.Equal(t, 2, res.Summary.Claims)
	assert.Equal(t, "250", res.Summary.Billed.String())
	assert.Equal(t, "170", res.Summary.Accepted.String())

	dups := res.Diagnostics.Of(KindDuplicateKeys)
	require.Len(t, dups, 1)
	assert.Equal(t, []string{"C1"}, dups[0].Values)
	require.Len(t, res.Diagnostics.Of(KindInvalidDates), 1)

	assert.Equal(t, []Stage{StageClean, StageDedup, StageTransform, StageAggregate}, obs.stages)

	sheets := res.Sheets()
	require.Len(t, sheets, 1)
	assert.Equal(t, TemplateSheet, sheets[0].Name)
}

func TestRunTemplateHeadersWithWhitespace(t *testing.T) {
	in := claimTable(claimRow(nil))
	in.Columns[0] = " Claim Status "

	res, err := RunTemplate(in)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Output.Len())
}

func TestRunTemplateMissingStatusIsFatal(t *testing.T) {
	in := claimTable(claimRow(nil)).Drop("Claim Status")

	_, err := RunTemplate(in)
	var mce *table.MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"Claim Status"}, mce.Columns)
}

func TestRunTemplateEmpty(t *testing.T) {
	res, err := RunTemplate(claimTable())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Output.Len())
	assert.Equal(t, TemplateColumns(), res.Output.Columns)
	assert.True(t, res.Summary.Billed.IsZero())
	assert.Empty(t, res.Diagnostics)
}
