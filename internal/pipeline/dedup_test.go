package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsheet/internal/table"
)

func TestDeduplicate(t *testing.T) {
	in := table.New("claims", []string{"Claim No", "Billed"}, [][]any{
		{"C1", "100"},
		{"C2", "50"},
		{"C1", "120"},
		{"C3", "10"},
		{"C2", "55"},
		{"C1", "130"},
	})

	out, diags, err := Deduplicate(in, "Claim No")
	require.NoError(t, err)

	assert.Equal(t, [][]any{{"C3", "10"}, {"C2", "55"}, {"C1", "130"}}, out.Rows)
	require.Len(t, diags, 1)
	assert.Equal(t, KindDuplicateKeys, diags[0].Kind)
	assert.Equal(t, "Claim No", diags[0].Column)
	assert.Equal(t, []string{"C1", "C2"}, diags[0].Values)
	assert.Equal(t, 6, in.Len())
}

func TestDeduplicateNoDuplicates(t *testing.T) {
	in := table.New("claims", []string{"Claim No"}, [][]any{{"C1"}, {"C2"}})

	out, diags, err := Deduplicate(in, "Claim No")
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, in.Rows, out.Rows)
}

func TestDeduplicateMissingKey(t *testing.T) {
	in := table.New("claims", []string{"Other"}, nil)

	_, _, err := Deduplicate(in, "Claim No")
	var mce *table.MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"Claim No"}, mce.Columns)
}

func TestDeduplicateIsDeterministic(t *testing.T) {
	in := table.New("claims", []string{"Claim No", "v"}, [][]any{
		{"A", 1}, {"B", 2}, {"A", 3}, {"C", 4}, {"B", 5},
	})

	first, d1, err := Deduplicate(in, "Claim No")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, d2, err := Deduplicate(in, "Claim No")
		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.Equal(t, d1, d2)
	}
}
