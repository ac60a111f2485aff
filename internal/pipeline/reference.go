package pipeline

import (
	"strings"

	"claimsheet/internal/table"
)

// Claim-ratio reference columns.
const ColPolicyNo = "PolicyNo"

// ClaimRatioColumns is the allow-list projected from the claim-ratio table.
var ClaimRatioColumns = []string{"PolicyNo", "ClientName", "PolicyStart", "PolicyEnd", "Premium", "ClaimPaid", "ClaimRatio"}

// KeySet collects the distinct non-blank values of col.
func KeySet(t *table.Table, col string) (map[string]struct{}, error) {
	values, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if !table.IsBlank(v) {
			set[strings.TrimSpace(table.Text(v))] = struct{}{}
		}
	}
	return set, nil
}

// FilterReference keeps rows of ref whose key is in keys, projected onto allow.
// Allow-listed columns absent from ref are skipped silently; the key column is
// required.
func FilterReference(ref *table.Table, key string, keys map[string]struct{}, allow []string) (*table.Table, error) {
	idx := ref.Index(key)
	if idx < 0 {
		return nil, &table.MissingColumnError{Table: ref.Name, Columns: []string{key}}
	}
	filtered := ref.Filter(func(row []any) bool {
		_, ok := keys[strings.TrimSpace(table.Text(row[idx]))]
		return ok
	})
	return filtered.Project(allow...), nil
}
