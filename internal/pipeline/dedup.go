package pipeline

import "claimsheet/internal/table"

// Deduplicate keeps the last row for every key value, preserving the relative
// order of the survivors. When any key repeats, a duplicate_keys diagnostic lists
// the repeated values in first-seen order.
func Deduplicate(t *table.Table, key string) (*table.Table, Diagnostics, error) {
	idx := t.Index(key)
	if idx < 0 {
		return nil, nil, &table.MissingColumnError{Table: t.Name, Columns: []string{key}}
	}

	last := make(map[string]int, len(t.Rows))
	counts := make(map[string]int, len(t.Rows))
	var order []string
	for i, row := range t.Rows {
		k := table.Text(row[idx])
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
		last[k] = i
	}

	var duplicated []string
	for _, k := range order {
		if counts[k] > 1 {
			duplicated = append(duplicated, k)
		}
	}
	if len(duplicated) == 0 {
		return t.Clone(), nil, nil
	}

	out := &table.Table{Name: t.Name, Columns: append([]string(nil), t.Columns...)}
	for i, row := range t.Rows {
		if last[table.Text(row[idx])] == i {
			out.Rows = append(out.Rows, append([]any(nil), row...))
		}
	}
	return out, Diagnostics{duplicateDiagnostic(t.Name, key, duplicated)}, nil
}
