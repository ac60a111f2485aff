package table

import (
	"fmt"
	"slices"
)

// Table is a named, column-oriented view over row data.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// New creates a table, padding or truncating rows to the column count.
func New(name string, columns []string, rows [][]any) *Table {
	t := &Table{
		Name:    name,
		Columns: slices.Clone(columns),
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, fit(row, len(columns)))
	}
	return t
}

func fit(row []any, width int) []any {
	out := make([]any, width)
	copy(out, row)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of col, or -1 when the table has no such column.
func (t *Table) Index(col string) int {
	return slices.Index(t.Columns, col)
}

// Has reports whether col exists.
func (t *Table) Has(col string) bool {
	return t.Index(col) >= 0
}

// Require returns a *MissingColumnError naming every absent column.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Table: t.Name, Columns: missing}
	}
	return nil
}

// Column returns a copy of the values of col.
func (t *Table) Column(col string) ([]any, error) {
	idx := t.Index(col)
	if idx < 0 {
		return nil, &MissingColumnError{Table: t.Name, Columns: []string{col}}
	}
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Clone returns a deep copy of the row slices. Cell values are shared, they are
// immutable.
func (t *Table) Clone() *Table {
	out := &Table{
		Name:    t.Name,
		Columns: slices.Clone(t.Columns),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = slices.Clone(row)
	}
	return out
}

// Filter returns the rows for which keep returns true, in input order.
func (t *Table) Filter(keep func(row []any) bool) *Table {
	out := &Table{Name: t.Name, Columns: slices.Clone(t.Columns)}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, slices.Clone(row))
		}
	}
	return out
}

// Drop removes the named columns. Columns that do not exist are ignored.
func (t *Table) Drop(cols ...string) *Table {
	keep := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !slices.Contains(cols, c) {
			keep = append(keep, c)
		}
	}
	return t.Project(keep...)
}

// Project keeps only the named columns, in the order given. Columns that do not
// exist are skipped.
func (t *Table) Project(cols ...string) *Table {
	var (
		names   []string
		indexes []int
	)
	for _, c := range cols {
		if idx := t.Index(c); idx >= 0 {
			names = append(names, c)
			indexes = append(indexes, idx)
		}
	}
	out := &Table{Name: t.Name, Columns: names, Rows: make([][]any, len(t.Rows))}
	for i, row := range t.Rows {
		projected := make([]any, len(indexes))
		for j, idx := range indexes {
			projected[j] = row[idx]
		}
		out.Rows[i] = projected
	}
	return out
}

// Head returns at most n leading rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return New(t.Name, t.Columns, t.Rows[:n])
}

// Records converts rows to column-keyed maps for JSON rendering.
func (t *Table) Records() []map[string]any {
	records := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			rec[c] = row[i]
		}
		records = append(records, rec)
	}
	return records
}

func (t *Table) String() string {
	return fmt.Sprintf("%s[%d cols x %d rows]", t.Name, len(t.Columns), len(t.Rows))
}
