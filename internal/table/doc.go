// Package table holds the in-memory record set every pipeline stage consumes and
// produces.
//
// A Table is a list of named columns and rows of loosely typed cells. Cells are one
// of:
//
//	nil              missing value
//	string           text as uploaded (possibly trimmed by the cleaner)
//	decimal.Decimal  monetary amount after coercion
//	int              derived integers (row number, year, month)
//	time.Time        coerced dates before rendering
//
// Stages never mutate the Table they receive; each returns a new one.
package table
