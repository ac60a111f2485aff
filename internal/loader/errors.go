package loader

import (
	"errors"
	"fmt"
)

// ErrNoHeader is returned when an upload has no header row.
var ErrNoHeader = errors.New("file has no header row")

// UnsupportedFormatError is returned for files whose extension is not csv, xlsx or xls.
type UnsupportedFormatError struct {
	Filename  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported file format for %q: missing extension", e.Filename)
	}
	return fmt.Sprintf("unsupported file format %q for %q: expected .csv, .xlsx or .xls", e.Extension, e.Filename)
}

// ParseError wraps a failure of the underlying csv or spreadsheet reader.
type ParseError struct {
	Table  string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s %s: %v", e.Format, e.Table, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
