package table

import (
	"fmt"
	"strings"
)

// MissingColumnError reports required columns absent from an uploaded table.
// It is fatal for a pipeline run.
type MissingColumnError struct {
	Table   string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	name := e.Table
	if name == "" {
		name = "table"
	}
	return fmt.Sprintf("%s is missing required column(s): %s", name, strings.Join(e.Columns, ", "))
}
