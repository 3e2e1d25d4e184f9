package etl

import (
	"fmt"
	"strings"
)

// IntegrityError means a null primary or composite key was detected before a
// write. It carries the offending rows for diagnosis and aborts the run.
type IntegrityError struct {
	Table  string
	Column string
	Rows   []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("null %s in %s rows: %s", e.Column, e.Table, strings.Join(e.Rows, ", "))
}
