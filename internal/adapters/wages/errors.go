package wages

import (
	"errors"
	"fmt"
)

// ErrNoRows means a row source produced nothing to encode.
var ErrNoRows = errors.New("no non-empty employee rows found")

// ValidationError is a defect in the operator's data. It carries enough
// context to be shown as-is.
type ValidationError struct {
	Row     int
	Column  string
	Message string
}

// Error omits the row for file-level fields such as the batch number.
func (e *ValidationError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("Column '%s': %s", e.Column, e.Message)
	}
	return fmt.Sprintf("Row %d, Column '%s': %s", e.Row, e.Column, e.Message)
}

func invalid(row int, column, msg string) error {
	return &ValidationError{Row: row, Column: column, Message: msg}
}

// ConsistencyError means a rendered field or line disagrees with the layout.
// The builders and the codec guarantee widths, so this is an encoder bug,
// never bad input.
type ConsistencyError struct {
	Row   int
	Field int // 0 for the whole line
	Got   int
	Want  int
}

func (e *ConsistencyError) Error() string {
	if e.Field == 0 {
		return fmt.Sprintf("wages: row %d: generated line length is %d, expected %d", e.Row, e.Got, e.Want)
	}
	return fmt.Sprintf("wages: row %d: field %d has length %d; expected %d", e.Row, e.Field, e.Got, e.Want)
}
