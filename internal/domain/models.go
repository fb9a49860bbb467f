package domain

import (
	"strings"
	"time"
)

// Column names used for operator-facing diagnostics. They match the header
// row of the employee workbook.
const (
	ColumnFullName = "FULL_NAME"
	ColumnSSN      = "SSN"
	ColumnSalary   = "SALARY"
	ColumnAccount  = "Numero de cuenta patronal"
	ColumnQuarter  = "Trimestre (3 characters)"
	ColumnBatch    = "Batch Number (6)"
)

// RequiredColumns lists the workbook headers in template order.
var RequiredColumns = []string{
	ColumnFullName,
	ColumnSSN,
	ColumnSalary,
	ColumnAccount,
	ColumnQuarter,
}

// InputRow is one employee as supplied by a row source. All values are free
// text; the encoder validates and normalizes them.
type InputRow struct {
	// RowNumber is the 1-based position in the source (spreadsheet row or
	// grid row + header offset). Used only in error messages.
	RowNumber     int
	FullName      string
	SSN           string
	Salary        string
	AccountNumber string
	QuarterCode   string
}

// IsBlank reports whether every field of the row is empty or whitespace.
// Blank rows are dropped by row sources before encoding.
func (r InputRow) IsBlank() bool {
	for _, v := range []string{r.FullName, r.SSN, r.Salary, r.AccountNumber, r.QuarterCode} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParsedName is the split form of a full name.
type ParsedName struct {
	First         string
	MiddleInitial string // one character, or " " when absent
	PaternalLast  string
	MaternalLast  string // may be empty
}

// FieldSlot is one rendered positional field of a record.
type FieldSlot struct {
	Index          int
	Name           string
	ExpectedLength int
	Value          string
}

// ActualLength is the rendered width in characters.
func (f FieldSlot) ActualLength() int { return len([]rune(f.Value)) }

// EncodedRecord is the final 150-character line plus its per-field audit
// trail, in output order.
type EncodedRecord struct {
	RowNumber int
	Line      string
	Fields    []FieldSlot
}

// Run is one generated wages file as kept in the history store.
type Run struct {
	ID           string
	Filename     string
	Batch        string
	Quarter      string
	RowCount     int
	TrailingCRLF bool
	Content      []byte
	Operator     string
	CreatedAt    time.Time
}

// Operator is the authenticated user of the generator.
type Operator struct {
	Username  string
	SessionID string
	ExpiresAt time.Time
}
