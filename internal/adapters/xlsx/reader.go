// Package xlsx reads employee rows from an .xlsx workbook and writes the
// blank input template.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/csg33k/wages-generator/internal/adapters/wages"
	"github.com/csg33k/wages-generator/internal/domain"
)

// ErrNoData is returned for a workbook whose first sheet has no used row.
var ErrNoData = errors.New("excel file has no data")

// MissingColumnsError lists every required header absent from the sheet.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "Missing required columns: " + strings.Join(e.Columns, ", ")
}

type Reader struct{}

func NewReader() *Reader { return &Reader{} }

// ReadRows reads the first worksheet. The first non-empty row is the header;
// every later row is an employee unless all five required cells are blank.
// Row numbers are spreadsheet row numbers.
func (rd *Reader) ReadRows(ctx context.Context, r io.Reader) ([]domain.InputRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoData
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !emptyRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrNoData
	}

	cols, err := mapHeaders(rows[headerIdx])
	if err != nil {
		return nil, err
	}

	var out []domain.InputRow
	for i := headerIdx + 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells := rows[i]
		in := domain.InputRow{
			RowNumber:     i + 1,
			FullName:      cell(cells, cols[domain.ColumnFullName]),
			SSN:           cell(cells, cols[domain.ColumnSSN]),
			Salary:        cell(cells, cols[domain.ColumnSalary]),
			AccountNumber: cell(cells, cols[domain.ColumnAccount]),
			QuarterCode:   cell(cells, cols[domain.ColumnQuarter]),
		}
		if in.IsBlank() {
			continue
		}
		if err := wages.CheckRequired(in); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// mapHeaders returns the 0-based column of each required header.
func mapHeaders(header []string) (map[string]int, error) {
	seen := make(map[string]int, len(header))
	for i, h := range header {
		key := normalize(h)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; !dup {
			seen[key] = i
		}
	}
	cols := make(map[string]int, len(domain.RequiredColumns))
	var missing []string
	for _, c := range domain.RequiredColumns {
		i, ok := seen[normalize(c)]
		if !ok {
			missing = append(missing, c)
			continue
		}
		cols[c] = i
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return cols, nil
}

// normalize collapses inner whitespace and upper-cases a header.
func normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
