// Package manual turns operator-typed grid rows into employee input rows.
package manual

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/csg33k/wages-generator/internal/adapters/wages"
	"github.com/csg33k/wages-generator/internal/domain"
)

// headerOffset makes grid row 0 report as row 2, matching the line it would
// occupy in the workbook below the header.
const headerOffset = 2

// Cells is one grid row in template column order.
type Cells [5]string

// Rows converts grid rows to input rows. Blank rows are dropped; a partially
// filled row fails with the first missing column.
func Rows(grid []Cells) ([]domain.InputRow, error) {
	var out []domain.InputRow
	for i, c := range grid {
		in := domain.InputRow{
			RowNumber:     i + headerOffset,
			FullName:      strings.TrimSpace(c[0]),
			SSN:           strings.TrimSpace(c[1]),
			Salary:        strings.TrimSpace(c[2]),
			AccountNumber: strings.TrimSpace(c[3]),
			QuarterCode:   strings.TrimSpace(c[4]),
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

// jsonRow is the wire shape of a grid row posted as JSON.
type jsonRow struct {
	FullName      string `json:"full_name"`
	SSN           string `json:"ssn"`
	Salary        string `json:"salary"`
	AccountNumber string `json:"account_number"`
	QuarterCode   string `json:"quarter"`
}

// DecodeJSON reads a JSON array of grid rows.
func DecodeJSON(r io.Reader) ([]Cells, error) {
	var rows []jsonRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode grid: %w", err)
	}
	grid := make([]Cells, len(rows))
	for i, r := range rows {
		grid[i] = Cells{r.FullName, r.SSN, r.Salary, r.AccountNumber, r.QuarterCode}
	}
	return grid, nil
}

// formKeys are the repeated form fields of the manual-entry table.
var formKeys = [5]string{"full_name", "ssn", "salary", "account_number", "quarter"}

// FromForm reads the manual-entry table from parsed form values. Each column
// is a repeated field; the grid is as long as the longest column.
func FromForm(v url.Values) []Cells {
	n := 0
	for _, k := range formKeys {
		if l := len(v[k]); l > n {
			n = l
		}
	}
	grid := make([]Cells, n)
	for col, k := range formKeys {
		for i, val := range v[k] {
			grid[i][col] = val
		}
	}
	return grid
}
