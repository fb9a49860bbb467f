package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/csg33k/wages-generator/internal/domain"
)

const templateSheet = "Employees"

// exampleRow is written under the header so operators see the expected
// shape of each column.
var exampleRow = []string{
	"JUAN CARLOS PEREZ LOPEZ",
	"123-45-6789",
	"1234.56",
	"1234567890",
	"001",
}

// WriteTemplate writes the input workbook: a bold header with the required
// columns and one example row. Cells are stored as text so leading zeros
// survive.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, name := range domain.RequiredColumns {
		head, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(templateSheet, head, name); err != nil {
			return err
		}
		if err := f.SetCellStyle(templateSheet, head, head, bold); err != nil {
			return err
		}
		sample, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellStr(templateSheet, sample, exampleRow[i]); err != nil {
			return err
		}

		width := float64(len(name) + 4)
		if n := float64(len(exampleRow[i]) + 4); n > width {
			width = n
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(templateSheet, col, col, width); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}
