package wages

import (
	"fmt"
	"io"
	"strings"

	"github.com/csg33k/wages-generator/internal/adapters/wages/spec"
	"github.com/csg33k/wages-generator/internal/domain"
)

const lineSep = "\r\n"

// WriteFile writes the records joined with CRLF, UTF-8 without BOM. With
// trailingCRLF the last line is terminated as well.
func WriteFile(w io.Writer, records []domain.EncodedRecord, trailingCRLF bool) error {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.Line
	}
	content := strings.Join(lines, lineSep)
	if trailingCRLF {
		content += lineSep
	}
	_, err := io.WriteString(w, content)
	return err
}

// OutputFilename returns the conventional file name for a filing period,
// e.g. year 2025 quarter 3 → "Wages253.txt".
func OutputFilename(year, quarter int) (string, error) {
	if quarter < 1 || quarter > 4 {
		return "", fmt.Errorf("quarter must be selected (1-4), got %d", quarter)
	}
	if year < 0 {
		return "", fmt.Errorf("invalid year %d", year)
	}
	return fmt.Sprintf("Wages%02d%d.txt", year%100, quarter), nil
}

// ParseFile splits a generated file back into records with their field
// audit, so stored runs can be reported on. Row numbers are 1-based line
// numbers.
func ParseFile(content []byte) ([]domain.EncodedRecord, error) {
	text := strings.TrimSuffix(string(content), lineSep)
	if text == "" {
		return nil, nil
	}
	fields := spec.Layout()
	var out []domain.EncodedRecord
	for i, line := range strings.Split(text, lineSep) {
		r := []rune(line)
		if len(r) != spec.RecordLen {
			return nil, &ConsistencyError{Row: i + 1, Got: len(r), Want: spec.RecordLen}
		}
		rec := domain.EncodedRecord{RowNumber: i + 1, Line: line}
		for _, f := range fields {
			rec.Fields = append(rec.Fields, domain.FieldSlot{
				Index:          f.Index,
				Name:           f.Name,
				ExpectedLength: f.Len,
				Value:          string(r[f.Start()-1 : f.End()]),
			})
		}
		out = append(out, rec)
	}
	return out, nil
}
