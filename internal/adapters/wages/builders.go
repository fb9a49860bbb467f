package wages

import (
	"errors"
	"strings"
	"unicode"

	"github.com/csg33k/wages-generator/internal/adapters/wages/spec"
	"github.com/csg33k/wages-generator/internal/domain"
)

const (
	ssnDigits    = 9
	salaryDigits = 7
	quarterLen   = 3
	batchLen     = 6
)

// NormalizeSSN strips dashes and whitespace and zero-pads to 9 digits.
func NormalizeSSN(row int, raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if digits == "" || !allDigits(digits) {
		return "", invalid(row, domain.ColumnSSN, "SSN must contain only digits after removing dashes/spaces.")
	}
	if len(digits) > ssnDigits {
		return "", invalid(row, domain.ColumnSSN, "SSN has more than 9 digits.")
	}
	return Format(digits, ssnDigits, spec.Right, '0'), nil
}

// BuildSalary parses the salary with the invariant format, then fallback,
// and renders it as 7 zero-padded digits of cents.
func BuildSalary(row int, raw string, fallback NumberFormat) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", invalid(row, domain.ColumnSalary, "Salary is required.")
	}
	amount, ok := Invariant.ParseDecimal(cleaned)
	if !ok {
		amount, ok = fallback.ParseDecimal(cleaned)
	}
	if !ok {
		return "", invalid(row, domain.ColumnSalary, "Salary is not a valid decimal number.")
	}
	digits := fixed2(roundCents(amount))
	if len(digits) > salaryDigits {
		return "", invalid(row, domain.ColumnSalary, "Salary is too large for 7-character field.")
	}
	return Format(digits, salaryDigits, spec.Right, '0'), nil
}

// BuildAccount strips a spreadsheet ".0" artifact and drops the final
// character, which the source system does not transmit.
func BuildAccount(row int, raw string) (string, error) {
	account := strings.TrimSpace(raw)
	account = strings.TrimSuffix(account, ".0")
	r := []rune(account)
	if len(r) < 2 {
		return "", invalid(row, domain.ColumnAccount, "Account number must have at least 2 characters before dropping the last character.")
	}
	return string(r[:len(r)-1]), nil
}

// BuildQuarter requires exactly three characters after trimming.
func BuildQuarter(row int, raw string) (string, error) {
	q := strings.TrimSpace(raw)
	if len([]rune(q)) != quarterLen {
		return "", invalid(row, domain.ColumnQuarter, "Trimestre must be exactly 3 characters after trimming.")
	}
	return q, nil
}

// NormalizeBatch keeps the last six characters of the batch number, or
// zero-pads shorter ones. The batch belongs to the whole file, so errors
// carry no row.
func NormalizeBatch(raw string) (string, error) {
	b := []rune(strings.TrimSpace(raw))
	if len(b) == 0 {
		return "", invalid(0, domain.ColumnBatch, "Batch number is required.")
	}
	if len(b) >= batchLen {
		return string(b[len(b)-batchLen:]), nil
	}
	return Format(string(b), batchLen, spec.Right, '0'), nil
}

// BuildBatch is NormalizeBatch reported against a row.
func BuildBatch(row int, raw string) (string, error) {
	v, err := NormalizeBatch(raw)
	var ve *ValidationError
	if errors.As(err, &ve) {
		ve.Row = row
	}
	return v, err
}

// CheckRequired fails on the first empty cell of a row, in template column
// order. Row sources call it after dropping blank rows.
func CheckRequired(row domain.InputRow) error {
	cells := []struct{ column, value string }{
		{domain.ColumnFullName, row.FullName},
		{domain.ColumnSSN, row.SSN},
		{domain.ColumnSalary, row.Salary},
		{domain.ColumnAccount, row.AccountNumber},
		{domain.ColumnQuarter, row.QuarterCode},
	}
	for _, c := range cells {
		if strings.TrimSpace(c.value) == "" {
			return invalid(row.RowNumber, c.column, "Field is required.")
		}
	}
	return nil
}
