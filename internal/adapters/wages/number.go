package wages

import (
	"fmt"
	"math/big"
	"strings"
)

// NumberFormat describes how a locale writes decimal numbers.
type NumberFormat struct {
	Name    string
	Decimal rune
	Group   rune
}

// Invariant is the fixed format tried first for every salary.
var Invariant = NumberFormat{Name: "invariant", Decimal: '.', Group: ','}

var locales = map[string]NumberFormat{
	"en": {Name: "en", Decimal: '.', Group: ','},
	"es": {Name: "es", Decimal: ',', Group: '.'},
	"de": {Name: "de", Decimal: ',', Group: '.'},
	"fr": {Name: "fr", Decimal: ',', Group: ' '},
	"pt": {Name: "pt", Decimal: ',', Group: '.'},
}

// Locale returns the number format registered for a language tag such as
// "es" or "es-PR".
func Locale(tag string) (NumberFormat, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	nf, ok := locales[tag]
	if !ok {
		return NumberFormat{}, fmt.Errorf("unsupported salary locale %q", tag)
	}
	return nf, nil
}

// ParseDecimal parses s as an exact decimal in the given format. It accepts
// an optional sign (leading or trailing), accounting parentheses, a currency
// symbol, grouping in runs of three digits, and an exponent.
func (nf NumberFormat) ParseDecimal(s string) (*big.Rat, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.TrimSpace(strings.Trim(s, "$¤"))
	switch {
	case strings.HasPrefix(s, "-"):
		neg = !neg
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasSuffix(s, "-"):
		neg = !neg
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "+"):
		s = s[:len(s)-1]
	}
	s = strings.TrimSpace(strings.Trim(s, "$¤"))

	mantissa, exp := s, ""
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa, exp = s[:i], s[i+1:]
		if !validExponent(exp) {
			return nil, false
		}
	}

	intPart, fracPart := mantissa, ""
	if i := strings.IndexRune(mantissa, nf.Decimal); i >= 0 {
		intPart, fracPart = mantissa[:i], mantissa[i+len(string(nf.Decimal)):]
	}
	intDigits, ok := nf.ungroup(intPart)
	if !ok || !allDigits(fracPart) || intDigits+fracPart == "" {
		return nil, false
	}

	lit := intDigits
	if lit == "" {
		lit = "0"
	}
	if fracPart != "" {
		lit += "." + fracPart
	}
	if exp != "" {
		lit += "e" + exp
	}
	if neg {
		lit = "-" + lit
	}
	r, ok := new(big.Rat).SetString(lit)
	return r, ok
}

// ungroup strips group separators from an integer part. Groups after the
// first must be exactly three digits.
func (nf NumberFormat) ungroup(s string) (string, bool) {
	if !strings.ContainsRune(s, nf.Group) {
		return s, allDigits(s)
	}
	groups := strings.Split(s, string(nf.Group))
	if len(groups[0]) == 0 || len(groups[0]) > 3 || !allDigits(groups[0]) {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func validExponent(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
	return s != "" && allDigits(s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// roundCents rounds r to two decimal places, half away from zero, and
// returns the value in hundredths.
func roundCents(r *big.Rat) *big.Int {
	scaled := new(big.Rat).Mul(r, big.NewRat(100, 1))
	num := new(big.Int).Abs(scaled.Num())
	den := scaled.Denom()
	q, m := new(big.Int).QuoRem(num, den, new(big.Int))
	if m.Lsh(m, 1).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if scaled.Sign() < 0 {
		q.Neg(q)
	}
	return q
}

// fixed2 renders hundredths the way a two-decimal fixed format would, minus
// the decimal separator: 123456 → "123456", 5 → "005", -1234 → "-1234".
func fixed2(cents *big.Int) string {
	sign := ""
	abs := new(big.Int).Set(cents)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}
	whole, frac := new(big.Int).QuoRem(abs, big.NewInt(100), new(big.Int))
	return fmt.Sprintf("%s%s%02d", sign, whole.String(), frac.Int64())
}
