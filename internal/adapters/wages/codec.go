package wages

import (
	"strings"

	"github.com/csg33k/wages-generator/internal/adapters/wages/spec"
)

// Format fits value into exactly width characters. Longer values are cut to
// their first width characters without error; shorter ones are padded with
// pad on the right (Left) or on the left (Right).
func Format(value string, width int, align spec.Align, pad rune) string {
	r := []rune(value)
	if len(r) > width {
		return string(r[:width])
	}
	fill := strings.Repeat(string(pad), width-len(r))
	if align == spec.Right {
		return fill + value
	}
	return value + fill
}
