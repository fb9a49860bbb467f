package templates

import (
	"strings"
	"time"
)

// visible shows padding in a fixed-width value.
func visible(s string) string {
	return strings.ReplaceAll(s, " ", "·")
}

func stamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// quarters lists the selectable filing quarters.
func quarters() []int { return []int{1, 2, 3, 4} }

// gridRows returns n blank row indexes for the manual-entry table.
func gridRows(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
