package wages

import (
	"strings"

	"github.com/csg33k/wages-generator/internal/domain"
)

// ParseName splits a free-text full name into the four name fields.
//
//	4+ tokens  FIRST M PATERNAL MATERNAL  (tokens past the 4th are dropped)
//	3 tokens   FIRST M PATERNAL
//	2 tokens   FIRST PATERNAL             (middle initial is a single space)
func ParseName(row int, fullName string) (domain.ParsedName, error) {
	tokens := strings.Fields(strings.ToUpper(fullName))
	switch {
	case len(tokens) < 2:
		return domain.ParsedName{}, invalid(row, domain.ColumnFullName, "Full name must contain at least 2 tokens.")
	case len(tokens) >= 4:
		return domain.ParsedName{
			First:         tokens[0],
			MiddleInitial: initial(tokens[1]),
			PaternalLast:  tokens[2],
			MaternalLast:  tokens[3],
		}, nil
	case len(tokens) == 3:
		return domain.ParsedName{
			First:         tokens[0],
			MiddleInitial: initial(tokens[1]),
			PaternalLast:  tokens[2],
		}, nil
	default:
		return domain.ParsedName{
			First:         tokens[0],
			MiddleInitial: " ",
			PaternalLast:  tokens[1],
		}, nil
	}
}

func initial(token string) string {
	for _, r := range token {
		return string(r)
	}
	return " "
}
