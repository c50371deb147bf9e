// Package normalize provides the text normalization shared by the search resolvers.
package normalize

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the case-folded, NFKC-normalized form of s with control
// characters removed and surrounding whitespace trimmed.
// Both the stored search columns and the query terms go through Fold, so
// "ÉCRAN", "écran" and "Écran" all compare equal.
func Fold(s string) string {
	s = sanitizeString(s)
	s = norm.NFKC.String(s)
	return strings.TrimSpace(cases.Fold().String(s))
}

// PriceText renders a price the way it is matched by a text search:
// the shortest decimal representation, without a trailing ".0".
// 30 -> "30", 29.99 -> "29.99".
func PriceText(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// likeEscaper escapes the SQL LIKE metacharacters, using '\' as the escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a LIKE pattern matching any value that contains term.
// The pattern must be used with ESCAPE '\'.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// sanitizeString removes control characters.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
