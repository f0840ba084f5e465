package query

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/bibdex/bibdex/internal/domain/search/filter"
)

// advancedChars are query-string operators that disable combination handling.
const advancedChars = `/~-"()`

// NormalizeText composes the text to NFC, collapses whitespace and strips colons.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, ":", " ")
	return strings.Join(strings.Fields(s), " ")
}

// HasAdvancedSyntax reports whether the text uses query-string operators.
func HasAdvancedSyntax(s string) bool {
	if strings.ContainsAny(s, advancedChars) {
		return true
	}
	for _, tok := range strings.Fields(s) {
		if tok == "AND" || tok == "OR" {
			return true
		}
	}
	return false
}

func hasWildcard(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// ConstructText turns user input into query-string syntax for a combination mode.
func ConstructText(text string, c filter.Combination) string {
	text = NormalizeText(text)
	if text == "" || HasAdvancedSyntax(text) {
		return text
	}
	switch c {
	case filter.CombinationPhrase:
		if hasWildcard(text) {
			return strings.Join(strings.Fields(text), " AND ")
		}
		return `"` + text + `"`
	case filter.CombinationAll:
		return strings.Join(strings.Fields(text), " AND ")
	default:
		return text
	}
}

// TextClause builds the query for one text spec.
func TextClause(t filter.Text) Map {
	if t.Init {
		return MatchPhrase(t.Target, t.Text)
	}
	return QueryString(t.Target, ConstructText(t.Text, t.Combination))
}
