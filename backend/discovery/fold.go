package discovery

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldName normalizes a place name for comparison: diacritics are stripped,
// case is folded and inner whitespace collapsed, so "  São  Paulo" and
// "sao paulo" fold to the same key. Casers and transformers are stateful,
// so they are built per call.
func FoldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(stripped)), " ")
}

// MatchesName reports whether the folded query occurs in the folded name.
func MatchesName(name, query string) bool {
	q := FoldName(query)
	if q == "" {
		return false
	}
	return strings.Contains(FoldName(name), q)
}
