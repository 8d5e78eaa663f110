// Package textutil holds the text folding rules shared by the dictionary loader and the
// query normalizer, so that vocabulary keys and query tokens are compared in one form.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold applies NFKC, Unicode case folding and punctuation rules to s.
//
// Letters, digits, whitespace, '-', '/' and currency symbols survive. Commas and
// periods survive only between two digits ("10,000", "2.5"). Every other rune turns
// into a space, so the result may contain runs of spaces; callers split on whitespace.
func Fold(s string) string {
	// Casers keep state between calls, so each call builds its own chain
	chain := transform.Chain(norm.NFKC, cases.Fold(), runes.Map(mapDash))
	folded, _, err := transform.String(chain, s)
	if err != nil {
		folded = strings.ToLower(norm.NFKC.String(s))
	}

	rs := []rune(folded)
	var b strings.Builder
	b.Grow(len(folded))
	for i, r := range rs {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.Is(unicode.Mn, r):
			b.WriteRune(r)
		case r == '-', r == '/':
			b.WriteRune(r)
		case IsCurrencySymbol(r):
			b.WriteRune(r)
		case (r == ',' || r == '.') && i > 0 && i < len(rs)-1 && unicode.IsDigit(rs[i-1]) && unicode.IsDigit(rs[i+1]):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// Key folds s into the form used for dictionary lookups: hyphens become spaces and
// whitespace collapses to single spaces.
func Key(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(Fold(s), "-", " ")), " ")
}

// Merge removes hyphens, so "l-shape" can be found as "lshape".
func Merge(token string) string {
	return strings.ReplaceAll(token, "-", "")
}

// IsCurrencySymbol reports whether r belongs to the Unicode Sc category.
func IsCurrencySymbol(r rune) bool {
	return unicode.Is(unicode.Sc, r)
}

// ContainsDigit reports whether s holds at least one decimal digit.
func ContainsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// ContainsCurrency reports whether s holds a currency symbol.
func ContainsCurrency(s string) bool {
	return strings.IndexFunc(s, IsCurrencySymbol) >= 0
}

func mapDash(r rune) rune {
	switch r {
	case '‐', '‑', '‒', '–', '—', '―', '−':
		return '-'
	}
	return r
}
