// Package names folds professor names into comparison keys and display forms.
//
// Two names refer to the same professor iff their keys are equal. The key
// drops diacritics and case and collapses whitespace, so "José  Pérez",
// "jose perez" and "JOSE PEREZ" all share the key "jose perez". The display
// form keeps the caller's casing except for the first letter of each token,
// which is upper-cased.
package names

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSuggestLimit caps autocomplete results when the caller passes 0.
const DefaultSuggestLimit = 8

// Key returns the comparison key for raw: diacritics stripped, case folded,
// trimmed, internal whitespace runs collapsed to a single space. Diacritics
// are stripped before folding, since folding turns some combining marks into
// letters (U+0345 folds to ι), and again after, for letters whose folded form
// carries a mark (İ folds to i plus a combining dot).
func Key(raw string) string {
	folded := cases.Fold().String(StripDiacritics(raw))
	return collapse(StripDiacritics(folded))
}

// Display returns the canonical display form of raw: diacritics stripped,
// whitespace collapsed, first letter of every token upper-cased. The rest of
// each token is left as given. A token whose key would change by
// upper-casing (dotless ı becomes I, which folds to i) is left as is, so
// Key(Display(s)) == Key(s) for every s.
func Display(raw string) string {
	fields := strings.Fields(StripDiacritics(raw))
	for i, f := range fields {
		r, size := utf8.DecodeRuneInString(f)
		if !unicode.IsLetter(r) {
			continue
		}
		upper := string(unicode.ToUpper(r)) + f[size:]
		if Key(upper) == Key(f) {
			fields[i] = upper
		}
	}
	return strings.Join(fields, " ")
}

// Equal reports whether a and b name the same professor.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// StripDiacritics decomposes s, removes every rune with the Unicode
// Diacritic property and recomposes what is left.
func StripDiacritics(s string) string {
	if s == "" {
		return ""
	}
	// Transformers carry state; build one per call so callers may run concurrently.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Diacritic)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Contains reports whether name matches a search query. Matching is done on
// keys, so accents and case are ignored. An empty query matches every name.
func Contains(name, query string) bool {
	q := Key(query)
	if q == "" {
		return true
	}
	return strings.Contains(Key(name), q)
}

// Suggest returns up to limit candidates whose key contains the query key,
// in candidate order. An empty query yields no suggestions.
func Suggest(candidates []string, query string, limit int) []string {
	q := Key(query)
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	var out []string
	for _, c := range candidates {
		if strings.Contains(Key(c), q) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
