package charpolicy

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/norm"
)

var combining = runes.In(unicode.Mn)

// Normalize maps s to runes one for one, so rune positions in the result are
// rune positions in s. Letters with diacritics lose their combining marks
// (é becomes e) and every kind of whitespace becomes a plain space.
// Runes whose decomposition is not a base rune plus combining marks are kept.
func Normalize(s string) []rune {
	out := make([]rune, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, normalizeRune(r))
	}
	return out
}

// NormalizeRune applies the per-rune mapping of Normalize.
func NormalizeRune(r rune) rune {
	return normalizeRune(r)
}

func normalizeRune(r rune) rune {
	if r < utf8.RuneSelf {
		if r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' {
			return ' '
		}
		return r
	}
	if unicode.IsSpace(r) {
		return ' '
	}
	d := norm.NFD.PropertiesString(string(r)).Decomposition()
	if len(d) == 0 {
		return r
	}
	base, size := utf8.DecodeRune(d)
	for rest := d[size:]; len(rest) > 0; {
		m, n := utf8.DecodeRune(rest)
		if !combining.Contains(m) {
			return r
		}
		rest = rest[n:]
	}
	return base
}
