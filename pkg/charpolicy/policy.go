// Package charpolicy decides which characters are significant when names are
// indexed and text is scanned, and where a match may start or end.
//
// Letters, digits and whitespace are always significant. Extra significant
// characters are configured as word characters. Every other character is noise:
// it is dropped from grammar names and, in scanned text, a run of noise and
// whitespace is matched as a single space.
package charpolicy

import (
	"strings"
	"unicode"
)

// Policy holds the configurable character classes.
// The zero value treats only letters, digits and whitespace as significant.
type Policy struct {
	wordChars    string // significant next to letters, digits and whitespace
	noWordBefore string // may not follow the end of a match
	noWordAfter  string // a match may not start right after these
}

// New creates a Policy from the three configured character sets.
func New(wordChars, noWordBefore, noWordAfter string) Policy {
	return Policy{
		wordChars:    wordChars,
		noWordBefore: noWordBefore,
		noWordAfter:  noWordAfter,
	}
}

// WordChars returns the extra significant characters.
func (p Policy) WordChars() string { return p.wordChars }

// NoWordBefore returns the characters that may not follow a match.
func (p Policy) NoWordBefore() string { return p.noWordBefore }

// NoWordAfter returns the characters that may not precede a match.
func (p Policy) NoWordAfter() string { return p.noWordAfter }

// IsSignificant reports whether r can appear in a trie key.
func (p Policy) IsSignificant(r rune) bool {
	return isLetterOrDigit(r) || unicode.IsSpace(r) || strings.ContainsRune(p.wordChars, r)
}

// IsNoise reports whether r is elided during indexing and matching.
func (p Policy) IsNoise(r rune) bool {
	return !p.IsSignificant(r)
}

// IsSeparator reports whether r belongs to a run that is matched as one space.
func (p Policy) IsSeparator(r rune) bool {
	return unicode.IsSpace(r) || !p.IsSignificant(r)
}

// ContinuesWord reports whether r would make a match ending before it split a
// larger token.
func (p Policy) ContinuesWord(r rune) bool {
	return isLetterOrDigit(r) || strings.ContainsRune(p.noWordBefore, r)
}

// CanStart reports whether a match may start at text[i].
// A match starts on a letter or digit, or on the first rune of the text, and
// never inside a word or right after a no-word-after character.
func (p Policy) CanStart(text []rune, i int) bool {
	if i < 0 || i >= len(text) {
		return false
	}
	if i == 0 {
		return true
	}
	if !isLetterOrDigit(text[i]) {
		return false
	}
	prev := text[i-1]
	return !isLetterOrDigit(prev) && !strings.ContainsRune(p.noWordAfter, prev)
}

// Key turns a grammar name into the trie key it is indexed under.
// Noise characters are removed, whitespace runs become one space and leading
// or trailing whitespace is dropped.
func (p Policy) Key(name string) string {
	return p.collapse(name, false)
}

// Fold is like Key, but noise characters separate words instead of being
// removed, the way scanned text is read.
func (p Policy) Fold(s string) string {
	return p.collapse(s, true)
}

func (p Policy) collapse(s string, noiseSeparates bool) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inSpace := false
	for _, r := range Normalize(s) {
		switch {
		case unicode.IsSpace(r):
			inSpace = true
		case p.IsSignificant(r):
			if inSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			inSpace = false
			sb.WriteRune(r)
		case noiseSeparates:
			inSpace = true
		}
	}
	return sb.String()
}

func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
