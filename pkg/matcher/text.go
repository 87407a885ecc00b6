package matcher

import (
	"errors"
	"unicode/utf8"

	"github.com/entimark/entimark/pkg/charpolicy"
)

// ErrMalformedDocument is returned for content that is not valid UTF-8.
var ErrMalformedDocument = errors.New("malformed document: invalid UTF-8")

// Text is scanned content prepared once: its normalized runes and the byte
// offset of each rune in the original string.
type Text struct {
	src     string
	runes   []rune
	offsets []int // len(runes)+1 entries, the last one is len(src)
}

// NewText normalizes s for scanning.
func NewText(s string) (*Text, error) {
	if !utf8.ValidString(s) {
		return nil, ErrMalformedDocument
	}
	runes := charpolicy.Normalize(s)
	offsets := make([]int, 0, len(runes)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return &Text{src: s, runes: runes, offsets: offsets}, nil
}

// Len returns the number of runes.
func (t *Text) Len() int { return len(t.runes) }

// String returns the original content.
func (t *Text) String() string { return t.src }

// Normalized returns the normalized content. It has the same number of
// runes as the original.
func (t *Text) Normalized() string { return string(t.runes) }

// ByteOffset maps a rune index to a byte offset in the original content.
func (t *Text) ByteOffset(i int) int { return t.offsets[i] }

// RuneIndex maps a byte offset back to the index of the rune that starts at or
// contains it.
func (t *Text) RuneIndex(offset int) int {
	lo, hi := 0, len(t.runes)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if t.offsets[mid+1] <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (t *Text) slice(start, end int) string {
	return t.src[t.offsets[start]:t.offsets[end]]
}
