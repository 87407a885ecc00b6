package charpolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_IsSignificant(t *testing.T) {
	p := New("-", "", "")

	tests := []struct {
		r    rune
		want bool
	}{
		{'a', true},
		{'Z', true},
		{'7', true},
		{' ', true},
		{'\t', true},
		{'ж', true},
		{'-', true},
		{'.', false},
		{',', false},
		{'_', false},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			assert.Equal(t, tt.want, p.IsSignificant(tt.r))
			assert.Equal(t, !tt.want, p.IsNoise(tt.r))
		})
	}
}

func TestPolicy_IsSeparator(t *testing.T) {
	p := New("-", "", "")

	assert.True(t, p.IsSeparator(' '))
	assert.True(t, p.IsSeparator('\n'))
	assert.True(t, p.IsSeparator('.'))
	assert.False(t, p.IsSeparator('-'), "word chars are not separators")
	assert.False(t, p.IsSeparator('x'))
}

func TestPolicy_ContinuesWord(t *testing.T) {
	p := New("", "'", "")

	assert.True(t, p.ContinuesWord('a'))
	assert.True(t, p.ContinuesWord('9'))
	assert.True(t, p.ContinuesWord('\''))
	assert.False(t, p.ContinuesWord(' '))
	assert.False(t, p.ContinuesWord('.'))
}

func TestPolicy_CanStart(t *testing.T) {
	p := New("", "", "@")

	tests := []struct {
		name string
		text string
		pos  int
		want bool
	}{
		{"first rune", ".abc", 0, true},
		{"after space", "a bc", 2, true},
		{"inside word", "abc", 1, false},
		{"after digit", "1abc", 1, false},
		{"on punctuation", "a .b", 2, false},
		{"after punctuation", "a.b", 2, true},
		{"after no-word-after char", "x@home", 2, false},
		{"out of range", "abc", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanStart([]rune(tt.text), tt.pos))
		})
	}
}

func TestPolicy_Key(t *testing.T) {
	tests := []struct {
		name      string
		wordChars string
		in        string
		want      string
	}{
		{"plain", "", "New York", "New York"},
		{"noise dropped", "", "e.g.", "eg"},
		{"whitespace collapsed", "", "  A \t\n B  ", "A B"},
		{"noise between spaces", "", "C . F", "C F"},
		{"word chars kept", ".", "e.g.", "e.g."},
		{"diacritics stripped", "", "Café Müller", "Cafe Muller"},
		{"only noise", "", "...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.wordChars, "", "")
			assert.Equal(t, tt.want, p.Key(tt.in))
		})
	}
}

func TestPolicy_Fold(t *testing.T) {
	p := New("", "", "")

	assert.Equal(t, "C F", p.Fold("C.F."))
	assert.Equal(t, "r s v p", p.Fold("r.s.v.p"))
	assert.Equal(t, "A A", p.Fold("A   A"))
	assert.Equal(t, p.Fold("A \t A"), p.Fold("A   A"))
}

func TestNormalize_PreservesLength(t *testing.T) {
	inputs := []string{
		"",
		"plain ascii",
		"Crème brûlée",
		"tab\tand\u00a0nbsp",
		"日本語のテキスト",
		"ﬁ ligature",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			out := Normalize(in)
			assert.Len(t, out, len([]rune(in)))
		})
	}
}

func TestNormalize_Mapping(t *testing.T) {
	assert.Equal(t, []rune("Creme brulee"), Normalize("Crème brûlée"))
	assert.Equal(t, []rune("a b c"), Normalize("a\u00a0b\tc"))
	assert.Equal(t, 'ﬁ', NormalizeRune('ﬁ'), "compatibility decompositions are kept")
	assert.Equal(t, 'A', NormalizeRune('Å'))
	assert.Equal(t, ' ', NormalizeRune('\u00a0'))
	assert.Equal(t, '日', NormalizeRune('日'))
}
