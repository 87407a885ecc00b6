// Package matcher finds the longest trie keys occurring in text.
//
// Starting at each position where a word may begin, the matcher walks the
// trie as far as the text allows and reports the longest accepted end. A run
// of whitespace and noise characters in the text is read as one space. Case
// folding and noise tolerance are each gated by a minimum match length.
package matcher

import (
	"iter"
	"slices"
	"unicode"

	"github.com/entimark/entimark/pkg/charpolicy"
	"github.com/entimark/entimark/pkg/trie"
)

// Disabled turns off case folding or noise tolerance when used as a
// minimum length.
const Disabled = -1

// Config holds the length gates. A gate of Disabled turns the behavior off,
// zero allows it for any match length.
type Config struct {
	// CaseInsensitiveMinLength is the shortest match, in runes of matched
	// text, that may differ in case from its key.
	CaseInsensitiveMinLength int

	// FuzzyMinLength is the shortest match, in runes of matched text, that
	// may contain noise characters between words.
	FuzzyMinLength int
}

// DefaultConfig matches case-sensitively and without noise.
func DefaultConfig() Config {
	return Config{CaseInsensitiveMinLength: Disabled, FuzzyMinLength: Disabled}
}

// Matcher scans text against a trie. It keeps no state between calls and
// can be shared by concurrent scans once the trie is complete.
type Matcher struct {
	trie   *trie.Trie
	policy charpolicy.Policy
	cfg    Config
}

// New creates a matcher over t.
func New(t *trie.Trie, cfg Config) *Matcher {
	return &Matcher{trie: t, policy: t.Policy(), cfg: cfg}
}

// Config returns the gates the matcher was created with.
func (m *Matcher) Config() Config { return m.cfg }

// Result is one recognized span.
type Result struct {
	// IDs of all entities whose name matched the span, in trie order.
	IDs []string `json:"ids"`
	// Start and End are byte offsets into the scanned text, End exclusive.
	Start int `json:"start"`
	End   int `json:"end"`
	// Text is the original text of the span.
	Text string `json:"text"`
	// Key is the trie key that was walked.
	Key string `json:"key"`
}

// candidate is a match end found by extend, in rune indexes.
type candidate struct {
	end int
	key string
	ids []string
}

// MatchAt returns the longest match starting at rune index start.
// It does not check whether a word may start there.
func (m *Matcher) MatchAt(t *Text, start int) (Result, bool) {
	res, _, ok := m.matchAt(t, start)
	return res, ok
}

func (m *Matcher) matchAt(t *Text, start int) (Result, int, bool) {
	if start < 0 || start >= t.Len() {
		return Result{}, 0, false
	}
	c, ok := m.extend(t, m.trie.Root(), start, start, "", false, false)
	if !ok {
		return Result{}, 0, false
	}
	return Result{
		IDs:   slices.Clone(c.ids),
		Start: t.ByteOffset(start),
		End:   t.ByteOffset(c.end),
		Text:  t.slice(start, c.end),
		Key:   c.key,
	}, c.end, true
}

// All returns the matches in s from left to right. After a match the scan
// resumes at its end.
func (m *Matcher) All(s string) (iter.Seq[Result], error) {
	t, err := NewText(s)
	if err != nil {
		return nil, err
	}
	return m.Scan(t), nil
}

// Scan is All over prepared text.
func (m *Matcher) Scan(t *Text) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		for i := 0; i < t.Len(); {
			if !m.policy.CanStart(t.runes, i) {
				i++
				continue
			}
			res, end, ok := m.matchAt(t, i)
			if !ok {
				i++
				continue
			}
			if !yield(res) {
				return
			}
			i = end
		}
	}
}

// Matches collects All into a slice.
func (m *Matcher) Matches(s string) ([]Result, error) {
	seq, err := m.All(s)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// extend walks from cursor c, which has consumed text[start:pos], and returns
// the candidate with the greatest end. Candidates tied on end are merged.
// folded and fuzzy record whether the path so far changed case or skipped
// noise.
func (m *Matcher) extend(t *Text, c trie.Cursor, start, pos int, key string, folded, fuzzy bool) (candidate, bool) {
	var best candidate
	found := false

	if pos < t.Len() {
		r, next, noisy, ok := m.nextRune(t, pos)
		if ok {
			foldCase := m.cfg.CaseInsensitiveMinLength >= 0
			for _, step := range c.Continuations(r, foldCase) {
				cand, ok := m.extend(t, step.Cursor, start, next, key+string(step.Rune),
					folded || step.Rune != r, fuzzy || noisy)
				if !ok {
					continue
				}
				switch {
				case !found || cand.end > best.end:
					best, found = cand, true
				case cand.end == best.end:
					best.ids = union(best.ids, cand.ids)
				}
			}
		}
		if found {
			return best, true
		}
	}

	ids := c.Values()
	if len(ids) == 0 || pos == start {
		return candidate{}, false
	}
	if pos < t.Len() && m.policy.ContinuesWord(t.runes[pos]) {
		return candidate{}, false
	}
	if !m.admits(pos-start, folded, fuzzy) {
		return candidate{}, false
	}
	return candidate{end: pos, key: key, ids: ids}, true
}

// nextRune reads the rune at pos. A separator run is read as one space; noisy
// reports whether it held anything but whitespace. ok is false when the run
// cannot be part of a match.
func (m *Matcher) nextRune(t *Text, pos int) (r rune, next int, noisy, ok bool) {
	r = t.runes[pos]
	if !m.policy.IsSeparator(r) {
		return r, pos + 1, false, true
	}
	next = pos
	for next < t.Len() && m.policy.IsSeparator(t.runes[next]) {
		if !unicode.IsSpace(t.runes[next]) {
			noisy = true
		}
		next++
	}
	if next == t.Len() {
		return 0, 0, false, false
	}
	if noisy && m.cfg.FuzzyMinLength < 0 {
		return 0, 0, false, false
	}
	return ' ', next, noisy, true
}

// admits applies the length gates to a candidate of n runes.
func (m *Matcher) admits(n int, folded, fuzzy bool) bool {
	if folded && (m.cfg.CaseInsensitiveMinLength < 0 || n < m.cfg.CaseInsensitiveMinLength) {
		return false
	}
	if fuzzy && (m.cfg.FuzzyMinLength < 0 || n < m.cfg.FuzzyMinLength) {
		return false
	}
	return true
}

func union(a, b []string) []string {
	out := slices.Clone(a)
	for _, id := range b {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
