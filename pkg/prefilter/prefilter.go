// Package prefilter skips documents that cannot contain any trie key.
package prefilter

import (
	"github.com/cloudflare/ahocorasick"

	"github.com/entimark/entimark/pkg/trie"
)

// Prefilter uses Aho-Corasick over the first word of every key. A match must
// contain its key's first word verbatim in the normalized text, so a document
// without any of them has no case-sensitive match.
type Prefilter struct {
	matcher *ahocorasick.Matcher
	tokens  []string // token at each index
}

// New creates a prefilter for the given tokens.
func New(tokens []string) *Prefilter {
	pf := &Prefilter{}

	seen := make(map[string]bool)
	for _, tok := range tokens {
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		pf.tokens = append(pf.tokens, tok)
	}

	if len(pf.tokens) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.tokens)
	}
	return pf
}

// FromTrie creates a prefilter over the first words of all keys in t.
func FromTrie(t *trie.Trie) *Prefilter {
	return New(t.FirstTokens())
}

// Len returns the number of distinct tokens.
func (pf *Prefilter) Len() int {
	return len(pf.tokens)
}

// MayMatch reports whether normalized text contains at least one token.
// It is safe for concurrent use.
func (pf *Prefilter) MayMatch(normalized string) bool {
	if pf.matcher == nil {
		return false
	}
	return len(pf.matcher.MatchThreadSafe([]byte(normalized))) > 0
}

// Hits returns the distinct tokens found in normalized text.
func (pf *Prefilter) Hits(normalized string) []string {
	if pf.matcher == nil {
		return nil
	}
	hits := pf.matcher.MatchThreadSafe([]byte(normalized))
	out := make([]string, 0, len(hits))
	for _, i := range hits {
		out = append(out, pf.tokens[i])
	}
	return out
}
