// Package trie stores normalized entity names and the identifiers they map to.
//
// A Trie is filled once, possibly from several grammar sources at the same
// time, and is read-only afterwards. Lookups and cursors never lock, so scans
// must not run while inserts are still in progress.
package trie

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/entimark/entimark/pkg/charpolicy"
)

var (
	// ErrEmptyKey is returned when a name normalizes to nothing.
	ErrEmptyKey = errors.New("name has no significant characters")

	// ErrIllegalRune is returned when a normalized key still holds a rune the
	// policy does not accept.
	ErrIllegalRune = errors.New("illegal rune in trie key")
)

// Trie maps normalized names to ordered, duplicate-free identifier lists.
type Trie struct {
	policy charpolicy.Policy
	root   *node

	mu    sync.Mutex
	keys  int
	nodes int
	multi int
	bytes int
}

// New creates an empty trie whose keys are normalized with policy.
func New(policy charpolicy.Policy) *Trie {
	return &Trie{
		policy: policy,
		root:   &node{},
		nodes:  1,
	}
}

// Policy returns the character policy keys are normalized with.
func (t *Trie) Policy() charpolicy.Policy {
	return t.policy
}

// Insert indexes name under id. Inserting the same pair twice is a no-op.
func (t *Trie) Insert(name, id string) error {
	key := t.policy.Key(name)
	if key == "" {
		return fmt.Errorf("insert %q: %w", name, ErrEmptyKey)
	}
	for _, r := range key {
		if !t.policy.IsSignificant(r) {
			return fmt.Errorf("insert %q: %w: %q", name, ErrIllegalRune, r)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.root
	for _, r := range key {
		before := n.edges
		next := n.child(r)
		if next == nil {
			next = n.childOrCreate(r)
			t.nodes++
			if _, wasSingle := before.(*singleEdge); wasSingle {
				t.multi++
			}
		}
		n = next
	}
	if len(n.values) == 0 {
		t.keys++
	}
	if n.addValue(id) {
		t.bytes += 36 + 2*len(id)
	}
	return nil
}

// Get returns the identifiers stored under the normalized form of name.
func (t *Trie) Get(name string) []string {
	n := t.find(t.policy.Key(name))
	if n == nil || len(n.values) == 0 {
		return nil
	}
	return slices.Clone(n.values)
}

// Contains reports whether name is indexed.
func (t *Trie) Contains(name string) bool {
	n := t.find(t.policy.Key(name))
	return n != nil && len(n.values) > 0
}

// LongestPrefixOf returns the longest key that is a prefix of the normalized
// query, or "" when no key is.
func (t *Trie) LongestPrefixOf(query string) string {
	key := t.policy.Key(query)
	n := t.root
	longest := 0
	for i, r := range key {
		n = n.child(r)
		if n == nil {
			break
		}
		if len(n.values) > 0 {
			longest = i + len(string(r))
		}
	}
	return key[:longest]
}

func (t *Trie) find(key string) *node {
	if key == "" {
		return nil
	}
	n := t.root
	for _, r := range key {
		if n = n.child(r); n == nil {
			return nil
		}
	}
	return n
}

// Keys yields every key with its identifiers, depth first in rune order.
func (t *Trie) Keys() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		var path []rune
		var walk func(n *node) bool
		walk = func(n *node) bool {
			if len(n.values) > 0 && !yield(string(path), slices.Clone(n.values)) {
				return false
			}
			if n.edges == nil {
				return true
			}
			return n.edges.each(func(r rune, child *node) bool {
				path = append(path, r)
				ok := walk(child)
				path = path[:len(path)-1]
				return ok
			})
		}
		walk(t.root)
	}
}

// FirstTokens returns the distinct leading words of all keys.
func (t *Trie) FirstTokens() []string {
	seen := make(map[string]struct{})
	var out []string
	for key := range t.Keys() {
		tok, _, _ := strings.Cut(key, " ")
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// Root returns a cursor on the root node.
func (t *Trie) Root() Cursor {
	return Cursor{n: t.root}
}

// Cursor is a position in the trie.
type Cursor struct {
	n *node
}

// Step is one edge that can be followed from a cursor.
type Step struct {
	Rune   rune
	Cursor Cursor
}

// Values returns the identifiers stored at the cursor. The slice is shared
// with the trie and must not be modified.
func (c Cursor) Values() []string {
	if c.n == nil {
		return nil
	}
	return c.n.values
}

// Continuations returns the edges that consume r. With foldCase set and a
// cased letter, the upper-case edge comes first and the lower-case edge second,
// each only when present.
func (c Cursor) Continuations(r rune, foldCase bool) []Step {
	if c.n == nil || c.n.edges == nil {
		return nil
	}
	if foldCase && unicode.IsLetter(r) {
		upper, lower := unicode.ToUpper(r), unicode.ToLower(r)
		if upper != lower {
			var steps []Step
			if n := c.n.child(upper); n != nil {
				steps = append(steps, Step{Rune: upper, Cursor: Cursor{n: n}})
			}
			if n := c.n.child(lower); n != nil {
				steps = append(steps, Step{Rune: lower, Cursor: Cursor{n: n}})
			}
			if r != upper && r != lower {
				// title case runes
				if n := c.n.child(r); n != nil {
					steps = append(steps, Step{Rune: r, Cursor: Cursor{n: n}})
				}
			}
			return steps
		}
	}
	if n := c.n.child(r); n != nil {
		return []Step{{Rune: r, Cursor: Cursor{n: n}}}
	}
	return nil
}

// Stats describes the size of a trie.
type Stats struct {
	Keys        int `json:"keys"`
	Nodes       int `json:"nodes"`
	BigNodes    int `json:"big_nodes"`
	SizeInBytes int `json:"size_in_bytes"`
}

// Stats returns key and node counts and an estimate of the memory held.
func (t *Trie) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		Keys:        t.keys,
		Nodes:       t.nodes,
		BigNodes:    t.multi,
		SizeInBytes: t.nodes*32 + t.multi*(12+128*8) + t.bytes,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d keys, %d nodes (%d multi-edge), ~%d bytes", s.Keys, s.Nodes, s.BigNodes, s.SizeInBytes)
}
