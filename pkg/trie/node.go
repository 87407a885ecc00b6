package trie

import (
	"slices"
	"unicode/utf8"
)

// node is one trie position. Its edges are nil for a leaf, a *singleEdge
// while it has one outgoing rune, and a *multiEdge from the second one on.
type node struct {
	edges  edges
	values []string
}

type edges interface {
	child(r rune) *node
	// each visits children in rune order.
	each(fn func(r rune, n *node) bool) bool
}

type singleEdge struct {
	r    rune
	next *node
}

func (e *singleEdge) child(r rune) *node {
	if e.r == r {
		return e.next
	}
	return nil
}

func (e *singleEdge) each(fn func(rune, *node) bool) bool {
	return fn(e.r, e.next)
}

// multiEdge indexes ASCII runes directly and keeps the rest in a map.
type multiEdge struct {
	low  [utf8.RuneSelf]*node
	high map[rune]*node
}

func (e *multiEdge) child(r rune) *node {
	if r >= 0 && r < utf8.RuneSelf {
		return e.low[r]
	}
	return e.high[r]
}

func (e *multiEdge) set(r rune, n *node) {
	if r >= 0 && r < utf8.RuneSelf {
		e.low[r] = n
		return
	}
	if e.high == nil {
		e.high = make(map[rune]*node)
	}
	e.high[r] = n
}

func (e *multiEdge) each(fn func(rune, *node) bool) bool {
	for r, n := range e.low {
		if n != nil && !fn(rune(r), n) {
			return false
		}
	}
	if len(e.high) == 0 {
		return true
	}
	keys := make([]rune, 0, len(e.high))
	for r := range e.high {
		keys = append(keys, r)
	}
	slices.Sort(keys)
	for _, r := range keys {
		if !fn(r, e.high[r]) {
			return false
		}
	}
	return true
}

// child returns the node reached over r, or nil.
func (n *node) child(r rune) *node {
	if n.edges == nil {
		return nil
	}
	return n.edges.child(r)
}

// childOrCreate returns the node reached over r, adding it when missing.
// A single-edge node that gets a second rune is replaced by a multi-edge node.
func (n *node) childOrCreate(r rune) *node {
	switch e := n.edges.(type) {
	case nil:
		next := &node{}
		n.edges = &singleEdge{r: r, next: next}
		return next
	case *singleEdge:
		if e.r == r {
			return e.next
		}
		next := &node{}
		m := &multiEdge{}
		m.set(e.r, e.next)
		m.set(r, next)
		n.edges = m
		return next
	case *multiEdge:
		if next := e.child(r); next != nil {
			return next
		}
		next := &node{}
		e.set(r, next)
		return next
	default:
		panic("trie: unknown edge encoding")
	}
}

// addValue appends id unless the node already holds it.
func (n *node) addValue(id string) bool {
	if slices.Contains(n.values, id) {
		return false
	}
	n.values = append(n.values, id)
	return true
}
