// Package grammar reads entity grammars and compiles them into a trie.
//
// A grammar maps entity ids to the names they are known by. It is written
// either in line syntax
//
//	Q90 <- Paris	Paname
//	Q64: Berlin
//
// or as two-level XML
//
//	<grammar>
//	  <entity id="Q90"><name>Paris</name><name>Paname</name></entity>
//	</grammar>
//
// Parse detects which of the two it was given. YAML grammars are selected by
// file extension.
package grammar

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/entimark/entimark/pkg/charpolicy"
	"github.com/entimark/entimark/pkg/trie"
)

// Format names a grammar syntax.
type Format string

const (
	FormatXML   Format = "xml"
	FormatLines Format = "lines"
	FormatYAML  Format = "yaml"
)

// Entry is one entity and its names.
type Entry struct {
	ID    string   `json:"id" yaml:"id"`
	Names []string `json:"names" yaml:"names"`
}

// Grammar is a parsed grammar source.
type Grammar struct {
	Location string
	Format   Format
	Entries  []Entry
}

// Parse reads src as XML and falls back to line syntax when src is not an
// XML document. Errors in the content of a well-formed XML grammar do not
// fall back.
func Parse(src []byte) (*Grammar, error) {
	entries, xmlErr := ParseXML(src)
	if xmlErr == nil {
		return &Grammar{Format: FormatXML, Entries: entries}, nil
	}
	if !errors.Is(xmlErr, errNotXML) {
		return nil, &SourceError{Attempted: []Format{FormatXML}, Err: xmlErr}
	}

	entries, lineErr := ParseLines(src)
	if lineErr != nil {
		attempted := []Format{FormatLines}
		if looksLikeXML(src) {
			return nil, &SourceError{
				Attempted: []Format{FormatXML, FormatLines},
				Err:       errors.Join(xmlErr, lineErr),
			}
		}
		return nil, &SourceError{Attempted: attempted, Err: lineErr}
	}
	return &Grammar{Format: FormatLines, Entries: entries}, nil
}

// ParseFormat reads src in the given format only.
func ParseFormat(src []byte, format Format) (*Grammar, error) {
	var (
		entries []Entry
		err     error
	)
	switch format {
	case FormatXML:
		entries, err = ParseXML(src)
	case FormatLines:
		entries, err = ParseLines(src)
	case FormatYAML:
		entries, err = ParseYAML(src)
	case "":
		return Parse(src)
	default:
		return nil, fmt.Errorf("unknown grammar format %q", format)
	}
	if err != nil {
		return nil, &SourceError{Attempted: []Format{format}, Err: err}
	}
	return &Grammar{Format: format, Entries: entries}, nil
}

// Names returns the number of names over all entries.
func (g *Grammar) Names() int {
	n := 0
	for _, e := range g.Entries {
		n += len(e.Names)
	}
	return n
}

// Report summarizes a compilation.
type Report struct {
	Sources int        `json:"sources"`
	Entries int        `json:"entries"`
	Names   int        `json:"names"`
	Skipped int        `json:"skipped"` // names without significant characters
	Stats   trie.Stats `json:"stats"`
}

// Insert adds every name of every entry to t. Names that normalize to an
// empty key are skipped and counted.
func Insert(entries []Entry, t *trie.Trie) (Report, error) {
	r := Report{Sources: 1, Entries: len(entries)}
	for _, e := range entries {
		for _, name := range e.Names {
			r.Names++
			if err := t.Insert(name, e.ID); err != nil {
				if errors.Is(err, trie.ErrEmptyKey) {
					r.Skipped++
					continue
				}
				return r, fmt.Errorf("entity %s: %w", e.ID, err)
			}
		}
	}
	r.Stats = t.Stats()
	return r, nil
}

// Compile parses src and inserts it into t. Nothing is inserted unless src
// parses completely.
func Compile(src []byte, t *trie.Trie) (Report, error) {
	g, err := Parse(src)
	if err != nil {
		return Report{}, err
	}
	return Insert(g.Entries, t)
}

// Build compiles grammars into a new trie. Each grammar is inserted by its
// own goroutine. The trie is returned only when every grammar compiled.
func Build(policy charpolicy.Policy, grammars ...*Grammar) (*trie.Trie, Report, error) {
	t := trie.New(policy)
	reports := make([]Report, len(grammars))

	var g errgroup.Group
	for i, gr := range grammars {
		g.Go(func() error {
			r, err := Insert(gr.Entries, t)
			if err != nil {
				if gr.Location != "" {
					return fmt.Errorf("%s: %w", gr.Location, err)
				}
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Report{}, err
	}

	total := Report{}
	for _, r := range reports {
		total.Sources += r.Sources
		total.Entries += r.Entries
		total.Names += r.Names
		total.Skipped += r.Skipped
	}
	total.Stats = t.Stats()
	return t, total, nil
}
