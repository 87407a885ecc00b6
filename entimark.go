// Package entimark recognizes named entities in text.
//
// A grammar maps entity ids to the names they are known by. entimark compiles
// it into a trie and finds the longest names occurring in a text, tolerating
// case and punctuation differences above configurable lengths.
//
// # Basic Usage
//
//	scanner, err := entimark.NewScanner(
//	    entimark.WithGrammar([]byte("Q90 <- Paris\nQ64 <- Berlin")),
//	    entimark.WithOption("case-insensitive-min-length", "4"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer scanner.Close()
//
//	matches, err := scanner.ScanString("From PARIS to Berlin")
//	for _, m := range matches {
//	    fmt.Printf("%v at %d\n", m.EntityIDs, m.Location.Offset.Start)
//	}
//
// # Annotation
//
// Annotate wraps every match in an element:
//
//	out, err := scanner.Annotate("From PARIS to Berlin")
//	// From <fn:match id="Q90">PARIS</fn:match> to <fn:match id="Q64">Berlin</fn:match>
package entimark

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/entimark/entimark/pkg/grammar"
	"github.com/entimark/entimark/pkg/markup"
	"github.com/entimark/entimark/pkg/scanner"
	"github.com/entimark/entimark/pkg/trie"
	"github.com/entimark/entimark/pkg/types"
)

// Re-export commonly used types for convenience.
type (
	// Match is one recognized entity span.
	Match = types.Match

	// Entry is one grammar entity and its names.
	Entry = grammar.Entry

	// Location describes where a match was found within content.
	Location = types.Location

	// Snippet contains the matched text with surrounding context.
	Snippet = types.Snippet

	// Document is the target of Mark.
	Document = scanner.Document
)

// Scanner recognizes the entities of one grammar.
type Scanner struct {
	core   *scanner.Core
	config *scannerConfig
}

// scannerConfig holds scanner configuration.
type scannerConfig struct {
	sources      [][]byte
	files        []string
	entries      []Entry
	options      map[string]string
	contextLines int
	logger       *slog.Logger
	filter       grammar.FilterConfig
}

// Option configures a Scanner.
type Option func(*scannerConfig)

// WithGrammar adds grammar source in XML or line syntax.
func WithGrammar(src []byte) Option {
	return func(c *scannerConfig) {
		c.sources = append(c.sources, src)
	}
}

// WithGrammarFile adds a grammar file. The format follows the extension.
func WithGrammarFile(path string) Option {
	return func(c *scannerConfig) {
		c.files = append(c.files, path)
	}
}

// WithEntries adds entities directly.
func WithEntries(entries ...Entry) Option {
	return func(c *scannerConfig) {
		c.entries = append(c.entries, entries...)
	}
}

// WithOption sets one matching option, e.g. "fuzzy-min-length".
func WithOption(key, value string) Option {
	return func(c *scannerConfig) {
		c.options[key] = value
	}
}

// WithContextLines sets the number of context lines to include around matches.
// Default is 2 lines before and after.
func WithContextLines(lines int) Option {
	return func(c *scannerConfig) {
		c.contextLines = lines
	}
}

// WithLogger sets the logger for grammar build reports.
func WithLogger(logger *slog.Logger) Option {
	return func(c *scannerConfig) {
		c.logger = logger
	}
}

// WithFilter keeps only entities whose id matches an include pattern (if
// any) and no exclude pattern.
func WithFilter(include, exclude []string) Option {
	return func(c *scannerConfig) {
		c.filter = grammar.FilterConfig{Include: include, Exclude: exclude}
	}
}

// NewScanner creates a new Scanner with the given options. At least one
// grammar source is required.
func NewScanner(opts ...Option) (*Scanner, error) {
	config := &scannerConfig{
		options:      make(map[string]string),
		contextLines: scanner.DefaultContextLines,
	}
	for _, opt := range opts {
		opt(config)
	}

	var grammars []*grammar.Grammar
	for _, src := range config.sources {
		g, err := grammar.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parsing grammar: %w", err)
		}
		grammars = append(grammars, g)
	}
	for _, path := range config.files {
		g, err := grammar.LoadFile(path)
		if err != nil {
			return nil, err
		}
		grammars = append(grammars, g)
	}
	if len(config.entries) > 0 {
		grammars = append(grammars, &grammar.Grammar{Entries: config.entries})
	}
	if len(grammars) == 0 {
		return nil, fmt.Errorf("no grammar given")
	}

	options, err := scanner.ParseOptions(config.options)
	if err != nil {
		return nil, err
	}

	core, err := scanner.NewCoreFromGrammars(grammars, options,
		scanner.WithLogger(config.logger),
		scanner.WithContextLines(config.contextLines),
		scanner.WithFilter(config.filter),
	)
	if err != nil {
		return nil, err
	}
	return &Scanner{core: core, config: config}, nil
}

// ScanString returns the matches in content.
func (s *Scanner) ScanString(content string) ([]*Match, error) {
	res, err := s.core.ScanContent(content, nil)
	if err != nil {
		return nil, err
	}
	return res.Matches, nil
}

// ScanBytes returns the matches in content.
func (s *Scanner) ScanBytes(content []byte) ([]*Match, error) {
	return s.ScanString(string(content))
}

// ScanFile reads and scans a text file.
func (s *Scanner) ScanFile(path string) ([]*Match, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return s.ScanBytes(content)
}

// Annotate returns content as XML text with every match wrapped in a
// fn:match element whose id attribute lists the entity ids.
func (s *Scanner) Annotate(content string) (string, error) {
	doc := markup.New(content)
	if err := s.core.Scan(doc); err != nil {
		return "", err
	}
	return doc.Render(), nil
}

// Mark inserts a span into doc for every match.
func (s *Scanner) Mark(doc Document) error {
	return s.core.Scan(doc)
}

// Contains reports whether name is a known entity name.
func (s *Scanner) Contains(name string) bool {
	return s.core.Trie().Contains(name)
}

// Lookup returns the ids of the entities known by name.
func (s *Scanner) Lookup(name string) []string {
	return s.core.Trie().Get(name)
}

// Stats returns the size of the compiled grammar.
func (s *Scanner) Stats() trie.Stats {
	return s.core.Trie().Stats()
}

// EntityCount returns the number of grammar entries compiled.
func (s *Scanner) EntityCount() int {
	return s.core.Report().Entries
}

// Close releases scanner resources.
func (s *Scanner) Close() error {
	return s.core.Close()
}
