// Package scanner is the recognition engine: it compiles a grammar once and
// marks up entity names in any number of documents.
package scanner

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/entimark/entimark/pkg/grammar"
	"github.com/entimark/entimark/pkg/matcher"
	"github.com/entimark/entimark/pkg/prefilter"
	"github.com/entimark/entimark/pkg/store"
	"github.com/entimark/entimark/pkg/trie"
	"github.com/entimark/entimark/pkg/types"
)

// DefaultContextLines is the number of lines kept around a match in
// snippets.
const DefaultContextLines = 2

// Document is the text a Core scans and the target of its markup.
type Document interface {
	// Content returns the character content to scan.
	Content() string

	// InsertMarkup tags content[start:end] with the tab-separated entity ids.
	InsertMarkup(start, end int, ids, balancing string) error
}

// Core holds a compiled grammar. It is safe for concurrent scans.
type Core struct {
	opts         Options
	trie         *trie.Trie
	matcher      *matcher.Matcher
	prefilter    *prefilter.Prefilter // nil while case folding is enabled
	report       grammar.Report
	filter       grammar.FilterConfig
	store        store.Store
	logger       *slog.Logger
	contextLines int
}

// CoreOption configures a Core.
type CoreOption func(*Core)

// WithLogger sets the logger for build reports and scan summaries.
// Default: discard.
func WithLogger(logger *slog.Logger) CoreOption {
	return func(c *Core) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStore persists documents and matches from ScanContent. The Core
// closes the store on Close.
func WithStore(s store.Store) CoreOption {
	return func(c *Core) { c.store = s }
}

// WithContextLines sets the snippet context. Default: 2.
func WithContextLines(n int) CoreOption {
	return func(c *Core) { c.contextLines = n }
}

// WithFilter restricts the grammar to the entities the filter keeps.
func WithFilter(f grammar.FilterConfig) CoreOption {
	return func(c *Core) { c.filter = f }
}

// NewCore compiles grammar source src, in XML or line syntax.
func NewCore(src []byte, opts Options, coreOpts ...CoreOption) (*Core, error) {
	g, err := grammar.Parse(src)
	if err != nil {
		return nil, err
	}
	return NewCoreFromGrammars([]*grammar.Grammar{g}, opts, coreOpts...)
}

// NewCoreFromGrammars compiles already parsed grammars into one trie.
func NewCoreFromGrammars(grammars []*grammar.Grammar, opts Options, coreOpts ...CoreOption) (*Core, error) {
	c := &Core{
		opts:         opts,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		contextLines: DefaultContextLines,
	}
	for _, opt := range coreOpts {
		opt(c)
	}

	filtered := make([]*grammar.Grammar, 0, len(grammars))
	for _, g := range grammars {
		entries, err := grammar.Filter(g.Entries, c.filter)
		if err != nil {
			return nil, fmt.Errorf("filtering grammar: %w", err)
		}
		filtered = append(filtered, &grammar.Grammar{Location: g.Location, Format: g.Format, Entries: entries})
	}

	t, report, err := grammar.Build(opts.Policy(), filtered...)
	if err != nil {
		return nil, fmt.Errorf("compiling grammar: %w", err)
	}
	c.trie = t
	c.report = report
	c.matcher = matcher.New(t, opts.MatcherConfig())
	if opts.CaseInsensitiveMinLength < 0 {
		c.prefilter = prefilter.FromTrie(t)
	}

	c.logger.Info("grammar compiled",
		"sources", report.Sources,
		"entries", report.Entries,
		"names", report.Names,
		"skipped", report.Skipped,
		"keys", report.Stats.Keys,
		"nodes", report.Stats.Nodes,
		"big_nodes", report.Stats.BigNodes,
		"bytes", report.Stats.SizeInBytes,
	)
	if c.prefilter != nil {
		c.logger.Debug("prefilter enabled", "tokens", c.prefilter.Len())
	}
	return c, nil
}

// Options returns the options the Core was built with.
func (c *Core) Options() Options { return c.opts }

// Trie returns the compiled trie. It must not be modified.
func (c *Core) Trie() *trie.Trie { return c.trie }

// Report returns the grammar build report.
func (c *Core) Report() grammar.Report { return c.report }

// Results returns the matches in content from left to right.
func (c *Core) Results(content string) (iter.Seq[matcher.Result], error) {
	text, err := matcher.NewText(content)
	if err != nil {
		return nil, err
	}
	if c.prefilter != nil && !c.prefilter.MayMatch(text.Normalized()) {
		return func(func(matcher.Result) bool) {}, nil
	}
	return c.matcher.Scan(text), nil
}

// Matches collects Results into a slice.
func (c *Core) Matches(content string) ([]matcher.Result, error) {
	seq, err := c.Results(content)
	if err != nil {
		return nil, err
	}
	var out []matcher.Result
	for r := range seq {
		out = append(out, r)
	}
	return out, nil
}

// Scan inserts markup into doc for every match in its content. The first
// error aborts the scan.
func (c *Core) Scan(doc Document) error {
	seq, err := c.Results(doc.Content())
	if err != nil {
		return err
	}

	n := 0
	for r := range seq {
		if err := doc.InsertMarkup(r.Start, r.End, strings.Join(r.IDs, "\t"), c.opts.Balancing); err != nil {
			return fmt.Errorf("inserting markup at [%d,%d): %w", r.Start, r.End, err)
		}
		n++
	}
	c.logger.Debug("document scanned", "bytes", len(doc.Content()), "matches", n)
	return nil
}

// ScanContent scans content and returns its matches with locations and
// snippets. When a store is attached the document, its provenance and the
// matches are recorded.
func (c *Core) ScanContent(content string, prov types.Provenance) (*ScanResult, error) {
	seq, err := c.Results(content)
	if err != nil {
		return nil, err
	}

	id := types.ComputeDocumentID(content)
	result := &ScanResult{DocumentID: id, Matches: []*types.Match{}}
	if prov != nil {
		result.Source = prov.Path()
	}

	for r := range seq {
		before, after := matcher.ExtractContext(content, r.Start, r.End, c.contextLines)
		m := &types.Match{
			DocumentID: id,
			EntityIDs:  r.IDs,
			Key:        r.Key,
			Location:   types.NewLocation(content, r.Start, r.End),
			Snippet:    types.Snippet{Before: before, Matching: r.Text, After: after},
		}
		m.StructuralID = m.ComputeStructuralID()
		result.Matches = append(result.Matches, m)
	}

	if c.store != nil {
		if err := c.record(id, int64(len(content)), prov, result.Matches); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (c *Core) record(id types.DocumentID, size int64, prov types.Provenance, matches []*types.Match) error {
	if err := c.store.AddDocument(id, size); err != nil {
		return fmt.Errorf("storing document: %w", err)
	}
	if prov != nil {
		if err := c.store.AddProvenance(id, prov); err != nil {
			return fmt.Errorf("storing provenance: %w", err)
		}
	}
	for _, m := range matches {
		if err := c.store.AddMatch(m); err != nil {
			return fmt.Errorf("storing match: %w", err)
		}
	}
	return nil
}

// ScanBatch scans several content items. Items that fail to scan are
// logged and left out of the result.
func (c *Core) ScanBatch(items []ContentItem) (*BatchScanResult, error) {
	batch := &BatchScanResult{Results: []ScanResult{}}
	for _, item := range items {
		res, err := c.ScanContent(item.Content, types.InlineProvenance{Source: item.Source})
		if err != nil {
			c.logger.Warn("skipping item", "source", item.Source, "error", err)
			continue
		}
		batch.Results = append(batch.Results, *res)
		batch.Total += len(res.Matches)
	}
	return batch, nil
}

// Store returns the attached store, or nil.
func (c *Core) Store() store.Store { return c.store }

// Close releases the attached store.
func (c *Core) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
