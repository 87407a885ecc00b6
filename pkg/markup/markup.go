// Package markup is a plain-text document that records tagged spans and
// renders them as inline XML elements.
package markup

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Default element and attribute names.
const (
	DefaultElement   = "fn:match"
	DefaultAttribute = "id"
)

var (
	// ErrOutOfRange is returned for spans outside the content.
	ErrOutOfRange = errors.New("span out of range")

	// ErrOverlap is returned for a span that crosses an inserted one.
	ErrOverlap = errors.New("span overlaps an existing span")
)

// Span is one inserted element.
type Span struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	IDs       string `json:"ids"` // tab-separated entity ids
	Balancing string `json:"balancing,omitempty"`
}

// Document holds text content and the spans inserted into it. Spans are
// kept in content order and never overlap.
type Document struct {
	content   string
	spans     []Span
	element   string
	attribute string
}

// Option configures a Document.
type Option func(*Document)

// WithElement sets the element name used when rendering. Default: "fn:match".
func WithElement(name string) Option {
	return func(d *Document) { d.element = name }
}

// WithAttribute sets the attribute that carries the ids. Default: "id".
func WithAttribute(name string) Option {
	return func(d *Document) { d.attribute = name }
}

// New creates a document over content.
func New(content string, opts ...Option) *Document {
	d := &Document{
		content:   content,
		element:   DefaultElement,
		attribute: DefaultAttribute,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Content returns the original text.
func (d *Document) Content() string {
	return d.content
}

// InsertMarkup records an element around content[start:end]. The balancing
// policy is stored with the span and otherwise ignored.
func (d *Document) InsertMarkup(start, end int, ids, balancing string) error {
	if start < 0 || end > len(d.content) || start > end {
		return fmt.Errorf("%w: [%d,%d) in %d bytes", ErrOutOfRange, start, end, len(d.content))
	}
	i, _ := slices.BinarySearchFunc(d.spans, start, func(s Span, start int) int {
		return s.Start - start
	})
	if i > 0 && d.spans[i-1].End > start {
		return fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrOverlap, start, end, d.spans[i-1].Start, d.spans[i-1].End)
	}
	if i < len(d.spans) && d.spans[i].Start < end {
		return fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrOverlap, start, end, d.spans[i].Start, d.spans[i].End)
	}
	d.spans = slices.Insert(d.spans, i, Span{Start: start, End: end, IDs: ids, Balancing: balancing})
	return nil
}

// Spans returns the inserted spans in content order.
func (d *Document) Spans() []Span {
	return slices.Clone(d.spans)
}

// Render returns the content as escaped XML text with an element around
// every span.
func (d *Document) Render() string {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.String()
}

// WriteTo writes the rendered document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	pos := 0
	for _, s := range d.spans {
		textEscaper.WriteString(cw, d.content[pos:s.Start])
		fmt.Fprintf(cw, "<%s %s=\"", d.element, d.attribute)
		_ = xml.EscapeText(cw, []byte(s.IDs))
		io.WriteString(cw, "\">")
		textEscaper.WriteString(cw, d.content[s.Start:s.End])
		fmt.Fprintf(cw, "</%s>", d.element)
		pos = s.End
	}
	textEscaper.WriteString(cw, d.content[pos:])
	return cw.n, cw.err
}

// Highlight returns the unescaped content with every span replaced by
// fn(text, ids).
func (d *Document) Highlight(fn func(text, ids string) string) string {
	var sb strings.Builder
	pos := 0
	for _, s := range d.spans {
		sb.WriteString(d.content[pos:s.Start])
		sb.WriteString(fn(d.content[s.Start:s.End], s.IDs))
		pos = s.End
	}
	sb.WriteString(d.content[pos:])
	return sb.String()
}

// textEscaper escapes character data and keeps line breaks.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
