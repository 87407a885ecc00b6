// Package enum discovers the documents to scan.
package enum

import (
	"context"
	"fmt"
	"io"

	"github.com/entimark/entimark/pkg/types"
)

// Callback receives one document. Enumerators may call it from several
// goroutines at once.
type Callback func(content string, id types.DocumentID, prov types.Provenance) error

// Enumerator discovers content to scan from a source.
type Enumerator interface {
	// Enumerate yields documents from the source.
	Enumerate(ctx context.Context, callback Callback) error
}

// Config for enumeration.
type Config struct {
	// Root is the starting path for enumeration.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Extract enables text extraction from binary documents
	// (comma-separated: docx,xlsx,pdf or 'all').
	Extract string
}

// ReaderEnumerator yields a single document read from r.
type ReaderEnumerator struct {
	name string
	r    io.Reader
}

// NewReaderEnumerator creates an enumerator over r. name becomes the
// document's inline provenance, e.g. "stdin".
func NewReaderEnumerator(name string, r io.Reader) *ReaderEnumerator {
	return &ReaderEnumerator{name: name, r: r}
}

// Enumerate reads r to the end and yields its content.
func (e *ReaderEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	data, err := io.ReadAll(e.r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", e.name, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	content := string(data)
	return callback(content, types.ComputeDocumentID(content), types.InlineProvenance{Source: e.name})
}
