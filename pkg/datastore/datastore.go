// Package datastore is a directory holding a scan database and, optionally,
// copies of the scanned documents.
package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/entimark/entimark/pkg/store"
)

// Names of the entries inside a datastore directory.
const (
	DatabaseFile = "datastore.db"
	DocumentsDir = "documents"
)

// Datastore manages a datastore directory.
type Datastore struct {
	Path      string         // directory path, e.g. "entimark.ds"
	Store     store.Store    // match database
	Documents *DocumentStore // nil unless Options.StoreDocuments
}

// Options configures datastore behavior.
type Options struct {
	StoreDocuments bool // keep a copy of every scanned document
}

// DatabasePath returns the database path for dir.
func DatabasePath(dir string) string {
	return filepath.Join(dir, DatabaseFile)
}

// OpenDocuments returns the document store of the datastore at dir without
// opening its database.
func OpenDocuments(dir string) *DocumentStore {
	return &DocumentStore{Root: filepath.Join(dir, DocumentsDir)}
}

// Open opens or creates a datastore directory.
func Open(path string, opts Options) (*Datastore, error) {
	if path == "" {
		return nil, fmt.Errorf("datastore path is required")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating datastore directory: %w", err)
	}
	if opts.StoreDocuments {
		if err := os.MkdirAll(filepath.Join(path, DocumentsDir), 0755); err != nil {
			return nil, fmt.Errorf("creating documents directory: %w", err)
		}
	}

	// keep datastores out of version control
	if err := os.WriteFile(filepath.Join(path, ".gitignore"), []byte("*\n"), 0644); err != nil {
		return nil, fmt.Errorf("writing .gitignore: %w", err)
	}

	s, err := store.New(store.Config{Path: DatabasePath(path)})
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	ds := &Datastore{Path: path, Store: s}
	if opts.StoreDocuments {
		ds.Documents = OpenDocuments(path)
	}
	return ds, nil
}

// Close closes the datastore and releases resources.
func (d *Datastore) Close() error {
	if d.Store != nil {
		return d.Store.Close()
	}
	return nil
}
