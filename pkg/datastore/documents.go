package datastore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/entimark/entimark/pkg/types"
)

// DocumentStore keeps document contents addressed by their DocumentID.
type DocumentStore struct {
	Root string
}

// Put writes content and returns its id. Storing the same content twice is
// a no-op.
func (d *DocumentStore) Put(content string) (types.DocumentID, error) {
	id := types.ComputeDocumentID(content)

	path := d.documentPath(id)
	if _, err := os.Stat(path); err == nil {
		return id, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return types.DocumentID{}, fmt.Errorf("creating document directory: %w", err)
	}

	// write then rename so readers never see a partial document
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return types.DocumentID{}, fmt.Errorf("writing document: %w", err)
	}
	_, err = tmp.WriteString(content)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return types.DocumentID{}, fmt.Errorf("writing document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return types.DocumentID{}, fmt.Errorf("renaming document: %w", err)
	}

	return id, nil
}

// Get returns the content stored under id.
func (d *DocumentStore) Get(id types.DocumentID) (string, error) {
	content, err := os.ReadFile(d.documentPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("document not found: %s", id.Hex())
	}
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return string(content), nil
}

// Exists reports whether a document is stored.
func (d *DocumentStore) Exists(id types.DocumentID) bool {
	_, err := os.Stat(d.documentPath(id))
	return err == nil
}

// documentPath fans documents out by the first two hex digits:
// documents/ab/cdef1234...
func (d *DocumentStore) documentPath(id types.DocumentID) string {
	hexID := id.Hex()
	return filepath.Join(d.Root, hexID[:2], hexID[2:])
}
