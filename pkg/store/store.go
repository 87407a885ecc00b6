// Package store persists scanned documents and their entity matches.
package store

import (
	"fmt"

	"github.com/entimark/entimark/pkg/types"
)

// MemoryPath selects the in-memory store.
const MemoryPath = ":memory:"

// Store provides persistence for scan results.
// Implementations are safe for concurrent use.
type Store interface {
	// AddDocument records a scanned document.
	AddDocument(id types.DocumentID, size int64) error

	// AddMatch stores a match (deduplicated by structural id).
	AddMatch(m *types.Match) error

	// AddProvenance associates provenance with a document.
	AddProvenance(id types.DocumentID, prov types.Provenance) error

	// GetMatches retrieves the matches of a document in offset order.
	GetMatches(id types.DocumentID) ([]*types.Match, error)

	// GetAllMatches retrieves all matches (for export and reports).
	GetAllMatches() ([]*types.Match, error)

	// GetProvenance retrieves every provenance recorded for a document.
	GetProvenance(id types.DocumentID) ([]types.Provenance, error)

	// DocumentExists checks if a document has already been scanned.
	DocumentExists(id types.DocumentID) (bool, error)

	// MatchExists checks if a match with this structural ID exists.
	MatchExists(structuralID string) (bool, error)

	// Close releases the backend.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for a store that lives in process memory.
	Path string
}

// New creates a Store. ":memory:" returns a MemoryStore, any other path
// opens a SQLite database.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if cfg.Path == MemoryPath {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}

// Findings groups all stored matches by entity.
func Findings(s Store) ([]*types.Finding, error) {
	matches, err := s.GetAllMatches()
	if err != nil {
		return nil, err
	}
	return types.GroupByEntity(matches), nil
}

// provenanceColumns flattens p into the columns of the provenance table.
func provenanceColumns(p types.Provenance) (kind, path, format string) {
	switch v := p.(type) {
	case types.FileProvenance:
		return v.Kind(), v.FilePath, ""
	case types.ExtractedProvenance:
		return v.Kind(), v.FilePath, v.Format
	case types.InlineProvenance:
		return v.Kind(), v.Source, ""
	default:
		return p.Kind(), p.Path(), ""
	}
}

// provenanceFromColumns is the inverse of provenanceColumns.
func provenanceFromColumns(kind, path, format string) (types.Provenance, error) {
	switch kind {
	case "file":
		return types.FileProvenance{FilePath: path}, nil
	case "extracted":
		return types.ExtractedProvenance{FilePath: path, Format: format}, nil
	case "inline":
		return types.InlineProvenance{Source: path}, nil
	default:
		return nil, fmt.Errorf("unknown provenance kind %q", kind)
	}
}
