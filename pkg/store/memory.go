package store

import (
	"cmp"
	"slices"
	"sync"

	"github.com/entimark/entimark/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
// Used for ":memory:" paths, the serve protocol and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	documents  map[types.DocumentID]int64
	matches    []*types.Match
	seen       map[string]struct{} // structural ids in matches
	provenance map[types.DocumentID][]types.Provenance
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		documents:  make(map[types.DocumentID]int64),
		seen:       make(map[string]struct{}),
		provenance: make(map[types.DocumentID][]types.Provenance),
	}
}

// AddDocument records a scanned document.
func (m *MemoryStore) AddDocument(id types.DocumentID, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[id]; !exists {
		m.documents[id] = size
	}
	return nil
}

// AddMatch stores a match record. A match whose structural id is already
// stored is ignored.
func (m *MemoryStore) AddMatch(match *types.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if match.StructuralID != "" {
		if _, exists := m.seen[match.StructuralID]; exists {
			return nil
		}
		m.seen[match.StructuralID] = struct{}{}
	}
	m.matches = append(m.matches, match)
	return nil
}

// AddProvenance associates provenance with a document.
func (m *MemoryStore) AddProvenance(id types.DocumentID, prov types.Provenance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// provenance types are comparable value structs
	if slices.Contains(m.provenance[id], prov) {
		return nil
	}
	m.provenance[id] = append(m.provenance[id], prov)
	return nil
}

// GetMatches retrieves the matches of a document.
func (m *MemoryStore) GetMatches(id types.DocumentID) ([]*types.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*types.Match{}
	for _, match := range m.matches {
		if match.DocumentID == id {
			result = append(result, match)
		}
	}
	slices.SortStableFunc(result, func(a, b *types.Match) int {
		return cmp.Compare(a.Location.Offset.Start, b.Location.Offset.Start)
	})
	return result, nil
}

// GetAllMatches retrieves all matches in insertion order.
func (m *MemoryStore) GetAllMatches() ([]*types.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.matches), nil
}

// GetProvenance retrieves all provenance records for a document.
func (m *MemoryStore) GetProvenance(id types.DocumentID) ([]types.Provenance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	provs := m.provenance[id]
	if provs == nil {
		return []types.Provenance{}, nil
	}
	return slices.Clone(provs), nil
}

// DocumentExists checks if a document has already been scanned.
func (m *MemoryStore) DocumentExists(id types.DocumentID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.documents[id]
	return exists, nil
}

// MatchExists checks if a match with this structural ID exists.
func (m *MemoryStore) MatchExists(structuralID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.seen[structuralID]
	return exists, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
