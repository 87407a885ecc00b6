package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/entimark/entimark/pkg/types"
	_ "modernc.org/sqlite"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

const matchColumns = `document_id, structural_id, entity_ids, key,
	offset_start, offset_end, start_line, start_column, end_line, end_column,
	snippet_before, snippet_matching, snippet_after`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store at path, creating the schema when
// the database is new.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddDocument records a scanned document.
func (s *SQLiteStore) AddDocument(id types.DocumentID, size int64) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO documents (id, size) VALUES (?, ?)", id.Hex(), size)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// AddMatch stores a match record.
func (s *SQLiteStore) AddMatch(m *types.Match) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO matches (`+matchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.DocumentID.Hex(),
		m.StructuralID,
		m.JoinedIDs(),
		m.Key,
		m.Location.Offset.Start,
		m.Location.Offset.End,
		m.Location.Source.Start.Line,
		m.Location.Source.Start.Column,
		m.Location.Source.End.Line,
		m.Location.Source.End.Column,
		m.Snippet.Before,
		m.Snippet.Matching,
		m.Snippet.After,
	)
	if err != nil {
		return fmt.Errorf("inserting match: %w", err)
	}
	return nil
}

// AddProvenance associates provenance with a document.
func (s *SQLiteStore) AddProvenance(id types.DocumentID, prov types.Provenance) error {
	kind, path, format := provenanceColumns(prov)
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO provenance (document_id, kind, path, format)
		VALUES (?, ?, ?, ?)
	`, id.Hex(), kind, path, format)
	if err != nil {
		return fmt.Errorf("inserting provenance: %w", err)
	}
	return nil
}

// GetMatches retrieves the matches of a document in offset order.
func (s *SQLiteStore) GetMatches(id types.DocumentID) ([]*types.Match, error) {
	rows, err := s.db.Query(`
		SELECT `+matchColumns+`
		FROM matches
		WHERE document_id = ?
		ORDER BY offset_start, offset_end
	`, id.Hex())
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	return scanMatches(rows)
}

// GetAllMatches retrieves all matches ordered by document and offset.
func (s *SQLiteStore) GetAllMatches() ([]*types.Match, error) {
	rows, err := s.db.Query(`
		SELECT ` + matchColumns + `
		FROM matches
		ORDER BY document_id, offset_start, offset_end
	`)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	return scanMatches(rows)
}

// GetProvenance retrieves every provenance recorded for a document.
func (s *SQLiteStore) GetProvenance(id types.DocumentID) ([]types.Provenance, error) {
	rows, err := s.db.Query(`
		SELECT kind, path, format FROM provenance
		WHERE document_id = ?
		ORDER BY rowid
	`, id.Hex())
	if err != nil {
		return nil, fmt.Errorf("querying provenance: %w", err)
	}
	defer rows.Close()

	provs := []types.Provenance{}
	for rows.Next() {
		var kind, path, format string
		if err := rows.Scan(&kind, &path, &format); err != nil {
			return nil, fmt.Errorf("scanning provenance: %w", err)
		}
		p, err := provenanceFromColumns(kind, path, format)
		if err != nil {
			return nil, err
		}
		provs = append(provs, p)
	}
	return provs, rows.Err()
}

// DocumentExists checks if a document has already been scanned.
func (s *SQLiteStore) DocumentExists(id types.DocumentID) (bool, error) {
	return s.exists("SELECT COUNT(*) FROM documents WHERE id = ?", id.Hex())
}

// MatchExists checks if a match with this structural ID exists.
func (s *SQLiteStore) MatchExists(structuralID string) (bool, error) {
	return s.exists("SELECT COUNT(*) FROM matches WHERE structural_id = ?", structuralID)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) exists(query string, arg any) (bool, error) {
	var count int
	if err := s.db.QueryRow(query, arg).Scan(&count); err != nil {
		return false, fmt.Errorf("checking existence: %w", err)
	}
	return count > 0, nil
}

func scanMatches(rows *sql.Rows) ([]*types.Match, error) {
	defer rows.Close()

	matches := []*types.Match{}
	for rows.Next() {
		var (
			m   types.Match
			ids string
		)
		err := rows.Scan(
			&m.DocumentID,
			&m.StructuralID,
			&ids,
			&m.Key,
			&m.Location.Offset.Start,
			&m.Location.Offset.End,
			&m.Location.Source.Start.Line,
			&m.Location.Source.Start.Column,
			&m.Location.Source.End.Line,
			&m.Location.Source.End.Column,
			&m.Snippet.Before,
			&m.Snippet.Matching,
			&m.Snippet.After,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		m.EntityIDs = strings.Split(ids, "\t")
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}
