package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// CreateSchema creates the database schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	if err := createDocumentsTable(db); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}

	if err := createMatchesTable(db); err != nil {
		return fmt.Errorf("creating matches table: %w", err)
	}

	if err := createProvenanceTable(db); err != nil {
		return fmt.Errorf("creating provenance table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}

	var version int
	if err := db.QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		return err
	}
	if version != SchemaVersion {
		return fmt.Errorf("unsupported schema version %d (want %d)", version, SchemaVersion)
	}
	return nil
}

func createDocumentsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			size INTEGER NOT NULL
		)
	`)
	return err
}

func createMatchesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS matches (
			structural_id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id),
			entity_ids TEXT NOT NULL,
			key TEXT NOT NULL,
			offset_start INTEGER NOT NULL,
			offset_end INTEGER NOT NULL,
			start_line INTEGER NOT NULL DEFAULT 0,
			start_column INTEGER NOT NULL DEFAULT 0,
			end_line INTEGER NOT NULL DEFAULT 0,
			end_column INTEGER NOT NULL DEFAULT 0,
			snippet_before TEXT NOT NULL DEFAULT '',
			snippet_matching TEXT NOT NULL,
			snippet_after TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS matches_document_idx ON matches (document_id, offset_start)`)
	return err
}

func createProvenanceTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS provenance (
			document_id TEXT NOT NULL REFERENCES documents(id),
			kind TEXT NOT NULL,
			path TEXT NOT NULL,
			format TEXT NOT NULL DEFAULT '',
			UNIQUE (document_id, kind, path, format)
		)
	`)
	return err
}
