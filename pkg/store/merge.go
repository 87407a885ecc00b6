package store

import (
	"database/sql"
	"fmt"
	"os"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the database files to merge from.
	SourcePaths []string
	// DestPath is the destination database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	DocumentsMerged  int `json:"documents_merged"`
	MatchesMerged    int `json:"matches_merged"`
	ProvenanceMerged int `json:"provenance_merged"`
	SourcesProcessed int `json:"sources_processed"`
}

// Merge combines several scan databases into one. Rows already present in
// the destination are skipped.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	dest, err := NewSQLite(cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer dest.Close()

	stats := &MergeStats{}
	for _, sourcePath := range cfg.SourcePaths {
		sourceStats, err := mergeFrom(dest.db, sourcePath)
		if err != nil {
			return stats, fmt.Errorf("merging from %s: %w", sourcePath, err)
		}
		stats.DocumentsMerged += sourceStats.DocumentsMerged
		stats.MatchesMerged += sourceStats.MatchesMerged
		stats.ProvenanceMerged += sourceStats.ProvenanceMerged
		stats.SourcesProcessed++
	}

	return stats, nil
}

// mergeFrom copies every table of the database at sourcePath into destDB
// within one transaction.
func mergeFrom(destDB *sql.DB, sourcePath string) (*MergeStats, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, fmt.Errorf("source database not found: %w", err)
	}
	source, err := NewSQLite(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source database: %w", err)
	}
	defer source.Close()

	tx, err := destDB.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stats := &MergeStats{}

	stats.DocumentsMerged, err = copyRows(tx, source.db,
		"SELECT id, size FROM documents",
		"INSERT OR IGNORE INTO documents (id, size) VALUES (?, ?)", 2)
	if err != nil {
		return nil, fmt.Errorf("merging documents: %w", err)
	}

	stats.MatchesMerged, err = copyRows(tx, source.db,
		"SELECT "+matchColumns+" FROM matches",
		"INSERT OR IGNORE INTO matches ("+matchColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", 13)
	if err != nil {
		return nil, fmt.Errorf("merging matches: %w", err)
	}

	stats.ProvenanceMerged, err = copyRows(tx, source.db,
		"SELECT document_id, kind, path, format FROM provenance",
		"INSERT OR IGNORE INTO provenance (document_id, kind, path, format) VALUES (?, ?, ?, ?)", 4)
	if err != nil {
		return nil, fmt.Errorf("merging provenance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return stats, nil
}

// copyRows runs query on sourceDB and feeds each row of width columns to
// insert. It returns the number of rows actually inserted.
func copyRows(tx *sql.Tx, sourceDB *sql.DB, query, insert string, width int) (int, error) {
	rows, err := sourceDB.Query(query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	stmt, err := tx.Prepare(insert)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	values := make([]any, width)
	ptrs := make([]any, width)
	for i := range values {
		ptrs[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return count, err
		}
		result, err := stmt.Exec(values...)
		if err != nil {
			return count, err
		}
		if affected, _ := result.RowsAffected(); affected > 0 {
			count++
		}
	}
	return count, rows.Err()
}
