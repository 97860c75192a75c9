// Package db caches downloaded EDINET archives and their extraction
// results in SQLite, keyed by document ID.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"edinet-facts/pkg/xbrl"
)

// DB wraps a SQLite database connection for filing data storage.
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes tables.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) createTables() error {
	filingsSQL := `
		CREATE TABLE IF NOT EXISTS filings (
			doc_id TEXT PRIMARY KEY,
			filer_name TEXT NOT NULL DEFAULT '',
			doc_description TEXT NOT NULL DEFAULT '',
			archive BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.conn.Exec(filingsSQL); err != nil {
		return fmt.Errorf("failed to create filings table: %w", err)
	}

	resultsSQL := `
		CREATE TABLE IF NOT EXISTS parse_results (
			doc_id TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.conn.Exec(resultsSQL); err != nil {
		return fmt.Errorf("failed to create parse_results table: %w", err)
	}
	return nil
}

// StoreArchive stores a downloaded XBRL archive for a document.
func (db *DB) StoreArchive(docID, filerName, docDescription string, archive []byte) error {
	query := `
		INSERT OR REPLACE INTO filings (doc_id, filer_name, doc_description, archive, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	if _, err := db.conn.Exec(query, docID, filerName, docDescription, archive); err != nil {
		return fmt.Errorf("failed to store archive: %w", err)
	}
	return nil
}

// GetArchive retrieves a stored archive and its filer name.
func (db *DB) GetArchive(docID string) (filerName string, archive []byte, err error) {
	query := "SELECT filer_name, archive FROM filings WHERE doc_id = ?"
	err = db.conn.QueryRow(query, docID).Scan(&filerName, &archive)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, fmt.Errorf("archive not found for document %s", docID)
		}
		return "", nil, fmt.Errorf("failed to query archive: %w", err)
	}
	return filerName, archive, nil
}

// HasArchive reports whether an archive is cached for the document.
func (db *DB) HasArchive(docID string) (bool, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM filings WHERE doc_id = ?", docID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query filings: %w", err)
	}
	return n > 0, nil
}

// StoreResult stores an extraction result for a document.
func (db *DB) StoreResult(docID string, result *xbrl.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	query := `
		INSERT OR REPLACE INTO parse_results (doc_id, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`
	if _, err := db.conn.Exec(query, docID, data); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return nil
}

// GetResult retrieves an extraction result for a document.
func (db *DB) GetResult(docID string) (*xbrl.Result, error) {
	var data []byte
	err := db.conn.QueryRow("SELECT data FROM parse_results WHERE doc_id = ?", docID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("result not found for document %s", docID)
		}
		return nil, fmt.Errorf("failed to query result: %w", err)
	}
	var result xbrl.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// IsResultStale checks whether the stored result for a document is older
// than maxAge. Missing results count as stale.
func (db *DB) IsResultStale(docID string, maxAge time.Duration) (bool, error) {
	var updatedAt string
	err := db.conn.QueryRow("SELECT updated_at FROM parse_results WHERE doc_id = ?", docID).Scan(&updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return true, nil
		}
		return false, fmt.Errorf("failed to query result timestamp: %w", err)
	}

	timestamp, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		// SQLite may also render CURRENT_TIMESTAMP without a zone.
		timestamp, err = time.Parse("2006-01-02 15:04:05", updatedAt)
		if err != nil {
			return false, fmt.Errorf("failed to parse timestamp: %w", err)
		}
	}
	return time.Since(timestamp) > maxAge, nil
}

// FilingInfo is one row of the cached-filings listing.
type FilingInfo struct {
	DocID          string
	FilerName      string
	DocDescription string
}

// ListFilings returns the cached filings, newest first.
func (db *DB) ListFilings() ([]FilingInfo, error) {
	query := `
		SELECT doc_id, filer_name, doc_description
		FROM filings
		ORDER BY updated_at DESC
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query filings: %w", err)
	}
	defer rows.Close()

	var filings []FilingInfo
	for rows.Next() {
		var f FilingInfo
		if err := rows.Scan(&f.DocID, &f.FilerName, &f.DocDescription); err != nil {
			return nil, fmt.Errorf("failed to scan filing row: %w", err)
		}
		filings = append(filings, f)
	}
	return filings, rows.Err()
}
