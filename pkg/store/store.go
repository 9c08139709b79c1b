// Package store persists dataset points and cluster-run summaries to a
// SQLite database, following the teacher's migration-tracked database
// package (see database.go in the AICrawler example this is grounded on).
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection holding persisted dataset state.
type DB struct {
	conn *sql.DB
	path string
}

// Open creates or opens a SQLite database at path, applying the
// journal-mode and synchronous pragmas the configuration requests and
// bringing the schema up to date.
func Open(path string, enableWAL, syncWrites bool) (*DB, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create data directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	journalMode := "DELETE"
	if enableWAL {
		journalMode = "WAL"
	}
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA journal_mode=%s", journalMode)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: set journal mode: %w", err)
	}

	synchronous := "NORMAL"
	if syncWrites {
		synchronous = "FULL"
	}
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA synchronous=%s", synchronous)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: set synchronous mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: migrate schema: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}
