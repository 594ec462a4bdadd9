// Package catalog provides the SQLite-backed screenshot catalog.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS screenshots (
	id          TEXT PRIMARY KEY,
	image_ref   TEXT NOT NULL DEFAULT '',
	captured_at DATETIME NOT NULL,
	category    TEXT NOT NULL DEFAULT 'Misc',
	summary     TEXT NOT NULL DEFAULT '',
	ocr_text    TEXT NOT NULL DEFAULT '',
	view_count  INTEGER NOT NULL DEFAULT 0,
	insights    TEXT NOT NULL DEFAULT '{}',
	embedding   TEXT
);

CREATE INDEX IF NOT EXISTS idx_screenshots_captured_at ON screenshots(captured_at);
`

// DB wraps a sql.DB with catalog-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
