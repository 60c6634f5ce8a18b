// Package history provides a SQLite-backed index of past evaluation runs.
// Report JSON files remain the canonical artifact; this store only keeps the
// headline numbers so trends can be queried without re-reading every report.
package history

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	run_id                 TEXT PRIMARY KEY,
	created_at             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	best_strategy          TEXT NOT NULL DEFAULT '',
	f1                     REAL NOT NULL DEFAULT 0,
	consolidation_accuracy REAL NOT NULL DEFAULT 0,
	tag_reuse_rate         REAL NOT NULL DEFAULT 0,
	mean_nvq               REAL NOT NULL DEFAULT 0,
	passing_rate           REAL NOT NULL DEFAULT 0,
	passed                 INTEGER NOT NULL DEFAULT 0,
	input_checksum         TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Store defines run-history operations. Consumers should depend on this
// interface rather than the concrete *DB type to facilitate testing.
type Store interface {
	Insert(run RunRow) error
	Recent(limit int) ([]RunRow, error)
	Get(runID string) (*RunRow, error)
	Trends() ([]StrategyTrend, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// DB wraps a sql.DB with history operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the history database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
