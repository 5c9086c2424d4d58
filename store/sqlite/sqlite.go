/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Persists the two things the engine does not compute: versions of the
  statutory rates table, and the wizard-step drafts a user stages while
  filling in a contract. Nothing computed (stats, breakdowns, floors) is ever
  stored; it is recomputed from these inputs on each request.

INTERFACES IMPLEMENTED:
  drafts.Store: wizard-step payloads (drafts.go)
  rate versions: SaveRates / ListRates / Table (rates.go)

KEY TABLES:
  rate_versions: one row per effective date, the full rates document as JSON
  drafts:        one row per (session, step), the step payload as JSON

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite allows one writer at a time.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block the
  writer.

USAGE:
  store, err := sqlite.New("./data/wage.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - drafts/store.go: Store interface
  - statute/table.go: the table built from stored versions
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every ":memory:" connection is its own database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Statutory rates, one version per effective date
	CREATE TABLE IF NOT EXISTS rate_versions (
		effective_from TEXT PRIMARY KEY,
		version TEXT NOT NULL,
		rates_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Wizard-step drafts (opaque to the engine)
	CREATE TABLE IF NOT EXISTS drafts (
		session_id TEXT NOT NULL,
		step TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (session_id, step)
	);

	-- For expiring abandoned sessions
	CREATE INDEX IF NOT EXISTS idx_drafts_updated_at
		ON drafts(updated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"drafts", "rate_versions"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
