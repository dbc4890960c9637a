package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is a persistent Store backed by SQLite. Counters survive
// process restarts as long as the database file does.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path and
// initialises the schema. Use ":memory:" for an in-memory SQLite database.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("hitcount/store: open sqlite: %w", err)
	}

	// One connection keeps ":memory:" databases coherent across the pool
	// and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS hits (
			key   TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 0
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("hitcount/store: create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Increment atomically adds one to the counter for key and returns the new
// count. The upsert is a single statement, so SQLite's writer serialisation
// makes it atomic; there is no read-modify-write window.
func (s *SQLiteStore) Increment(ctx context.Context, key string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO hits (key, count) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET count = count + 1
		RETURNING count
	`, key).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("hitcount/store: increment: %w", err)
	}
	return count, nil
}

// Get returns the current counter value for key, or 0 if it was never incremented.
func (s *SQLiteStore) Get(ctx context.Context, key string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM hits WHERE key = ?`, key,
	).Scan(&count)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("hitcount/store: get: %w", err)
	}

	return count, nil
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying SQLite database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
