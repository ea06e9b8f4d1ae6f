// Package sqlite stores the document in an embedded SQLite database
// (pure-Go modernc.org/sqlite driver, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/brayner/brayner/internal/domain/shared"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	storage_key TEXT PRIMARY KEY,
	body        TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
`

// Backend keeps one row per storage key in the documents table.
type Backend struct {
	db  *sql.DB
	key string
}

// Open opens or creates the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path, key string) (*Backend, error) {
	if key == "" {
		return nil, fmt.Errorf("sqlite backend: empty storage key")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite backend: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Backend{db: db, key: key}, nil
}

// Name implements document.Backend.
func (b *Backend) Name() string { return "sqlite" }

// Read implements document.Backend.
func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	var body string
	err := b.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE storage_key = ?`, b.key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.WrapError("store", "Read", shared.ErrNotFound, "no document row", err)
		}
		return nil, fmt.Errorf("select document: %w", err)
	}
	return []byte(body), nil
}

// Write implements document.Backend. The upsert is a single statement,
// so readers see either the old or the new body.
func (b *Backend) Write(ctx context.Context, data []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO documents (storage_key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(storage_key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		b.key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}
