package postgres

import (
	"context"
	"fmt"

	"github.com/brayner/brayner/internal/domain/shared"
)

// DocumentBackend stores the document as JSONB under one storage key.
type DocumentBackend struct {
	conn *Connection
	key  string
}

// NewDocumentBackend creates a backend over an open connection.
func NewDocumentBackend(conn *Connection, key string) *DocumentBackend {
	return &DocumentBackend{conn: conn, key: key}
}

// Name implements document.Backend.
func (b *DocumentBackend) Name() string { return "postgres" }

// Read implements document.Backend.
func (b *DocumentBackend) Read(ctx context.Context) ([]byte, error) {
	if b.conn.IsClosed() {
		return nil, ErrConnectionClosed
	}

	var body []byte
	err := b.conn.Pool().QueryRow(ctx,
		`SELECT body FROM documents WHERE storage_key = $1`, b.key).Scan(&body)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.WrapError("store", "Read", shared.ErrNotFound, "no document row", err)
		}
		return nil, fmt.Errorf("select document: %w", err)
	}
	return body, nil
}

// Write implements document.Backend. A single upsert statement is atomic.
func (b *DocumentBackend) Write(ctx context.Context, data []byte) error {
	if b.conn.IsClosed() {
		return ErrConnectionClosed
	}

	_, err := b.conn.Pool().Exec(ctx, `
		INSERT INTO documents (storage_key, body) VALUES ($1, $2::jsonb)
		ON CONFLICT (storage_key) DO UPDATE SET body = EXCLUDED.body`,
		b.key, string(data))
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}
