// Package file stores the document as a JSON file on local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/brayner/brayner/internal/domain/shared"
)

// Backend writes <dir>/<key>.json with temp-file-and-rename, so a crash
// mid-write leaves the previous version intact.
type Backend struct {
	path string
}

// New creates a Backend rooted at dir. The directory is created if missing.
func New(dir, key string) (*Backend, error) {
	if key == "" {
		return nil, fmt.Errorf("file backend: empty storage key")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file backend: create dir %s: %w", dir, err)
	}
	return &Backend{path: filepath.Join(dir, key+".json")}, nil
}

// Path returns the document file path.
func (b *Backend) Path() string { return b.path }

// Name implements document.Backend.
func (b *Backend) Name() string { return "file" }

// Read implements document.Backend.
func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, shared.WrapError("store", "Read", shared.ErrNotFound, "document file missing", err)
		}
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}
	return data, nil
}

// Write implements document.Backend.
func (b *Backend) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".brayner-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
