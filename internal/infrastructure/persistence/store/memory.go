package store

import (
	"context"
	"sync"

	"github.com/brayner/brayner/internal/domain/shared"
)

// MemoryBackend keeps the document bytes in process memory.
// Used by tests and by the CLI's "memory" driver.
type MemoryBackend struct {
	mu     sync.RWMutex
	data   []byte
	writes int
	// FailWrites makes every Write return an error.
	FailWrites bool
	// FailReads makes every Read return a storage error.
	FailReads bool
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// NewMemoryBackendWith creates a MemoryBackend pre-loaded with raw bytes.
func NewMemoryBackendWith(data []byte) *MemoryBackend {
	return &MemoryBackend{data: append([]byte(nil), data...)}
}

// Read implements document.Backend.
func (m *MemoryBackend) Read(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailReads {
		return nil, shared.WrapError("store", "Read", shared.ErrStorage, "memory backend read disabled", nil)
	}
	if m.data == nil {
		return nil, shared.WrapError("store", "Read", shared.ErrNotFound, "no document stored", nil)
	}
	return append([]byte(nil), m.data...), nil
}

// Write implements document.Backend.
func (m *MemoryBackend) Write(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return shared.WrapError("store", "Write", shared.ErrStorage, "memory backend write disabled", nil)
	}
	m.data = append([]byte(nil), data...)
	m.writes++
	return nil
}

// Name implements document.Backend.
func (m *MemoryBackend) Name() string { return "memory" }

// Writes returns how many successful writes happened.
func (m *MemoryBackend) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Raw returns a copy of the stored bytes.
func (m *MemoryBackend) Raw() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.data...)
}
