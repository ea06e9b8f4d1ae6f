// Package store implements the document State Store on top of a pluggable
// storage backend (file, SQLite, PostgreSQL, Redis or memory).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/logger"
)

// Store owns the persisted document. Every operation is load, mutate, save.
// The mutex serializes read-modify-write within this process only.
type Store struct {
	mu      sync.Mutex
	backend document.Backend
	log     *logger.Logger
}

// New creates a Store over backend.
func New(backend document.Backend, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		backend: backend,
		log:     log.With(logger.Component("store"), logger.Backend(backend.Name())),
	}
}

// Backend returns the underlying backend.
func (s *Store) Backend() document.Backend {
	return s.backend
}

// Load reads the document. Absent, corrupt or unreadable data yields the
// defaults; read-only callers never see an error.
func (s *Store) Load(ctx context.Context) *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx)
	if err != nil {
		s.log.Warn("failed to read document, using defaults", logger.Err(err))
		return document.Default()
	}
	return doc
}

// Save overwrites the whole document. Write failures are logged, not returned.
func (s *Store) Save(ctx context.Context, doc *document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx, doc)
}

// Update applies p to the current document and saves it. Nothing is written
// when the current document cannot be read.
func (s *Store) Update(ctx context.Context, p document.Partial) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, s.unreadable("Update", err)
	}
	if p.IsEmpty() {
		return doc, nil
	}
	p.Apply(doc)
	s.save(ctx, doc)
	return doc, nil
}

// Mutate loads the document, lets fn compute a partial and applies it.
func (s *Store) Mutate(ctx context.Context, fn func(d *document.Document) (document.Partial, error)) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, s.unreadable("Mutate", err)
	}
	// fn works on a copy so only the sections named in p change.
	p, err := fn(doc.Clone())
	if err != nil {
		return doc, err
	}
	if p.IsEmpty() {
		return doc, nil
	}
	p.Apply(doc)
	s.save(ctx, doc)
	return doc, nil
}

// Reset wipes everything except the registered accounts.
func (s *Store) Reset(ctx context.Context) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return nil, s.unreadable("Reset", err)
	}
	doc := document.ResetKeepingUsers(current)
	s.save(ctx, doc)
	s.log.Info("document reset", logger.Int("accounts_kept", len(doc.Users)))
	return doc, nil
}

// load returns the stored document. Not-found and corrupt data yield the
// defaults; any other read failure is returned so writers can back off.
func (s *Store) load(ctx context.Context) (*document.Document, error) {
	doc := document.Default()

	data, err := s.backend.Read(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return doc, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, doc); err != nil {
		s.log.Warn("corrupt document, using defaults", logger.Err(err))
		return document.Default(), nil
	}
	document.Normalize(doc)
	return doc, nil
}

func (s *Store) unreadable(op string, err error) error {
	s.log.Error("document unreadable, nothing written", logger.Operation(op), logger.Err(err))
	return shared.ErrDocumentUnreadable.Wrap(err)
}

func (s *Store) save(ctx context.Context, doc *document.Document) {
	start := time.Now()

	data, err := json.Marshal(doc)
	if err != nil {
		s.log.Error("failed to encode document", logger.Err(err))
		return
	}
	if err := s.backend.Write(ctx, data); err != nil {
		s.log.Error("failed to persist document", logger.Err(err))
		return
	}
	s.log.Debug("document saved", logger.Int("bytes", len(data)), logger.Latency(time.Since(start)))
}

// Ensure Store implements document.Repository.
var _ document.Repository = (*Store)(nil)
