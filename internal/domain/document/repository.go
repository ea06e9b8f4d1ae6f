package document

import "context"

// Backend persists the raw document bytes under one storage key.
// This interface is implemented by the infrastructure layer.
type Backend interface {
	// Read returns the stored bytes, or an error matching shared.ErrNotFound
	// when nothing has been written yet.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored bytes. Readers never observe a partial write.
	Write(ctx context.Context, data []byte) error

	// Name identifies the backend in logs.
	Name() string
}

// Repository is the document-level contract the engine depends on.
type Repository interface {
	Load(ctx context.Context) *Document
	Save(ctx context.Context, doc *Document)

	// Update and Reset write nothing and return an error when the current
	// document cannot be read. Absent or corrupt data is not an error.
	Update(ctx context.Context, p Partial) (*Document, error)
	Reset(ctx context.Context) (*Document, error)

	// Mutate runs fn on a freshly loaded document under the store lock and
	// applies the partial it returns. An error from fn, or an unreadable
	// document, aborts without saving.
	Mutate(ctx context.Context, fn func(d *Document) (Partial, error)) (*Document, error)
}
