package vault

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/internal/infrastructure/persistence/store"
	"github.com/brayner/brayner/pkg/timeutil"
)

func newService() (*Service, *timeutil.FixedClock) {
	clock := timeutil.NewFixedClock(time.Date(2025, 2, 10, 8, 0, 0, 0, timeutil.DhakaTZ))
	return NewService(store.New(store.NewMemoryBackend(), nil), clock, nil), clock
}

func TestSaveNote_NewestFirst(t *testing.T) {
	s, clock := newService()
	ctx := context.Background()

	first, err := s.SaveNote(ctx, "Vectors", "dot product")
	require.NoError(t, err)
	clock.AddDays(1)
	second, err := s.SaveNote(ctx, "Optics", "")
	require.NoError(t, err)

	notes := s.Notes(ctx)
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)
	assert.Equal(t, first.ID, notes[1].ID)
	assert.Equal(t, "2025-02-10T02:00:00Z", first.CreatedAt)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSaveNote_Empty(t *testing.T) {
	s, _ := newService()
	_, err := s.SaveNote(context.Background(), "  ", "")
	assert.ErrorIs(t, err, shared.ErrEmptyNote)
}

func TestDeleteNote(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	n, err := s.SaveNote(ctx, "a", "b")
	require.NoError(t, err)

	require.NoError(t, s.DeleteNote(ctx, n.ID))
	assert.Empty(t, s.Notes(ctx))

	err = s.DeleteNote(ctx, n.ID)
	assert.ErrorIs(t, err, shared.ErrNoteNotFound)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestResources(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	r1, err := s.AddResource(ctx, "Khan Academy", "https://www.khanacademy.org")
	require.NoError(t, err)
	r2, err := s.AddResource(ctx, "10 Minute School", "https://10minuteschool.com")
	require.NoError(t, err)

	res := s.Resources(ctx)
	require.Len(t, res, 2)
	assert.Equal(t, r1.ID, res[0].ID)

	require.NoError(t, s.RemoveResource(ctx, r1.ID))
	res = s.Resources(ctx)
	require.Len(t, res, 1)
	assert.Equal(t, r2.ID, res[0].ID)

	assert.ErrorIs(t, s.RemoveResource(ctx, "missing"), shared.ErrResourceNotFound)
}

func TestAddResource_Invalid(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	_, err := s.AddResource(ctx, "", "https://example.com")
	assert.ErrorIs(t, err, shared.ErrInvalidResource)

	_, err = s.AddResource(ctx, "notes", "not a link")
	assert.ErrorIs(t, err, shared.ErrInvalidResource)
	assert.Empty(t, s.Resources(ctx))
}
