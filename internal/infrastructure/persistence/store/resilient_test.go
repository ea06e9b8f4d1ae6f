package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/circuitbreaker"
	"github.com/brayner/brayner/pkg/logger"
	"github.com/brayner/brayner/pkg/retry"
)

// flakyBackend fails the first failures calls of each kind.
type flakyBackend struct {
	*MemoryBackend
	failures int
	reads    int
	writes   int
}

var errFlaky = errors.New("connection reset by peer")

func (f *flakyBackend) Read(ctx context.Context) ([]byte, error) {
	f.reads++
	if f.reads <= f.failures {
		return nil, errFlaky
	}
	return f.MemoryBackend.Read(ctx)
}

func (f *flakyBackend) Write(ctx context.Context, data []byte) error {
	f.writes++
	if f.writes <= f.failures {
		return errFlaky
	}
	return f.MemoryBackend.Write(ctx, data)
}

func newResilient(next *flakyBackend) *ResilientBackend {
	b := NewResilientBackend(next, nil)
	b.retrier = retry.New(retry.WithMaxAttempts(3), retry.WithInitialDelay(0), retry.WithJitter(0))
	return b
}

func TestResilientBackend_RetriesTransientErrors(t *testing.T) {
	ctx := context.Background()
	next := &flakyBackend{MemoryBackend: NewMemoryBackend(), failures: 2}
	b := newResilient(next)

	require.NoError(t, b.Write(ctx, []byte(`{"stats":{"xp":7}}`)))
	assert.Equal(t, 3, next.writes)

	data, err := b.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"stats":{"xp":7}}`, string(data))
	assert.Equal(t, "memory", b.Name())
}

func TestResilientBackend_NotFoundIsNotRetried(t *testing.T) {
	next := &flakyBackend{MemoryBackend: NewMemoryBackend()}
	b := newResilient(next)

	for i := 0; i < 10; i++ {
		_, err := b.Read(context.Background())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	}
	assert.Equal(t, 10, next.reads)
	assert.Equal(t, circuitbreaker.StateClosed, b.BreakerState())
}

func TestResilientBackend_LogsRetries(t *testing.T) {
	var buf bytes.Buffer
	opts := logger.DefaultOptions()
	opts.Output = &buf
	opts.Level = logger.LevelDebug

	next := &flakyBackend{MemoryBackend: NewMemoryBackend(), failures: 1}
	b := NewResilientBackend(next, logger.New(opts))

	require.NoError(t, b.Write(context.Background(), []byte("{}")))
	assert.Equal(t, 2, next.writes)
	assert.Contains(t, buf.String(), "retrying backend call")
	assert.Contains(t, buf.String(), errFlaky.Error())
}

func TestResilientBackend_OpensBreaker(t *testing.T) {
	ctx := context.Background()
	next := &flakyBackend{MemoryBackend: NewMemoryBackend(), failures: 1000}
	b := newResilient(next)

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, b.Write(ctx, []byte("{}")), errFlaky)
	}
	assert.Equal(t, circuitbreaker.StateOpen, b.BreakerState())

	calls := next.writes
	err := b.Write(ctx, []byte("{}"))
	assert.True(t, circuitbreaker.IsRejection(err))
	assert.Equal(t, calls, next.writes)
}

func TestResilientBackend_StoreFallsBackToDefaults(t *testing.T) {
	next := &flakyBackend{MemoryBackend: NewMemoryBackendWith([]byte(`{"stats":{"xp":9}}`)), failures: 100}
	s := New(newResilient(next), nil)

	assert.Equal(t, 0, s.Load(context.Background()).Stats.XP)
}
