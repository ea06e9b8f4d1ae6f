package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brayner/brayner/internal/domain/shared"
)

func TestBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	b, err := NewBackend(ctx, Config{URL: "redis://" + mr.Addr()}, "brayner_state_v2")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	assert.Equal(t, "brayner:doc:brayner_state_v2", b.Key())

	_, err = b.Read(ctx)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, b.Write(ctx, []byte(`{"stats":{"xp":3}}`)))
	data, err := b.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"stats":{"xp":3}}`, string(data))

	raw, err := mr.Get(b.Key())
	require.NoError(t, err)
	assert.JSONEq(t, `{"stats":{"xp":3}}`, raw)
}

func TestBackend_TTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.URL = "redis://" + mr.Addr()
	cfg.TTL = time.Hour
	b, err := NewBackend(ctx, cfg, "k")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.NoError(t, b.Write(ctx, []byte("{}")))
	assert.Equal(t, time.Hour, mr.TTL(b.Key()))

	mr.FastForward(2 * time.Hour)
	_, err = b.Read(ctx)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestNewBackend_ConnectionFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewBackend(context.Background(), Config{URL: "redis://" + addr, DialTimeout: 200 * time.Millisecond}, "k")
	assert.ErrorIs(t, err, ErrConnection)
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", DefaultConfig().Addr())
}
