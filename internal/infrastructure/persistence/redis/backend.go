// Package redis implements the Redis storage backend. The document is kept
// as a single string value under a namespaced key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brayner/brayner/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// URL is a redis:// or rediss:// URL. When set it wins over Host/Port.
	URL string

	Host     string
	Port     int
	Password string
	DB       int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// TTL expires the document after inactivity. Zero keeps it forever.
	TTL time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:        "localhost",
		Port:        6379,
		DB:          0,
		DialTimeout: 5 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) options() (*redis.Options, error) {
	if c.URL != "" {
		opts, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:        c.Addr(),
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: c.DialTimeout,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// KEYS
// ══════════════════════════════════════════════════════════════════════════════

// PrefixDocument namespaces document keys.
const PrefixDocument = "brayner:doc:"

// ErrConnection is returned when the initial ping fails.
var ErrConnection = errors.New("redis: connection failed")

// ══════════════════════════════════════════════════════════════════════════════
// BACKEND
// ══════════════════════════════════════════════════════════════════════════════

// Backend stores the document under PrefixDocument+key.
type Backend struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewBackend connects to Redis and verifies the connection.
func NewBackend(ctx context.Context, cfg Config, key string) (*Backend, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return &Backend{client: client, key: PrefixDocument + key, ttl: cfg.TTL}, nil
}

// Key returns the full Redis key.
func (b *Backend) Key() string { return b.key }

// Name implements document.Backend.
func (b *Backend) Name() string { return "redis" }

// Read implements document.Backend.
func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.WrapError("store", "Read", shared.ErrNotFound, "no document key", err)
		}
		return nil, fmt.Errorf("redis get %s: %w", b.key, err)
	}
	return data, nil
}

// Write implements document.Backend. SET replaces the value atomically.
func (b *Backend) Write(ctx context.Context, data []byte) error {
	if err := b.client.Set(ctx, b.key, data, b.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", b.key, err)
	}
	return nil
}

// Close closes the client.
func (b *Backend) Close() error {
	return b.client.Close()
}
