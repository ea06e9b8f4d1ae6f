package gemini

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER - Token Bucket implementation
// ══════════════════════════════════════════════════════════════════════════════

// ErrRateLimitWaitTimeout is returned when no token frees up in time.
var ErrRateLimitWaitTimeout = errors.New("timeout waiting for rate limit")

// RateLimiter keeps request volume under the model's per-minute quota.
type RateLimiter struct {
	mu sync.Mutex

	maxTokens   float64
	refillRate  float64 // tokens per second
	tokens      float64
	lastRefill  time.Time
	waitTimeout time.Duration
	now         func() time.Time
}

// RateLimiterConfig contains configuration for the rate limiter.
type RateLimiterConfig struct {
	// RequestsPerMinute is the sustained request rate.
	RequestsPerMinute float64

	// BurstSize is the maximum number of back-to-back requests.
	BurstSize int

	// WaitTimeout is the maximum time Allow blocks for a token.
	WaitTimeout time.Duration
}

// DefaultRateLimiterConfig returns limits that fit the free API tier.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerMinute: 15,
		BurstSize:         3,
		WaitTimeout:       10 * time.Second,
	}
}

// NewRateLimiter creates a RateLimiter with a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.BurstSize <= 0 {
		config.BurstSize = 1
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultRateLimiterConfig().RequestsPerMinute
	}
	rl := &RateLimiter{
		maxTokens:   float64(config.BurstSize),
		refillRate:  config.RequestsPerMinute / 60,
		tokens:      float64(config.BurstSize),
		waitTimeout: config.WaitTimeout,
		now:         time.Now,
	}
	rl.lastRefill = rl.now()
	return rl
}

// Allow blocks until a token is available, the wait timeout passes or ctx
// ends.
func (rl *RateLimiter) Allow(ctx context.Context) error {
	deadline := rl.now().Add(rl.waitTimeout)
	for {
		wait, ok := rl.tryAcquire()
		if ok {
			return nil
		}
		if rl.now().Add(wait).After(deadline) {
			return ErrRateLimitWaitTimeout
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAcquire returns how long to wait when no token is available.
func (rl *RateLimiter) tryAcquire() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillTokens()
	if rl.tokens >= 1 {
		rl.tokens--
		return 0, true
	}
	needed := 1 - rl.tokens
	return time.Duration(needed / rl.refillRate * float64(time.Second)), false
}

// refillTokens must be called with mu held.
func (rl *RateLimiter) refillTokens() {
	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now
}

// RecordRateLimitHit empties the bucket after the API answered 429.
func (rl *RateLimiter) RecordRateLimitHit() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = 0
	rl.lastRefill = rl.now()
}
