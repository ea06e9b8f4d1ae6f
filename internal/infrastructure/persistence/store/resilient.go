package store

import (
	"context"
	"errors"
	"time"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/circuitbreaker"
	"github.com/brayner/brayner/pkg/logger"
	"github.com/brayner/brayner/pkg/retry"
)

// ResilientBackend retries transient failures of a network backend and
// stops calling it for a while once it keeps failing. A missing document is
// a normal answer: it is neither retried nor counted against the breaker.
type ResilientBackend struct {
	next    document.Backend
	retrier *retry.Retrier
	breaker *circuitbreaker.CircuitBreaker
}

// NewResilientBackend wraps next with the storage retry and breaker presets.
func NewResilientBackend(next document.Backend, log *logger.Logger) *ResilientBackend {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With(logger.Component("store"), logger.Backend(next.Name()))

	return &ResilientBackend{
		next: next,
		retrier: retry.StorageRetrier(retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Debug("retrying backend call",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err),
			)
		})),
		breaker: circuitbreaker.StorageBreaker(next.Name(), func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}, circuitbreaker.WithIsFailure(func(err error) bool {
			// an empty store is not an outage
			return !errors.Is(err, shared.ErrNotFound)
		})),
	}
}

// Name implements document.Backend.
func (b *ResilientBackend) Name() string { return b.next.Name() }

// Read implements document.Backend.
func (b *ResilientBackend) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := b.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		data, err = retry.DoWithData(ctx, b.retrier, func(ctx context.Context) ([]byte, error) {
			d, err := b.next.Read(ctx)
			return d, classify(err)
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write implements document.Backend.
func (b *ResilientBackend) Write(ctx context.Context, data []byte) error {
	return b.breaker.Execute(ctx, func(ctx context.Context) error {
		return b.retrier.Do(ctx, func(ctx context.Context) error {
			return classify(b.next.Write(ctx, data))
		})
	})
}

// BreakerState reports the circuit breaker position.
func (b *ResilientBackend) BreakerState() circuitbreaker.State {
	return b.breaker.State()
}

// classify marks backend errors for the retrier. Cancellation passes
// through unmarked and a missing document is never retried.
func classify(err error) error {
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, shared.ErrNotFound):
		return retry.Permanent(err)
	}
	return retry.Retryable(err)
}

var _ document.Backend = (*ResilientBackend)(nil)
