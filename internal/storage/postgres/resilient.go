package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/pacer/internal/adaptive"
	"github.com/felixgeelhaar/pacer/internal/domain"
)

// ResilientStore wraps a Store with retry and circuit breaker patterns
// from fortify. Difficulty adjustments keep flowing from in-memory
// state while the database recovers; the breaker stops hammering a
// database that is down.
type ResilientStore struct {
	store   *Store
	writes  circuitbreaker.CircuitBreaker[struct{}]
	reads   circuitbreaker.CircuitBreaker[*domain.UserModel]
	retrier retry.Retry[struct{}]
	logger  *slog.Logger
}

// Ensure ResilientStore implements adaptive.Store
var _ adaptive.Store = (*ResilientStore)(nil)

// NewResilientStore wraps a Store with resilience patterns.
func NewResilientStore(store *Store, logger *slog.Logger) *ResilientStore {
	if logger == nil {
		logger = slog.Default()
	}

	rs := &ResilientStore{store: store, logger: logger}

	rs.writes = circuitbreaker.New[struct{}](circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			logger.Warn("postgres write breaker state change",
				"from", from.String(), "to", to.String())
		},
	})

	rs.reads = circuitbreaker.New[*domain.UserModel](circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	rs.retrier = retry.New[struct{}](retry.Config{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
	})

	return rs
}

// SaveModel persists a user model with retry and circuit breaking.
func (rs *ResilientStore) SaveModel(ctx context.Context, m *domain.UserModel) error {
	_, err := rs.writes.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		return rs.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, rs.store.SaveModel(ctx, m)
		})
	})
	return err
}

// GetModel reads a user model through the read breaker. Not-found is a
// domain condition, not a database failure, so it never trips the
// breaker.
func (rs *ResilientStore) GetModel(ctx context.Context, userID string) (*domain.UserModel, error) {
	model, err := rs.reads.Execute(ctx, func(ctx context.Context) (*domain.UserModel, error) {
		m, err := rs.store.GetModel(ctx, userID)
		if errors.Is(err, domain.ErrUserModelNotFound) {
			return nil, nil
		}
		return m, err
	})
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, domain.ErrUserModelNotFound
	}
	return model, nil
}

// SaveAdjustment persists an adjustment with retry and circuit breaking.
func (rs *ResilientStore) SaveAdjustment(ctx context.Context, adj *domain.DifficultyAdjustment) error {
	_, err := rs.writes.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		return rs.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, rs.store.SaveAdjustment(ctx, adj)
		})
	})
	return err
}

// ListAdjustments delegates directly; history reads are non-critical
// and the caller already degrades to in-memory state.
func (rs *ResilientStore) ListAdjustments(ctx context.Context, key domain.Key, limit int) ([]*domain.DifficultyAdjustment, error) {
	return rs.store.ListAdjustments(ctx, key, limit)
}
