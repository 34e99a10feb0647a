// Package breaker guards remote dataset sources with a circuit breaker.
package breaker

import (
	"context"
	"errors"
	"time"

	"samarth/internal/application/ports"
	"samarth/internal/domain/dataset"
	apperrors "samarth/internal/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Config holds configuration for the circuit breaker
type Config struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// FailureThreshold is the failure ratio that trips the breaker once
	// MinRequests have been seen.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultConfig suits reloads, which are rare compared to request traffic.
func DefaultConfig() Config {
	return Config{
		MaxRequests:      1,
		Interval:         5 * time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// Source wraps a remote source so repeated failures stop hitting it.
type Source struct {
	next ports.DatasetSource
	cb   *gobreaker.CircuitBreaker
}

// Wrap returns next guarded by a breaker named after it.
func Wrap(next ports.DatasetSource, cfg Config, logger *zap.Logger) *Source {
	name := next.Describe()
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Dataset source circuit breaker state changed",
				zap.String("source", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// A reachable source serving bad data is not an availability problem.
		IsSuccessful: func(err error) bool {
			var invalid *dataset.InvalidDataError
			return err == nil || errors.As(err, &invalid)
		},
	})
	return &Source{next: next, cb: cb}
}

// Load implements ports.DatasetSource.
func (s *Source) Load(ctx context.Context) (*dataset.Snapshot, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Load(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.Unavailable(apperrors.CodeDatasetUnavailable, "dataset source temporarily unavailable").
				WithOperation("dataset_load").
				WithDetails(s.next.Describe()).
				WithCause(err).
				Build()
		}
		return nil, err
	}
	return result.(*dataset.Snapshot), nil
}

// Describe implements ports.DatasetSource.
func (s *Source) Describe() string { return s.next.Describe() }

// State reports the breaker state, for diagnostics.
func (s *Source) State() gobreaker.State { return s.cb.State() }
