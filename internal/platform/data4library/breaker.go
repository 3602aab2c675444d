package data4library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booktrend/internal/logging"
	"booktrend/internal/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
)

// Fetcher is the single upstream capability.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, q Query) (RawDocument, error)
}

// BreakerClient fails fast with ErrUnavailable while the upstream API is
// known to be down. It never retries a call.
type BreakerClient struct {
	next Fetcher
	cb   *gobreaker.CircuitBreaker[RawDocument]
	name string
}

type BreakerSettings struct {
	Name        string
	MaxRequests uint32        // probes allowed while half-open
	Interval    time.Duration // closed-state count reset
	Timeout     time.Duration // open -> half-open
	MinRequests uint32
	FailureRate float64
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:        "data4library",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		MinRequests: 5,
		FailureRate: 0.6,
	}
}

func NewBreakerClient(next Fetcher, s BreakerSettings) *BreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[RawDocument](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRate
		},
		// A caller hanging up says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &BreakerClient{next: next, cb: cb, name: s.Name}
}

func (b *BreakerClient) Fetch(ctx context.Context, endpoint string, q Query) (RawDocument, error) {
	doc, err := b.cb.Execute(func() (RawDocument, error) {
		return b.next.Fetch(ctx, endpoint, q)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "rejected").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return doc, err
}

// State reports the breaker state, for readiness output.
func (b *BreakerClient) State() string {
	return b.cb.State().String()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
