// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package osuapi

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/osumirror/beatmapd/internal/logging"
	"github.com/osumirror/beatmapd/internal/metrics"
	"github.com/osumirror/beatmapd/internal/models"
)

// CircuitBreakerClient wraps a Fetcher with the circuit breaker pattern
// so a struggling upstream sheds load instead of stacking timeouts.
//
// The breaker uses real time for its interval and timeout calculations;
// tests should mock the underlying Fetcher rather than the breaker.
type CircuitBreakerClient struct {
	client Fetcher
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient wraps client with a circuit breaker:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
//
// Upstream 404s are deliberately not counted as failures: a missing
// beatmap is a valid answer, not a sign the API is unhealthy.
func NewCircuitBreakerClient(client Fetcher) *CircuitBreakerClient {
	cbName := "osu-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || IsNotFound(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps an upstream call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	return result, nil
}

// GetBeatmap fetches a beatmap with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetBeatmap(ctx context.Context, beatmapID int) (*models.Beatmap, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetBeatmap(ctx, beatmapID)
	})
	if err != nil {
		return nil, err
	}
	b, ok := result.(*models.Beatmap)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type")
	}
	return b, nil
}

// setWithChildren carries a beatmapset and its embedded beatmaps through
// the breaker's single result value.
type setWithChildren struct {
	set      *models.Beatmapset
	children []*models.Beatmap
}

// GetBeatmapset fetches a beatmapset with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetBeatmapset(ctx context.Context, beatmapsetID int) (*models.Beatmapset, []*models.Beatmap, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		set, children, err := cbc.client.GetBeatmapset(ctx, beatmapsetID)
		if err != nil {
			return nil, err
		}
		return &setWithChildren{set: set, children: children}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	sc, ok := result.(*setWithChildren)
	if !ok {
		return nil, nil, errors.New("circuit breaker: unexpected result type")
	}
	return sc.set, sc.children, nil
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

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
