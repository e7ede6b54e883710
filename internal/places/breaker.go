// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package places

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/logging"
	"github.com/tomtom215/spott/internal/metrics"
)

const breakerName = "google-places"

// breakerSettings configures the Places circuit breaker:
//   - 3 trial requests in half-open state
//   - counts reset every minute while closed
//   - 2 minutes open before probing again
//   - opens at a 60% failure rate over at least minRequests requests
func breakerSettings(minRequests uint32) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("[CIRCUIT BREAKER] Opening Places circuit")
				return true
			}
			return false
		},
		// A place that does not exist or a rejected request says nothing
		// about the health of the API.
		IsSuccessful: func(err error) bool {
			return err == nil || !fault.KindOf(err).Retryable()
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	}
}

// execute runs fn through the breaker. Rejections by an open breaker come
// back as KindUnavailable.
func execute[T any](cb *gobreaker.CircuitBreaker[T], op string, fn func() (T, error)) (T, error) {
	result, err := cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "rejected").Inc()
		logging.Warn().Err(err).Str("op", op).Msg("[CIRCUIT BREAKER] Request rejected")
		var zero T
		return zero, fault.E(op, fault.KindUnavailable, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "failure").Inc()
	}
	return result, err
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
