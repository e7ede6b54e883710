// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package places is a client for the Google Places web service (Find Place
// From Text, Place Details and Place Photo URLs).
//
// Requests are paced by a token-bucket limiter and run through a circuit
// breaker that opens at a 60% failure rate. Only transient failures count
// toward the breaker; a ZERO_RESULTS answer is a successful call that
// returns fault.KindNotFound.
//
// Status mapping:
//
//	ZERO_RESULTS, NOT_FOUND            -> fault.KindNotFound
//	OVER_QUERY_LIMIT, UNKNOWN_ERROR    -> fault.KindUnavailable
//	HTTP 5xx, HTTP 429, network errors -> fault.KindUnavailable
//	REQUEST_DENIED, INVALID_REQUEST    -> fault.KindInvalid
//
// Pricing constants for the SKUs used by the enrichment job live in
// pricing.go. The client itself does not record spend.
package places
