// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/spott/internal/fault"
)

var (
	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spott_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spott_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors by fault kind",
		},
		[]string{"operation", "table", "error_kind"},
	)

	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spott_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spott_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spott_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Cache
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spott_cache_requests_total",
			Help: "Cache lookups and invalidations by cache name and result",
		},
		[]string{"cache", "result"}, // hit, miss, error, invalidate
	)

	// Circuit breakers around external APIs
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spott_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spott_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spott_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Google Places
	PlacesRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spott_places_requests_total",
			Help: "Google Places API requests by SKU and outcome",
		},
		[]string{"sku", "outcome"},
	)

	PlacesRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spott_places_request_duration_seconds",
			Help:    "Latency of Google Places API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sku"},
	)

	// Matching
	DedupeInputRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spott_dedupe_input_records_total",
			Help: "Location records fed to the matcher",
		},
	)

	DedupeCards = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spott_dedupe_cards_total",
			Help: "Unique location cards produced by the matcher",
		},
	)

	// Recommendations
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spott_recommendations_served_total",
			Help: "Recommended locations returned, by candidate source",
		},
		[]string{"source"}, // precomputed, fallback
	)

	RecommendationBadges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spott_recommendation_badges_total",
			Help: "Badges assigned to recommended locations",
		},
		[]string{"badge"},
	)

	ProfileVectorDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spott_profile_vector_degraded_total",
			Help: "Profile vector reads that fell back to the empty vector",
		},
	)

	PrecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spott_precompute_duration_seconds",
			Help:    "Duration of a full recommendation precompute run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	PrecomputeUsers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spott_precompute_users_total",
			Help: "Users processed by precompute, by outcome",
		},
		[]string{"outcome"}, // success, error
	)

	// Enrichment
	EnrichItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spott_enrich_items_total",
			Help: "Locations processed by the enrichment job, by status",
		},
		[]string{"status"},
	)

	EnrichSpendUSD = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spott_enrich_spend_usd_total",
			Help: "Estimated Google Places spend recorded by enrichment, in USD",
		},
	)

	EnrichRemainingBudgetUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spott_enrich_remaining_budget_usd",
			Help: "Remaining monthly Places credit after the last batch, in USD",
		},
	)

	EnrichBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spott_enrich_batches_total",
			Help: "Enrichment batches by outcome",
		},
		[]string{"outcome"}, // completed, budget_exhausted, error, dry_run
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spott_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// Cache result labels.
const (
	CacheHit          = "hit"
	CacheMiss         = "miss"
	CacheError        = "error"
	CacheInvalidation = "invalidate"
)

// RecordDBQuery records a database query. Errors are labeled by fault kind
// so label cardinality stays bounded.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, fault.KindOf(err).String()).Inc()
	}
}

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheResult counts a cache lookup or invalidation.
func RecordCacheResult(cache, result string) {
	CacheRequests.WithLabelValues(cache, result).Inc()
}

// RecordPlacesRequest records one Places API call.
func RecordPlacesRequest(sku string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = fault.KindOf(err).String()
	}
	PlacesRequests.WithLabelValues(sku, outcome).Inc()
	PlacesRequestDuration.WithLabelValues(sku).Observe(duration.Seconds())
}

// RecordDedupe records one matcher run.
func RecordDedupe(inputRecords, cards int) {
	DedupeInputRecords.Add(float64(inputRecords))
	DedupeCards.Add(float64(cards))
}

// RecordRecommendation counts one served location.
func RecordRecommendation(source, badge string) {
	RecommendationsServed.WithLabelValues(source).Inc()
	if badge != "" {
		RecommendationBadges.WithLabelValues(badge).Inc()
	}
}

// RecordEnrichItem counts one processed location and its cost.
func RecordEnrichItem(status string, cost float64) {
	EnrichItems.WithLabelValues(status).Inc()
	if cost > 0 {
		EnrichSpendUSD.Add(cost)
	}
}

// RecordEnrichBatch records the outcome of a batch and the remaining budget.
func RecordEnrichBatch(outcome string, remainingBudget float64) {
	EnrichBatches.WithLabelValues(outcome).Inc()
	EnrichRemainingBudgetUSD.Set(remainingBudget)
}
