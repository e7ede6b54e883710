// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

/*
Package metrics defines the Prometheus collectors exported on /metrics.

Collectors are registered with promauto on the default registry at package
init. Record* helpers keep label handling in one place; callers should use
them instead of touching the vectors directly.

Metric families (all prefixed spott_):

	duckdb_query_*            query latency and errors by fault kind
	api_*                     request count, latency, in-flight gauge
	cache_requests_total      hit/miss/error/invalidate per cache
	circuit_breaker_*         state and transitions per external API
	places_*                  Google Places calls by SKU and outcome
	dedupe_*                  matcher input records and output cards
	recommendations_*         served locations by source and badge
	precompute_*              precompute runs and users
	enrich_*                  enrichment items, spend and remaining budget
*/
package metrics
