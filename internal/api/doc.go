// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

/*
Package api serves Spott's HTTP interface with the chi router.

Routes:

	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	GET  /api/v1/locations/unique?city=&category=&limit=
	GET  /api/v1/users/{userID}/recommendations?city=&category=&limit=
	GET  /api/v1/users/{userID}/profile
	POST /api/v1/users/{userID}/interactions
	GET  /api/v1/users/{userID}/locations/{locationID}/score
	POST /api/v1/admin/enrich
	GET  /metrics

Every JSON body uses the models.APIResponse envelope. Errors carrying a
fault kind map to a status code:

	not_found         404 NOT_FOUND
	invalid           400 BAD_REQUEST
	budget_exhausted  402 BUDGET_EXHAUSTED
	unavailable       503 SERVICE_UNAVAILABLE
	canceled          503 REQUEST_CANCELED
	unknown           500 INTERNAL_ERROR

Reads that succeed on a fallback (missing profile, friend or trend data)
return 200 with metadata.degraded set.

Handlers depend on small interfaces (LocationStore, Recommender, Enricher)
so tests can substitute fakes.
*/
package api
