// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

/*
Package middleware provides chi-compatible HTTP middleware.

Components:

  - RequestID: honors or generates X-Request-ID and seeds the logging context
  - Metrics: Prometheus request count, duration and in-flight gauge, labeled
    by chi route pattern so path parameters do not explode cardinality
  - Compression: gzip for clients that accept it
  - AdminToken: constant-time bearer token check for admin routes

Every constructor returns func(http.Handler) http.Handler for chi's r.Use.
*/
package middleware
