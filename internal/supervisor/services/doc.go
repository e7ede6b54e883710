// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package services adapts Spott components to suture.Service.
//
//   - HTTPServerService: http.Server with graceful shutdown
//   - PrecomputeService: periodic recommendation precompute
//   - EnrichmentService: periodic Places enrichment sweep
//
// The periodic services log and swallow run failures so the supervisor
// only restarts them on panics or programming errors. Each run gets its
// own timeout derived from the service context.
package services
