// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package database is Spott's data layer over DuckDB.
//
// # Files
//
//   - database.go, database_connection.go, database_utils.go: lifecycle,
//     pool settings, reconnect with backoff, conflict retries, checkpoints
//   - schema.go, migrations.go: table bootstrap, indexes, versioned migrations
//   - locations.go, saved_places.go: the two location ingestion sources and posts
//   - interactions.go, social.go: user actions, follows, friend influence
//   - recommendations.go: precomputed recommendation rows and trend ratios
//   - usage.go: the Places API spend ledger
//
// # Errors
//
// Every exported method returns errors classified by internal/fault:
// a missing row is KindNotFound, a lost connection or unresolved
// transaction conflict is KindUnavailable, and context errors keep their
// kinds. An empty result with a nil error means "no data".
//
// # Concurrency
//
// DB is safe for concurrent use. DuckDB reports write-write conflicts as
// "Transaction conflict" errors; writes go through withRetry, which retries
// them up to three times with exponential backoff.
//
// # Testing
//
// Tests use an in-memory database (Path ":memory:") and hold a package
// semaphore for their whole lifetime because concurrent DuckDB CGO calls
// can hang under CI resource pressure.
package database
