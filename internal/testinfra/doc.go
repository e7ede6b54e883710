// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package testinfra starts real backing services in Docker for integration
// tests, using testcontainers-go.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/cache/...
//
// Tests call SkipIfNoDocker first so the suite degrades to a skip on
// machines without a Docker daemon.
//
//	func TestRedisStore_Integration(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    rc, err := testinfra.NewRedisContainer(ctx)
//	    ...
//	    store, err := cache.NewRedisStore(ctx, cache.RedisOptions{Addr: rc.Addr})
//	}
package testinfra
