// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package cache provides the caching layer behind per-user profile vectors.
//
// Three layers:
//
//   - Cache: an in-process TTL map with hit/miss statistics.
//   - Store: a byte-oriented backend interface. MemoryStore wraps a Cache
//     for single-instance deployments; RedisStore (go-redis) is shared by
//     every instance.
//   - Loader[T]: typed get-or-compute with TTL, explicit invalidation and
//     single-flight collapsing of concurrent misses.
//
// Example:
//
//	profiles := cache.NewLoader[ProfileVector]("profile_vector", store, 24*time.Hour)
//	vec, res, err := profiles.GetOrCompute(ctx, "profile:"+userID, build)
//	...
//	_ = profiles.Invalidate(ctx, "profile:"+userID)
package cache
