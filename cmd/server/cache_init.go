// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/spott/internal/cache"
	"github.com/tomtom215/spott/internal/config"
	"github.com/tomtom215/spott/internal/logging"
)

// initProfileStore returns the backend for cached profile vectors.
func initProfileStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	switch cfg.Recommend.CacheBackend {
	case "", "memory":
		logging.Info().Dur("ttl", cfg.Recommend.ProfileCacheTTL).Msg("Profile cache: in-process memory")
		return cache.NewMemoryStore(cfg.Recommend.ProfileCacheTTL), nil
	case "redis":
		store, err := cache.NewRedisStore(ctx, cache.RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		logging.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Recommend.ProfileCacheTTL).Msg("Profile cache: redis")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown recommend.cache_backend %q", cfg.Recommend.CacheBackend)
	}
}
