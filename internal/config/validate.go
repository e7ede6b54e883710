// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package config

import (
	"errors"
	"fmt"
)

var (
	validLogLevels = map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	validLogFormats = map[string]bool{
		"json": true, "console": true,
	}
	validCacheBackends = map[string]bool{
		"memory": true, "redis": true,
	}
)

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateDatabase,
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateMatcher,
		c.validateRecommend,
		c.validateRedis,
		c.validatePlaces,
		c.validateEnrich,
		c.validateStorage,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return errors.New("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return errors.New("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be between 1 and API_MAX_PAGE_SIZE (%d)", c.API.MaxPageSize)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return errors.New("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	if c.IsProduction() && c.Security.AdminToken == "" {
		return errors.New("ADMIN_TOKEN is required when ENVIRONMENT=production")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return errors.New("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return errors.New("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateMatcher() error {
	if c.Matcher.NameSimilarity <= 0 || c.Matcher.NameSimilarity >= 1 {
		return fmt.Errorf("MATCHER_NAME_SIMILARITY must be in (0, 1), got %v", c.Matcher.NameSimilarity)
	}
	if c.Matcher.ProximityKM <= 0 {
		return fmt.Errorf("MATCHER_PROXIMITY_KM must be positive, got %v", c.Matcher.ProximityKM)
	}
	if c.Matcher.MinStreetTokenLen < 0 {
		return errors.New("MATCHER_MIN_STREET_TOKEN_LEN must not be negative")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.ProfileCacheTTL <= 0 {
		return errors.New("RECOMMEND_PROFILE_CACHE_TTL must be positive")
	}
	if !validCacheBackends[r.CacheBackend] {
		return errors.New("RECOMMEND_CACHE_BACKEND must be one of: memory, redis")
	}
	if r.FriendWindow <= 0 || r.RecentWindow <= 0 {
		return errors.New("RECOMMEND_FRIEND_WINDOW and RECOMMEND_RECENT_WINDOW must be positive")
	}
	if r.MaxFriendAvatars < 0 {
		return errors.New("RECOMMEND_MAX_FRIEND_AVATARS must not be negative")
	}
	if r.TrendThreshold < 1 {
		return fmt.Errorf("RECOMMEND_TREND_THRESHOLD must be at least 1, got %v", r.TrendThreshold)
	}
	if r.FallbackScore < 0 || r.FallbackScore > 1 {
		return fmt.Errorf("RECOMMEND_FALLBACK_SCORE must be in [0, 1], got %v", r.FallbackScore)
	}
	if r.DefaultLimit < 1 || r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be between 1 and RECOMMEND_MAX_LIMIT (%d)", r.MaxLimit)
	}
	if r.PrecomputeEnabled && r.PrecomputeEvery <= 0 {
		return errors.New("RECOMMEND_PRECOMPUTE_INTERVAL must be positive when precompute is enabled")
	}
	if r.PrecomputeEnabled && r.PrecomputeTopN < 1 {
		return errors.New("RECOMMEND_PRECOMPUTE_TOP_N must be at least 1")
	}
	return nil
}

func (c *Config) validateRedis() error {
	if c.Recommend.CacheBackend != "redis" {
		return nil
	}
	if c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is required when RECOMMEND_CACHE_BACKEND=redis")
	}
	return validateHostPort(c.Redis.Addr, "REDIS_ADDR")
}

func (c *Config) validatePlaces() error {
	if c.Places.BaseURL == "" {
		return errors.New("GOOGLE_PLACES_BASE_URL is required")
	}
	if err := validateBaseURL(c.Places.BaseURL, "GOOGLE_PLACES_BASE_URL"); err != nil {
		return err
	}
	if c.Places.RequestsPerSec <= 0 {
		return errors.New("GOOGLE_PLACES_RPS must be positive")
	}
	return nil
}

func (c *Config) validateEnrich() error {
	e := c.Enrich
	if !e.Enabled {
		return nil
	}
	if c.Places.APIKey == "" {
		return errors.New("GOOGLE_PLACES_API_KEY is required when ENRICH_ENABLED=true")
	}
	if e.BatchSize < 1 || e.MaxItems < 1 {
		return errors.New("ENRICH_BATCH_SIZE and ENRICH_MAX_ITEMS must be at least 1")
	}
	if e.MinDelay < 0 || e.MaxDelay < e.MinDelay {
		return fmt.Errorf("ENRICH_MAX_DELAY (%v) must be >= ENRICH_MIN_DELAY (%v)", e.MaxDelay, e.MinDelay)
	}
	if e.MonthlyCreditUSD <= 0 {
		return errors.New("ENRICH_MONTHLY_CREDIT_USD must be positive")
	}
	if e.Interval <= 0 {
		return errors.New("ENRICH_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) validateStorage() error {
	s := c.Storage
	set := 0
	for _, v := range []string{s.CloudName, s.APIKey, s.APISecret} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return errors.New("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET must be set together")
	}
	return nil
}
