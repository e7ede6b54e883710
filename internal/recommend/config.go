// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/spott/internal/config"
)

// Config contains all scoring and orchestration settings.
type Config struct {
	// Weights combine the four sub-scores into the final score.
	Weights Weights `json:"weights"`

	// FriendWindow is how far back a followee's interaction counts as influence.
	FriendWindow time.Duration `json:"friend_window"`

	// MaxFriendAvatars caps the avatars returned with friend influence.
	MaxFriendAvatars int `json:"max_friend_avatars"`

	// TrendThreshold is the trend ratio at which a location is trending.
	TrendThreshold float64 `json:"trend_threshold"`

	// RecentWindow is how long after its last activity a location is recent.
	RecentWindow time.Duration `json:"recent_window"`

	// FallbackScore is the base relevance of fallback rows.
	FallbackScore float64 `json:"fallback_score"`

	DefaultLimit int `json:"default_limit"`
	MaxLimit     int `json:"max_limit"`

	// ProfileCacheTTL is how long a profile vector is served from cache.
	ProfileCacheTTL time.Duration `json:"profile_cache_ttl"`

	// PrecomputeTopN is how many rows are stored per user by Precompute.
	PrecomputeTopN int `json:"precompute_top_n"`

	// PrecomputeConcurrency bounds how many users are scored at once.
	PrecomputeConcurrency int `json:"precompute_concurrency"`

	// ActiveWindow selects the users Precompute covers.
	ActiveWindow time.Duration `json:"active_window"`

	// TopCities is how many of a user's cities feed Precompute candidates.
	TopCities int `json:"top_cities"`
}

// Weights are the coefficients of the composite score.
type Weights struct {
	Personal float64 `json:"personal"`
	Friend   float64 `json:"friend"`
	Trend    float64 `json:"trend"`
	Recency  float64 `json:"recency"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Personal: 0.4,
			Friend:   0.3,
			Trend:    0.2,
			Recency:  0.1,
		},
		FriendWindow:          30 * 24 * time.Hour,
		MaxFriendAvatars:      3,
		TrendThreshold:        1.2,
		RecentWindow:          14 * 24 * time.Hour,
		FallbackScore:         0.5,
		DefaultLimit:          20,
		MaxLimit:              100,
		ProfileCacheTTL:       24 * time.Hour,
		PrecomputeTopN:        50,
		PrecomputeConcurrency: 3,
		ActiveWindow:          30 * 24 * time.Hour,
		TopCities:             3,
	}
}

// FromAppConfig overlays the externally configurable fields on the defaults.
// Zero values keep the default.
func FromAppConfig(rc *config.RecommendConfig) *Config {
	cfg := DefaultConfig()
	if rc == nil {
		return cfg
	}
	setDuration(&cfg.FriendWindow, rc.FriendWindow)
	setDuration(&cfg.RecentWindow, rc.RecentWindow)
	setDuration(&cfg.ProfileCacheTTL, rc.ProfileCacheTTL)
	setInt(&cfg.MaxFriendAvatars, rc.MaxFriendAvatars)
	setInt(&cfg.DefaultLimit, rc.DefaultLimit)
	setInt(&cfg.MaxLimit, rc.MaxLimit)
	setInt(&cfg.PrecomputeTopN, rc.PrecomputeTopN)
	if rc.TrendThreshold > 0 {
		cfg.TrendThreshold = rc.TrendThreshold
	}
	if rc.FallbackScore > 0 {
		cfg.FallbackScore = rc.FallbackScore
	}
	return cfg
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	w := c.Weights
	if w.Personal < 0 || w.Friend < 0 || w.Trend < 0 || w.Recency < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", w)
	}
	if w.Personal+w.Friend+w.Trend+w.Recency == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	if c.TrendThreshold <= 1 {
		return fmt.Errorf("trend_threshold must be greater than 1, got %f", c.TrendThreshold)
	}
	if c.RecentWindow <= 0 {
		return fmt.Errorf("recent_window must be positive, got %v", c.RecentWindow)
	}
	if c.FriendWindow <= 0 {
		return fmt.Errorf("friend_window must be positive, got %v", c.FriendWindow)
	}
	if c.MaxFriendAvatars < 0 {
		return fmt.Errorf("max_friend_avatars must be non-negative, got %d", c.MaxFriendAvatars)
	}
	if c.FallbackScore < 0 || c.FallbackScore > 1 {
		return fmt.Errorf("fallback_score must be in [0, 1], got %f", c.FallbackScore)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit (%d) must be >= default_limit (%d)", c.MaxLimit, c.DefaultLimit)
	}
	if c.ProfileCacheTTL <= 0 {
		return fmt.Errorf("profile_cache_ttl must be positive, got %v", c.ProfileCacheTTL)
	}
	if c.PrecomputeTopN < 1 {
		return fmt.Errorf("precompute_top_n must be positive, got %d", c.PrecomputeTopN)
	}
	if c.PrecomputeConcurrency < 1 {
		return fmt.Errorf("precompute_concurrency must be positive, got %d", c.PrecomputeConcurrency)
	}
	return nil
}

// clampLimit applies the default and the cap to a requested limit.
func (c *Config) clampLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	if limit > c.MaxLimit {
		return c.MaxLimit
	}
	return limit
}
