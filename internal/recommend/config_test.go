// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package recommend

import (
	"testing"
	"time"

	"github.com/tomtom215/spott/internal/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative weight", func(c *Config) { c.Weights.Friend = -0.1 }},
		{"all weights zero", func(c *Config) { c.Weights = Weights{} }},
		{"trend threshold at one", func(c *Config) { c.TrendThreshold = 1 }},
		{"zero recent window", func(c *Config) { c.RecentWindow = 0 }},
		{"zero friend window", func(c *Config) { c.FriendWindow = 0 }},
		{"fallback above one", func(c *Config) { c.FallbackScore = 1.5 }},
		{"zero default limit", func(c *Config) { c.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.MaxLimit = 5; c.DefaultLimit = 10 }},
		{"zero ttl", func(c *Config) { c.ProfileCacheTTL = 0 }},
		{"zero top n", func(c *Config) { c.PrecomputeTopN = 0 }},
		{"zero concurrency", func(c *Config) { c.PrecomputeConcurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	t.Parallel()

	cfg := FromAppConfig(&config.RecommendConfig{
		ProfileCacheTTL: time.Hour,
		TrendThreshold:  1.4,
		DefaultLimit:    10,
	})
	if cfg.ProfileCacheTTL != time.Hour {
		t.Errorf("ProfileCacheTTL = %v, want 1h", cfg.ProfileCacheTTL)
	}
	if cfg.TrendThreshold != 1.4 {
		t.Errorf("TrendThreshold = %v, want 1.4", cfg.TrendThreshold)
	}
	if cfg.DefaultLimit != 10 {
		t.Errorf("DefaultLimit = %d, want 10", cfg.DefaultLimit)
	}
	if cfg.RecentWindow != 14*24*time.Hour {
		t.Errorf("RecentWindow = %v, want default 336h", cfg.RecentWindow)
	}
	if FromAppConfig(nil).MaxLimit != DefaultConfig().MaxLimit {
		t.Error("FromAppConfig(nil) should return defaults")
	}
}

func TestConfig_ClampLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	tests := []struct{ in, want int }{
		{0, 20},
		{-1, 20},
		{7, 7},
		{500, 100},
	}
	for _, tt := range tests {
		if got := cfg.clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
