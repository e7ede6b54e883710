// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/spott/config.yaml",
	"/etc/spott/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/spott.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
		},
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Matcher: MatcherConfig{
			NameSimilarity:    0.85,
			ProximityKM:       0.1,
			MinStreetTokenLen: 10,
		},
		Recommend: RecommendConfig{
			ProfileCacheTTL:   24 * time.Hour,
			CacheBackend:      "memory",
			FriendWindow:      30 * 24 * time.Hour,
			MaxFriendAvatars:  3,
			TrendThreshold:    1.2,
			RecentWindow:      14 * 24 * time.Hour,
			FallbackScore:     0.5,
			DefaultLimit:      20,
			MaxLimit:          100,
			PrecomputeEnabled: true,
			PrecomputeEvery:   6 * time.Hour,
			PrecomputeTopN:    50,
		},
		Redis: RedisConfig{
			Addr:      "127.0.0.1:6379",
			KeyPrefix: "spott:",
		},
		Places: PlacesConfig{
			BaseURL:        "https://maps.googleapis.com/maps/api/place",
			Timeout:        10 * time.Second,
			RequestsPerSec: 10,
		},
		Enrich: EnrichConfig{
			Enabled:              false,
			Interval:             24 * time.Hour,
			BatchSize:            50,
			MaxItems:             200,
			MinDelay:             100 * time.Millisecond,
			MaxDelay:             150 * time.Millisecond,
			MonthlyCreditUSD:     200,
			EnrichPhotos:         true,
			EnrichHours:          true,
			MaxPhotosPerLocation: 3,
			ResolvePlaceIDs:      true,
		},
		Storage: StorageConfig{
			Folder: "spott/places",
		},
	}
}

// LoadWithKoanf loads configuration in three layers:
//  1. built-in defaults
//  2. optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"admin_token":         "security.admin_token",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"matcher_name_similarity":      "matcher.name_similarity",
	"matcher_proximity_km":         "matcher.proximity_km",
	"matcher_min_street_token_len": "matcher.min_street_token_len",

	"recommend_profile_cache_ttl":   "recommend.profile_cache_ttl",
	"recommend_cache_backend":       "recommend.cache_backend",
	"recommend_friend_window":       "recommend.friend_window",
	"recommend_max_friend_avatars":  "recommend.max_friend_avatars",
	"recommend_trend_threshold":     "recommend.trend_threshold",
	"recommend_recent_window":       "recommend.recent_window",
	"recommend_fallback_score":      "recommend.fallback_score",
	"recommend_default_limit":       "recommend.default_limit",
	"recommend_max_limit":           "recommend.max_limit",
	"recommend_precompute_enabled":  "recommend.precompute_enabled",
	"recommend_precompute_interval": "recommend.precompute_interval",
	"recommend_precompute_top_n":    "recommend.precompute_top_n",

	"redis_addr":       "redis.addr",
	"redis_password":   "redis.password",
	"redis_db":         "redis.db",
	"redis_key_prefix": "redis.key_prefix",

	"google_places_api_key":  "places.api_key",
	"google_places_base_url": "places.base_url",
	"google_places_timeout":  "places.timeout",
	"google_places_rps":      "places.requests_per_sec",

	"enrich_enabled":                 "enrich.enabled",
	"enrich_interval":                "enrich.interval",
	"enrich_batch_size":              "enrich.batch_size",
	"enrich_max_items":               "enrich.max_items",
	"enrich_min_delay":               "enrich.min_delay",
	"enrich_max_delay":               "enrich.max_delay",
	"enrich_monthly_credit_usd":      "enrich.monthly_credit_usd",
	"enrich_photos":                  "enrich.enrich_photos",
	"enrich_hours":                   "enrich.enrich_hours",
	"enrich_max_photos_per_location": "enrich.max_photos_per_location",
	"enrich_resolve_place_ids":       "enrich.resolve_place_ids",

	"cloudinary_cloud_name": "storage.cloud_name",
	"cloudinary_api_key":    "storage.api_key",
	"cloudinary_api_secret": "storage.api_secret",
	"cloudinary_folder":     "storage.folder",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Returning "" tells koanf to skip the variable.
//
//	GOOGLE_PLACES_API_KEY -> places.api_key
//	DUCKDB_PATH           -> database.path
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
