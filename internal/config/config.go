// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package config

import "time"

// Config is the root configuration for the Spott backend.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Matcher   MatcherConfig   `koanf:"matcher"`
	Recommend RecommendConfig `koanf:"recommend"`
	Redis     RedisConfig     `koanf:"redis"`
	Places    PlacesConfig    `koanf:"places"`
	Enrich    EnrichConfig    `koanf:"enrich"`
	Storage   StorageConfig   `koanf:"storage"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"` // 0 = runtime.NumCPU()
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
	SkipIndexes            bool   `koanf:"skip_indexes"` // tests only
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds list-size limits for API responses
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds rate limiting and CORS settings.
// Authentication is handled by the gateway in front of this service.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	AdminToken        string        `koanf:"admin_token"` // required for /api/v1/admin routes when set
}

// LoggingConfig mirrors logging.Config for the fields that can be set externally
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MatcherConfig holds the thresholds used by location deduplication.
type MatcherConfig struct {
	// NameSimilarity is the minimum edit-distance ratio for two names to match (exclusive).
	NameSimilarity float64 `koanf:"name_similarity"`

	// ProximityKM is the distance under which two coordinates are the same place.
	ProximityKM float64 `koanf:"proximity_km"`

	// MinStreetTokenLen is the length the leading address token must exceed to be compared.
	MinStreetTokenLen int `koanf:"min_street_token_len"`
}

// RecommendConfig holds scoring and caching settings for recommendations.
type RecommendConfig struct {
	ProfileCacheTTL   time.Duration `koanf:"profile_cache_ttl"`
	CacheBackend      string        `koanf:"cache_backend"` // memory or redis
	FriendWindow      time.Duration `koanf:"friend_window"`
	MaxFriendAvatars  int           `koanf:"max_friend_avatars"`
	TrendThreshold    float64       `koanf:"trend_threshold"`
	RecentWindow      time.Duration `koanf:"recent_window"`
	FallbackScore     float64       `koanf:"fallback_score"`
	DefaultLimit      int           `koanf:"default_limit"`
	MaxLimit          int           `koanf:"max_limit"`
	PrecomputeEnabled bool          `koanf:"precompute_enabled"`
	PrecomputeEvery   time.Duration `koanf:"precompute_interval"`
	PrecomputeTopN    int           `koanf:"precompute_top_n"`
}

// RedisConfig configures the shared profile cache backend.
type RedisConfig struct {
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

// PlacesConfig configures the Google Places client.
type PlacesConfig struct {
	APIKey         string        `koanf:"api_key"`
	BaseURL        string        `koanf:"base_url"`
	Timeout        time.Duration `koanf:"timeout"`
	RequestsPerSec float64       `koanf:"requests_per_sec"`
}

// EnrichConfig configures the background Places enrichment job.
type EnrichConfig struct {
	Enabled              bool          `koanf:"enabled"`
	Interval             time.Duration `koanf:"interval"`
	BatchSize            int           `koanf:"batch_size"`
	MaxItems             int           `koanf:"max_items"` // hard cap per batch
	MinDelay             time.Duration `koanf:"min_delay"`
	MaxDelay             time.Duration `koanf:"max_delay"`
	MonthlyCreditUSD     float64       `koanf:"monthly_credit_usd"`
	EnrichPhotos         bool          `koanf:"enrich_photos"`
	EnrichHours          bool          `koanf:"enrich_hours"`
	MaxPhotosPerLocation int           `koanf:"max_photos_per_location"`
	ResolvePlaceIDs      bool          `koanf:"resolve_place_ids"`
}

// StorageConfig configures where enriched photos are mirrored.
// Leaving CloudName empty keeps Google photo URLs as-is.
type StorageConfig struct {
	CloudName string `koanf:"cloud_name"`
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
	Folder    string `koanf:"folder"`
}

// Enabled reports whether Cloudinary credentials are present.
func (s StorageConfig) Enabled() bool {
	return s.CloudName != "" && s.APIKey != "" && s.APISecret != ""
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in that order of precedence (later wins).
func Load() (*Config, error) {
	return LoadWithKoanf()
}
