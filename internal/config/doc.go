// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

/*
Package config loads and validates Spott configuration.

Configuration is layered with koanf: built-in defaults, then an optional YAML
file, then environment variables. Later layers win.

# Config File

The file is looked up at CONFIG_PATH, then config.yaml / config.yml in the
working directory, then /etc/spott/. Keys follow the koanf struct tags:

	recommend:
	  profile_cache_ttl: 24h
	  cache_backend: redis
	redis:
	  addr: redis:6379
	enrich:
	  enabled: true
	  monthly_credit_usd: 200

# Environment Variables

Only the variables listed in envMappings are read. Commonly used:

	DUCKDB_PATH              database file (default /data/spott.duckdb)
	HTTP_PORT                listen port (default 8080)
	LOG_LEVEL, LOG_FORMAT    logging
	RECOMMEND_CACHE_BACKEND  memory or redis
	REDIS_ADDR               host:port for the shared profile cache
	GOOGLE_PLACES_API_KEY    required when ENRICH_ENABLED=true
	CLOUDINARY_*             photo mirroring (optional)

CORS_ORIGINS accepts a comma-separated list.
*/
package config
