// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

/*
Command server runs the Spott API.

Process layout:

	spott
	├── jobs-layer
	│   ├── precompute-service   (recommend.precompute_enabled)
	│   └── enrichment-service   (enrich.enabled)
	└── api-layer
	    └── http-server

Startup order:

 1. Configuration: koanf, config.yaml then environment variables
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB with schema migrations
 4. Profile cache: in-process or Redis (recommend.cache_backend)
 5. Recommendation engine, Places client, photo mirror, enrichment job
 6. Supervisor tree, then the HTTP server

SIGINT and SIGTERM cancel the tree; every service gets the configured
shutdown timeout before the process exits.
*/
package main
