// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package supervisor runs Spott's long-lived components under a suture
// supervisor tree.
//
// The tree has two layers below the root:
//
//	spott
//	├── jobs-layer   precompute loop, enrichment sweep
//	└── api-layer    HTTP server
//
// A background job that keeps failing backs off on its own without
// restarting the HTTP server. Service wrappers live in the services
// subpackage.
package supervisor
