// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package storage mirrors Google place photos into object storage so the
// app serves them without spending Place Photo requests per view.
package storage
