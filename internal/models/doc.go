// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

/*
Package models defines the data structures shared across Spott packages.

Locations arrive in two shapes, InternalLocation (Spott's own table) and
ExternalPlace (Places results saved by users). Both implement the sealed
LocationSource interface and are converted with Normalize into the canonical
Location, which is the only shape the matcher, the scorer and the enrichment
job operate on.

Other groups of types:

  - Interaction, ActionType, Follow, FriendInfluence: social signals
  - PrecomputedRecommendation, TrendRatio: rows written by the precompute job
  - EnrichParams, EnrichResult, APIUsage: Places enrichment batches and spend
  - APIResponse, APIError: the HTTP response envelope
*/
package models
