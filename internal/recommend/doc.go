// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package recommend ranks locations for a user from four signals.
//
// # Scoring
//
// ScoreLocation is pure and combines:
//
//   - Personal match: the user's category weight from the profile vector, times 100
//   - Friend boost: log10(n+1) * 10 for n followees active on the location in the last 30 days
//   - Trend boost: (ratio-1) * 50 when the trend ratio is at least 1.2
//   - Recency boost: max(0, 10 - days/2) when last activity is within 14 days
//
// The final score is 0.4, 0.3, 0.2 and 0.1 of those (Config.Weights).
// AssignBadge picks one badge for both live and precomputed rows.
//
// # Profile Vectors
//
// A profile vector is the user's action weights summed per category and
// normalized to sum 1. Vectors are cached through a cache.Loader for 24
// hours; TrackInteraction invalidates the entry after storing the
// interaction. A failed read degrades to the empty vector.
//
// # Serving
//
// GetRecommendedLocations reads the user's precomputed rows, or recent
// locations in the city when there are none, then fetches the profile,
// friend influence and trend ratios concurrently and ranks by live score.
// Precompute rebuilds the stored rows for active users, three at a time.
//
// # Usage
//
//	loader := cache.NewLoader[recommend.ProfileVector]("profile", store, cfg.ProfileCacheTTL)
//	engine, err := recommend.NewEngine(cfg, db, loader)
//	if err != nil {
//	    return err
//	}
//	resp, err := engine.GetRecommendedLocations(ctx, recommend.Request{
//	    UserID: userID,
//	    City:   "Lisbon",
//	})
//
// # Thread Safety
//
// Engine is safe for concurrent use. It holds no mutable state of its own;
// the profile cache serializes concurrent misses per user.
package recommend
