// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package models

import "time"

// PrecomputedRecommendation is a row of the precomputed_recommendations table.
// Score is a relevance in [0, 1].
type PrecomputedRecommendation struct {
	UserID       string    `json:"user_id"`
	LocationID   string    `json:"location_id"`
	Score        float64   `json:"score"`
	FriendsSaved int       `json:"friends_saved"`
	ComputedAt   time.Time `json:"computed_at"`
}

// PrecomputedCandidate joins a precomputed row with its location.
type PrecomputedCandidate struct {
	Location     Location
	Score        float64
	FriendsSaved int
}

// TrendRatio is a location's recent interaction rate over its baseline rate.
type TrendRatio struct {
	LocationID string    `json:"location_id"`
	Ratio      float64   `json:"ratio"`
	ComputedAt time.Time `json:"computed_at"`
}
