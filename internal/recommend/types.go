// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package recommend

import (
	"time"

	"github.com/tomtom215/spott/internal/models"
)

// Badge is the single display label of a scored location.
type Badge string

const (
	BadgeNone        Badge = ""
	BadgeTrending    Badge = "trending"
	BadgeOffer       Badge = "offer"
	BadgePopular     Badge = "popular"
	BadgeRecommended Badge = "recommended"
)

// Source says where a ranked row came from.
type Source string

const (
	// SourcePrecomputed rows come from precomputed_recommendations.
	SourcePrecomputed Source = "precomputed"
	// SourceFallback rows are recent locations in the city, used when the
	// user has no precomputed rows.
	SourceFallback Source = "fallback"
	// SourceLive rows were scored on demand for a single location.
	SourceLive Source = "live"
)

// ProfileVector is a user's category affinity.
type ProfileVector struct {
	// Weights maps category to a weight in [0, 1]. Weights sum to 1 over
	// the categories the user interacted with; the map is empty otherwise.
	Weights map[string]float64 `json:"weights"`

	// TotalInteractions is the number of interactions the vector was built from.
	TotalInteractions int `json:"total_interactions"`

	// ComputedAt is when the vector was built from source.
	ComputedAt time.Time `json:"computed_at"`
}

// Weight returns the affinity for category, 0 when unknown.
func (p *ProfileVector) Weight(category string) float64 {
	if p == nil || p.Weights == nil {
		return 0
	}
	return p.Weights[category]
}

// ScoreInput is everything the scorer needs about one location for one viewer.
type ScoreInput struct {
	Location *models.Location
	Profile  *ProfileVector
	Friends  models.FriendInfluence

	// TrendRatio is recent over baseline interaction rate. Zero means
	// unknown and is treated as 1.0.
	TrendRatio float64
}

// LocationScore is the scorer's output.
type LocationScore struct {
	PersonalMatch float64 `json:"personal_match"`
	FriendBoost   float64 `json:"friend_boost"`
	TrendBoost    float64 `json:"trend_boost"`
	RecencyBoost  float64 `json:"recency_boost"`
	Score         float64 `json:"score"`
	Badge         Badge   `json:"badge,omitempty"`

	IsTrending         bool    `json:"is_trending"`
	IsRecent           bool    `json:"is_recent"`
	CategoryPreference float64 `json:"category_preference"`
}

// Request asks for a user's ranked recommendations.
type Request struct {
	UserID   string
	City     string // empty means every city
	Category string // empty means every category
	Limit    int    // 0 means Config.DefaultLimit
}

// RankedLocation is one row of a recommendation response.
type RankedLocation struct {
	Location models.Location        `json:"location"`
	Score    LocationScore          `json:"score"`
	Friends  models.FriendInfluence `json:"friends"`
	Source   Source                 `json:"source"`

	// Relevance is the stored precomputed relevance in [0, 1], or the
	// fallback base score for fallback rows.
	Relevance float64 `json:"relevance"`

	// FriendsSaved is the precomputed social count; 0 for other sources.
	FriendsSaved int `json:"friends_saved,omitempty"`
}

// Response is the result of GetRecommendedLocations.
type Response struct {
	Items  []RankedLocation `json:"items"`
	Source Source           `json:"source"`

	// Degraded is set when a secondary read (profile, friends, trends)
	// failed and the ranking was computed without it.
	Degraded bool `json:"degraded"`
}
