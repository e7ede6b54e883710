// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package recommend

import (
	"math"
	"time"
)

// ScoreScale maps a composite score onto the [0, 1] relevance stored in
// precomputed rows: relevance = min(1, score / ScoreScale).
const ScoreScale = 50.0

// ScoreLocation scores one location for one viewer. It is pure: the same
// input, config and now always give the same score.
//
//nolint:gocritic // hugeParam: input passed by value for immutability
func ScoreLocation(in ScoreInput, cfg *Config, now time.Time) LocationScore {
	var s LocationScore

	if in.Location != nil {
		s.CategoryPreference = in.Profile.Weight(in.Location.Category)
	}
	s.PersonalMatch = s.CategoryPreference * 100

	if n := in.Friends.Count; n > 0 {
		s.FriendBoost = math.Log10(float64(n)+1) * 10
	}

	ratio := in.TrendRatio
	if ratio <= 0 {
		ratio = 1.0
	}
	s.IsTrending = ratio >= cfg.TrendThreshold
	if s.IsTrending {
		s.TrendBoost = (ratio - 1) * 50
	}

	if in.Location != nil {
		age := now.Sub(in.Location.LastActivity())
		if age < 0 {
			age = 0
		}
		s.IsRecent = age <= cfg.RecentWindow
		if s.IsRecent {
			days := age.Hours() / 24
			s.RecencyBoost = math.Max(0, 10-days/2)
		}
	}

	w := cfg.Weights
	s.Score = w.Personal*s.PersonalMatch +
		w.Friend*s.FriendBoost +
		w.Trend*s.TrendBoost +
		w.Recency*s.RecencyBoost

	s.Badge = AssignBadge(BadgeSignals{
		IsTrending:         s.IsTrending,
		IsRecent:           s.IsRecent,
		CategoryPreference: s.CategoryPreference,
		FriendCount:        in.Friends.Count,
	})
	return s
}

// Relevance converts a composite score to a precomputed relevance in [0, 1].
func Relevance(score float64) float64 {
	if score <= 0 {
		return 0
	}
	return math.Min(1, score/ScoreScale)
}
