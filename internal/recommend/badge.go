// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package recommend

// Badge thresholds.
const (
	// preferenceThreshold is the category weight above which a location is recommended.
	preferenceThreshold = 0.1
	// popularFriendsSaved is the precomputed friend count above which a location is popular.
	popularFriendsSaved = 5
	// relevanceThreshold is the precomputed relevance above which a location is recommended.
	relevanceThreshold = 0.7
)

// BadgeSignals are the inputs of AssignBadge. The precomputed fields are
// only meaningful when Precomputed is set.
type BadgeSignals struct {
	IsTrending         bool
	IsRecent           bool
	CategoryPreference float64
	FriendCount        int

	Precomputed  bool
	FriendsSaved int
	Relevance    float64
}

// AssignBadge picks exactly one badge, first match wins:
//
//	trending     trend ratio at or above the threshold
//	offer        recent activity
//	popular      precomputed row with more than 5 friends saved
//	recommended  category preference > 0.1, any friend activity, or
//	             precomputed relevance > 0.7
//	none
func AssignBadge(s BadgeSignals) Badge {
	switch {
	case s.IsTrending:
		return BadgeTrending
	case s.IsRecent:
		return BadgeOffer
	case s.Precomputed && s.FriendsSaved > popularFriendsSaved:
		return BadgePopular
	case s.CategoryPreference > preferenceThreshold || s.FriendCount > 0:
		return BadgeRecommended
	case s.Precomputed && s.Relevance > relevanceThreshold:
		return BadgeRecommended
	default:
		return BadgeNone
	}
}
