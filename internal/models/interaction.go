// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package models

import "time"

// ActionType is what a user did with a location.
type ActionType string

const (
	ActionLike  ActionType = "like"
	ActionSave  ActionType = "save"
	ActionVisit ActionType = "visit"
	ActionShare ActionType = "share"
	ActionView  ActionType = "view"
)

// Weight is the affinity an action contributes to the user's profile vector.
// Unknown actions weigh nothing.
func (a ActionType) Weight() float64 {
	switch a {
	case ActionLike:
		return 1.0
	case ActionSave:
		return 2.0
	case ActionVisit:
		return 1.5
	case ActionShare:
		return 3.0
	case ActionView:
		return 0.5
	default:
		return 0
	}
}

// Valid reports whether a is one of the known actions.
func (a ActionType) Valid() bool {
	return a.Weight() > 0
}

// Interaction is one recorded user action on a location.
type Interaction struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	LocationID string     `json:"location_id"`
	Category   string     `json:"category"`
	Action     ActionType `json:"action"`
	CreatedAt  time.Time  `json:"created_at"`
}

// InteractionRequest is the body of POST /users/{userID}/interactions.
type InteractionRequest struct {
	LocationID string `json:"location_id" validate:"required,max=128"`
	Action     string `json:"action" validate:"required,oneof=like save visit share view"`
	Category   string `json:"category,omitempty" validate:"omitempty,spott_category"`
}

// Follow is a directed follower relationship.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	AvatarURL  string    `json:"avatar_url,omitempty"` // followee's avatar
	CreatedAt  time.Time `json:"created_at"`
}

// FriendInfluence is how many of a viewer's followees recently interacted with a location.
type FriendInfluence struct {
	Count   int      `json:"count"`
	Avatars []string `json:"avatars,omitempty"`
}

// CategoryActionCount is how often a user performed an action on locations of one category.
type CategoryActionCount struct {
	Category string
	Action   ActionType
	Count    int
}
