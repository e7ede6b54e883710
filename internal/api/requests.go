// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// UniqueLocationsQuery is the query of GET /locations/unique.
type UniqueLocationsQuery struct {
	City     string `json:"city" validate:"omitempty,max=100"`
	Category string `json:"category" validate:"omitempty,spott_category"`
	Limit    int    `json:"limit" validate:"min=0,max=1000"`
}

// RecommendationsQuery is the path and query of GET /users/{userID}/recommendations.
type RecommendationsQuery struct {
	UserID   string `json:"user_id" validate:"required,spott_id"`
	City     string `json:"city" validate:"omitempty,max=100"`
	Category string `json:"category" validate:"omitempty,spott_category"`
	Limit    int    `json:"limit" validate:"min=0,max=100"`
}

// ScoreQuery is the path of GET /users/{userID}/locations/{locationID}/score.
type ScoreQuery struct {
	UserID     string `json:"user_id" validate:"required,spott_id"`
	LocationID string `json:"location_id" validate:"required,spott_id"`
}

// UserPath is the {userID} path segment.
type UserPath struct {
	UserID string `json:"user_id" validate:"required,spott_id"`
}

func userIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "userID"))
}

func queryParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
