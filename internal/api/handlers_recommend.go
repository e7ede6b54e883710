// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/models"
	"github.com/tomtom215/spott/internal/recommend"
)

// ProfileResponse is the data of GET /users/{userID}/profile.
type ProfileResponse struct {
	UserID  string                  `json:"user_id"`
	Profile recommend.ProfileVector `json:"profile"`
}

// Recommendations handles GET /api/v1/users/{userID}/recommendations.
//
// Query parameters:
//   - city: restrict to one city
//   - category: restrict to one category
//   - limit: rows to return (engine default when omitted, capped by the engine)
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error(), nil, nil)
		return
	}
	q := RecommendationsQuery{
		UserID:   userIDParam(r),
		City:     queryParam(r, "city"),
		Category: queryParam(r, "category"),
		Limit:    limit,
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	resp, err := h.recommender.GetRecommendedLocations(r.Context(), recommend.Request{
		UserID:   q.UserID,
		City:     q.City,
		Category: q.Category,
		Limit:    q.Limit,
	})
	if err != nil {
		respondFault(w, r, err)
		return
	}
	respondData(w, http.StatusOK, resp, start, resp.Degraded)
}

// UserProfile handles GET /api/v1/users/{userID}/profile. An unreadable
// interaction history yields an empty profile marked degraded.
func (h *Handler) UserProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p := UserPath{UserID: userIDParam(r)}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	vec, err := h.recommender.GetUserProfileVector(r.Context(), p.UserID)
	degraded := false
	if err != nil {
		if !fault.Is(err, fault.KindUnavailable) {
			respondFault(w, r, err)
			return
		}
		degraded = true
	}
	respondData(w, http.StatusOK, ProfileResponse{UserID: p.UserID, Profile: vec}, start, degraded)
}

// TrackInteraction handles POST /api/v1/users/{userID}/interactions.
//
// Body: models.InteractionRequest. Responds 201 with the stored interaction.
func (h *Handler) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p := UserPath{UserID: userIDParam(r)}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	var req models.InteractionRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid request body", nil, err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	in := &models.Interaction{
		ID:         uuid.NewString(),
		UserID:     p.UserID,
		LocationID: req.LocationID,
		Category:   req.Category,
		Action:     models.ActionType(req.Action),
	}
	if err := h.recommender.TrackInteraction(r.Context(), in); err != nil {
		respondFault(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, in, start, false)
}

// LocationScore handles GET /api/v1/users/{userID}/locations/{locationID}/score.
func (h *Handler) LocationScore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := ScoreQuery{
		UserID:     userIDParam(r),
		LocationID: chi.URLParam(r, "locationID"),
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	ranked, degraded, err := h.recommender.ScoreForUser(r.Context(), q.UserID, q.LocationID)
	if err != nil {
		respondFault(w, r, err)
		return
	}
	respondData(w, http.StatusOK, ranked, start, degraded)
}
