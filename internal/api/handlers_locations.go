// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package api

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/spott/internal/metrics"
	"github.com/tomtom215/spott/internal/models"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// UniqueLocationsResponse is the data of GET /locations/unique.
type UniqueLocationsResponse struct {
	Cards        []models.LocationCard `json:"cards"`
	InputRecords int                   `json:"input_records"`
	TotalCards   int                   `json:"total_cards"`
}

// UniqueLocations handles GET /api/v1/locations/unique.
//
// Query parameters:
//   - city: restrict to one city
//   - category: restrict to one category
//   - limit: cards to return (default from api.default_page_size)
//
// Internal locations and saved Places results are read concurrently,
// normalized, and merged into one card per physical place. Cards keep the
// matcher's order; limit truncates after merging so post counts are complete.
func (h *Handler) UniqueLocations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := getIntParam(r, "limit", h.defaultPageSize())
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error(), nil, nil)
		return
	}
	q := UniqueLocationsQuery{
		City:     queryParam(r, "city"),
		Category: queryParam(r, "category"),
		Limit:    limit,
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if q.Limit == 0 || q.Limit > h.maxPageSize() {
		q.Limit = h.maxPageSize()
	}

	filter := models.LocationFilter{City: q.City, Category: q.Category}
	var (
		internal []models.InternalLocation
		external []models.ExternalPlace
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		internal, err = h.store.ListInternalLocations(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		external, err = h.store.ListSavedPlaces(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		respondFault(w, r, err)
		return
	}

	sources := make([]models.LocationSource, 0, len(internal)+len(external))
	for i := range internal {
		sources = append(sources, &internal[i])
	}
	for i := range external {
		sources = append(sources, &external[i])
	}
	records := models.NormalizeAll(sources)
	cards := h.matcher.Dedupe(records)
	metrics.RecordDedupe(len(records), len(cards))

	total := len(cards)
	if len(cards) > q.Limit {
		cards = cards[:q.Limit]
	}

	respondData(w, http.StatusOK, UniqueLocationsResponse{
		Cards:        cards,
		InputRecords: len(records),
		TotalCards:   total,
	}, start, false)
}

func (h *Handler) defaultPageSize() int {
	if h.config != nil && h.config.API.DefaultPageSize > 0 {
		return h.config.API.DefaultPageSize
	}
	return defaultPageSize
}

func (h *Handler) maxPageSize() int {
	if h.config != nil && h.config.API.MaxPageSize > 0 {
		return h.config.API.MaxPageSize
	}
	return maxPageSize
}
