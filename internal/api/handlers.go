// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package api

import (
	"context"
	"time"

	"github.com/tomtom215/spott/internal/config"
	"github.com/tomtom215/spott/internal/match"
	"github.com/tomtom215/spott/internal/models"
	"github.com/tomtom215/spott/internal/recommend"
)

// Version is reported by the readiness endpoint. Set at build time.
var Version = "dev"

// LocationStore reads the raw rows the dedupe endpoint merges.
type LocationStore interface {
	Ping(ctx context.Context) error
	ListInternalLocations(ctx context.Context, filter models.LocationFilter) ([]models.InternalLocation, error)
	ListSavedPlaces(ctx context.Context, filter models.LocationFilter) ([]models.ExternalPlace, error)
}

// Recommender is implemented by *recommend.Engine.
type Recommender interface {
	GetRecommendedLocations(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	GetUserProfileVector(ctx context.Context, userID string) (recommend.ProfileVector, error)
	TrackInteraction(ctx context.Context, in *models.Interaction) error
	ScoreForUser(ctx context.Context, userID, locationID string) (*recommend.RankedLocation, bool, error)
}

// Enricher is implemented by *enrich.Job.
type Enricher interface {
	Run(ctx context.Context, params models.EnrichParams) (*models.EnrichResult, error)
	DefaultParams() models.EnrichParams
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies of every endpoint.
type Handler struct {
	store       LocationStore
	recommender Recommender
	enricher    Enricher
	matcher     *match.Matcher
	cache       Pinger
	config      *config.Config
	startTime   time.Time
}

// NewHandler creates a handler. enricher may be nil when enrichment is disabled.
func NewHandler(cfg *config.Config, store LocationStore, rec Recommender, enricher Enricher, matcher *match.Matcher) *Handler {
	if matcher == nil {
		matcher = match.New(match.DefaultConfig())
	}
	return &Handler{
		store:       store,
		recommender: rec,
		enricher:    enricher,
		matcher:     matcher,
		config:      cfg,
		startTime:   time.Now(),
	}
}

// SetCache adds the profile cache backend to readiness checks.
func (h *Handler) SetCache(c Pinger) {
	h.cache = c
}
