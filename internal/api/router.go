// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/spott/internal/config"
	"github.com/tomtom215/spott/internal/middleware"
)

const (
	defaultRequestTimeout = 10 * time.Second
	// A full enrichment batch paces Places calls over several minutes.
	adminRequestTimeout = 15 * time.Minute
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	adminToken    string
	timeout       time.Duration
}

// NewRouter creates a router for h using the server and security settings of cfg.
func NewRouter(h *Handler, cfg *config.Config) *Router {
	router := &Router{
		handler:       h,
		chiMiddleware: NewChiMiddleware(nil),
		timeout:       defaultRequestTimeout,
	}
	if cfg != nil {
		router.chiMiddleware = NewChiMiddleware(ChiMiddlewareConfigFrom(&cfg.Security))
		router.adminToken = cfg.Security.AdminToken
		if cfg.Server.Timeout > 0 {
			router.timeout = cfg.Server.Timeout
		}
	}
	return router
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(router.chiMiddleware.RateLimit())

		r.Route("/health", func(r chi.Router) {
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(router.timeout))
			r.Use(middleware.Compression)

			r.Get("/locations/unique", router.handler.UniqueLocations)

			r.Route("/users/{userID}", func(r chi.Router) {
				r.Get("/recommendations", router.handler.Recommendations)
				r.Get("/profile", router.handler.UserProfile)
				r.Post("/interactions", router.handler.TrackInteraction)
				r.Get("/locations/{locationID}/score", router.handler.LocationScore)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminToken(router.adminToken))
			r.Use(chimiddleware.Timeout(adminRequestTimeout))
			r.Post("/enrich", router.handler.Enrich)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
