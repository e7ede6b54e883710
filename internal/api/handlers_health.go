// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/spott/internal/models"
)

const readinessTimeout = 2 * time.Second

// HealthLive handles GET /api/v1/health/live. It succeeds while the process runs.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady handles GET /api/v1/health/ready. It returns 503 until the
// database answers. A failing profile cache only marks the status degraded
// because recommendations still work without it.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	dbOK := h.store != nil && h.store.Ping(ctx) == nil
	cacheOK := h.cache == nil || h.cache.Ping(ctx) == nil

	health := models.HealthStatus{
		Status:    "healthy",
		Database:  dbOK,
		Cache:     cacheOK,
		Version:   Version,
		Timestamp: time.Now().UTC(),
	}
	status := http.StatusOK
	switch {
	case !dbOK:
		health.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	case !cacheOK:
		health.Status = "degraded"
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: models.Metadata{Timestamp: health.Timestamp, Degraded: !cacheOK},
	})
}
