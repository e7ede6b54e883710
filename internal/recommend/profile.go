// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/metrics"
	"github.com/tomtom215/spott/internal/models"
)

// ProfileKey is the cache key of a user's profile vector.
func ProfileKey(userID string) string {
	return "profile:" + userID
}

// BuildProfileVector folds per-category action counts into a normalized
// vector. Rows with an empty category or an unknown action are ignored.
func BuildProfileVector(counts []models.CategoryActionCount, now time.Time) ProfileVector {
	v := ProfileVector{Weights: make(map[string]float64), ComputedAt: now.UTC()}

	var total float64
	for _, c := range counts {
		w := c.Action.Weight()
		if c.Category == "" || w == 0 || c.Count <= 0 {
			continue
		}
		v.Weights[c.Category] += w * float64(c.Count)
		v.TotalInteractions += c.Count
		total += w * float64(c.Count)
	}
	if total == 0 {
		return v
	}
	for cat := range v.Weights {
		v.Weights[cat] /= total
	}
	return v
}

// GetUserProfileVector returns the user's category affinity, served from
// cache for Config.ProfileCacheTTL. When the interactions cannot be read
// the vector is empty and the error is returned alongside it, so callers
// can rank without personalization.
func (e *Engine) GetUserProfileVector(ctx context.Context, userID string) (ProfileVector, error) {
	const op = "recommend.GetUserProfileVector"

	v, res, err := e.profiles.GetOrCompute(ctx, ProfileKey(userID), func(ctx context.Context) (ProfileVector, error) {
		counts, err := e.store.CategoryActionCounts(ctx, userID)
		if err != nil {
			return ProfileVector{}, err
		}
		return BuildProfileVector(counts, e.now()), nil
	})
	if err != nil {
		empty := ProfileVector{Weights: map[string]float64{}}
		if fault.Is(err, fault.KindCanceled) {
			return empty, fault.Wrap(op, err)
		}
		metrics.ProfileVectorDegraded.Inc()
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("Profile vector unavailable, using empty vector")
		return empty, fault.E(op, fault.KindUnavailable, err)
	}
	if v.Weights == nil {
		v.Weights = map[string]float64{}
	}
	e.logger.Debug().Str("user_id", userID).Bool("cached", res.Cached).
		Int("categories", len(v.Weights)).Msg("Profile vector loaded")
	return v, nil
}

// TrackInteraction stores an interaction and drops the user's cached
// profile vector so the next read recomputes it. A missing category is
// taken from the location.
//
// If the interaction is stored but the cache entry cannot be removed, an
// unavailable error is returned with the interaction id filled in.
func (e *Engine) TrackInteraction(ctx context.Context, in *models.Interaction) error {
	const op = "recommend.TrackInteraction"

	in.UserID = strings.TrimSpace(in.UserID)
	in.LocationID = strings.TrimSpace(in.LocationID)
	switch {
	case in.UserID == "":
		return fault.E(op, fault.KindInvalid, fmt.Errorf("user id is required"))
	case in.LocationID == "":
		return fault.E(op, fault.KindInvalid, fmt.Errorf("location id is required"))
	case !in.Action.Valid():
		return fault.E(op, fault.KindInvalid, fmt.Errorf("unknown action %q", in.Action))
	}

	if in.Category == "" {
		loc, err := e.store.GetLocation(ctx, in.LocationID)
		if err != nil {
			return fault.Wrap(op, err)
		}
		in.Category = loc.Category
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = e.now().UTC()
	}

	if err := e.store.InsertInteraction(ctx, in); err != nil {
		return fault.Wrap(op, err)
	}

	// Detached so a canceled request cannot leave a stale vector behind.
	ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := e.profiles.Invalidate(ictx, ProfileKey(in.UserID)); err != nil {
		e.logger.Error().Err(err).Str("user_id", in.UserID).Str("interaction_id", in.ID).
			Msg("Interaction stored but profile cache invalidation failed")
		return fault.E(op, fault.KindUnavailable, err)
	}

	e.logger.Debug().Str("user_id", in.UserID).Str("location_id", in.LocationID).
		Str("action", string(in.Action)).Msg("Interaction tracked")
	return nil
}
