// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package recommend

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/metrics"
	"github.com/tomtom215/spott/internal/models"
)

// candidatesPerCity bounds how many recent locations each top city contributes.
const candidatesPerCity = 200

// PrecomputeSummary reports one Precompute run.
type PrecomputeSummary struct {
	Users       int           `json:"users"`
	Failed      int           `json:"failed"`
	Rows        int           `json:"rows"`
	TrendRatios int64         `json:"trend_ratios"`
	Duration    time.Duration `json:"duration"`
}

// Precompute refreshes trend ratios, then rebuilds the stored
// recommendations of every user active within Config.ActiveWindow.
// Users are scored Config.PrecomputeConcurrency at a time. A failure for
// one user is logged and counted; the run only fails when the user list
// cannot be read or ctx is canceled.
func (e *Engine) Precompute(ctx context.Context) (*PrecomputeSummary, error) {
	const op = "recommend.Precompute"
	start := time.Now()
	now := e.now()
	sum := &PrecomputeSummary{}

	n, err := e.store.RefreshTrendRatios(ctx, now)
	if err != nil {
		if fault.Is(err, fault.KindCanceled) {
			return sum, fault.Wrap(op, err)
		}
		e.logger.Warn().Err(err).Msg("Trend ratio refresh failed, scoring with previous ratios")
	}
	sum.TrendRatios = n

	users, err := e.store.ActiveUsers(ctx, now.Add(-e.cfg.ActiveWindow))
	if err != nil {
		return sum, fault.Wrap(op, err)
	}
	sum.Users = len(users)

	var (
		failed atomic.Int64
		rows   atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.PrecomputeConcurrency)
	for _, userID := range users {
		g.Go(func() error {
			written, err := e.precomputeUser(gctx, userID, now)
			if err != nil {
				if fault.Is(err, fault.KindCanceled) {
					return err
				}
				failed.Add(1)
				metrics.PrecomputeUsers.WithLabelValues("error").Inc()
				e.logger.Warn().Err(err).Str("user_id", userID).Msg("Precompute failed for user")
				return nil
			}
			rows.Add(int64(written))
			metrics.PrecomputeUsers.WithLabelValues("success").Inc()
			return nil
		})
	}
	err = g.Wait()

	sum.Failed = int(failed.Load())
	sum.Rows = int(rows.Load())
	sum.Duration = time.Since(start)
	metrics.PrecomputeDuration.Observe(sum.Duration.Seconds())
	if err != nil {
		return sum, fault.Wrap(op, err)
	}

	e.logger.Info().
		Int("users", sum.Users).
		Int("failed", sum.Failed).
		Int("rows", sum.Rows).
		Int64("trend_ratios", sum.TrendRatios).
		Dur("duration", sum.Duration).
		Msg("Recommendations precomputed")
	return sum, nil
}

// precomputeUser scores the recent locations of the user's top cities and
// replaces the user's stored rows with the best Config.PrecomputeTopN.
func (e *Engine) precomputeUser(ctx context.Context, userID string, now time.Time) (int, error) {
	cities, err := e.store.UserTopCities(ctx, userID, e.cfg.TopCities)
	if err != nil {
		return 0, err
	}
	if len(cities) == 0 {
		cities = []string{""}
	}

	locs, err := e.cityCandidates(ctx, cities)
	if err != nil {
		return 0, err
	}

	recs := []models.PrecomputedRecommendation{}
	if len(locs) > 0 {
		sig, err := e.signals(ctx, userID, locs)
		if err != nil {
			return 0, err
		}
		type scored struct {
			id      string
			score   float64
			friends int
		}
		all := make([]scored, 0, len(locs))
		for i := range locs {
			friends := sig.friends[locs[i].ID]
			s := ScoreLocation(ScoreInput{
				Location:   &locs[i],
				Profile:    &sig.profile,
				Friends:    friends,
				TrendRatio: sig.trends[locs[i].ID],
			}, e.cfg, now)
			all = append(all, scored{id: locs[i].ID, score: s.Score, friends: friends.Count})
		}
		sort.SliceStable(all, func(i, j int) bool {
			if all[i].score != all[j].score {
				return all[i].score > all[j].score
			}
			return all[i].id < all[j].id
		})
		if len(all) > e.cfg.PrecomputeTopN {
			all = all[:e.cfg.PrecomputeTopN]
		}
		recs = make([]models.PrecomputedRecommendation, len(all))
		for i, s := range all {
			recs[i] = models.PrecomputedRecommendation{
				UserID:       userID,
				LocationID:   s.id,
				Score:        Relevance(s.score),
				FriendsSaved: s.friends,
				ComputedAt:   now.UTC(),
			}
		}
	}

	if err := e.store.ReplacePrecomputedRecommendations(ctx, userID, recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// cityCandidates reads recent locations for each city concurrently and
// merges them without duplicates, in city order.
func (e *Engine) cityCandidates(ctx context.Context, cities []string) ([]models.Location, error) {
	perCity := make([][]models.Location, len(cities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.PrecomputeConcurrency)
	for i, city := range cities {
		g.Go(func() error {
			locs, err := e.store.RecentLocationsInCity(gctx, city, "", candidatesPerCity)
			if err != nil {
				return err
			}
			perCity[i] = locs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []models.Location
	for _, locs := range perCity {
		for _, l := range locs {
			if seen[l.ID] {
				continue
			}
			seen[l.ID] = true
			out = append(out, l)
		}
	}
	return out, nil
}
