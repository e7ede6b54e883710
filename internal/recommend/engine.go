// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/spott/internal/cache"
	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/logging"
	"github.com/tomtom215/spott/internal/metrics"
	"github.com/tomtom215/spott/internal/models"
)

// Store is the data access the engine needs. *database.DB implements it.
type Store interface {
	// Profiles and interactions
	CategoryActionCounts(ctx context.Context, userID string) ([]models.CategoryActionCount, error)
	InsertInteraction(ctx context.Context, in *models.Interaction) error
	GetLocation(ctx context.Context, id string) (*models.Location, error)

	// Candidates
	PrecomputedRecommendations(ctx context.Context, userID, city, category string, limit int) ([]models.PrecomputedCandidate, error)
	RecentLocationsInCity(ctx context.Context, city, category string, limit int) ([]models.Location, error)

	// Signals
	FriendInfluence(ctx context.Context, viewerID string, locationIDs []string, since time.Time, maxAvatars int) (map[string]models.FriendInfluence, error)
	TrendRatios(ctx context.Context, locationIDs []string) (map[string]float64, error)

	// Precompute
	ActiveUsers(ctx context.Context, since time.Time) ([]string, error)
	UserTopCities(ctx context.Context, userID string, n int) ([]string, error)
	ReplacePrecomputedRecommendations(ctx context.Context, userID string, recs []models.PrecomputedRecommendation) error
	RefreshTrendRatios(ctx context.Context, now time.Time) (int64, error)
}

// Engine serves ranked recommendations and owns the profile vector cache.
type Engine struct {
	cfg      *Config
	store    Store
	profiles *cache.Loader[ProfileVector]
	logger   zerolog.Logger
	now      func() time.Time
}

// NewEngine creates an engine. profiles caches vectors under "profile:<userID>".
func NewEngine(cfg *Config, store Store, profiles *cache.Loader[ProfileVector]) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("recommend: store is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("recommend: profile loader is required")
	}
	return &Engine{
		cfg:      cfg,
		store:    store,
		profiles: profiles,
		logger:   logging.WithComponent("recommend"),
		now:      time.Now,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg
}

// candidate is a location awaiting live scoring.
type candidate struct {
	loc          models.Location
	source       Source
	relevance    float64
	friendsSaved int
}

// GetRecommendedLocations ranks locations for req.UserID.
//
// Precomputed rows are used when the user has any matching the filters;
// otherwise the most recent locations in the city are ranked instead. A
// failure reading candidates is returned. Failures reading the profile,
// friend or trend signals only set Response.Degraded.
func (e *Engine) GetRecommendedLocations(ctx context.Context, req Request) (*Response, error) {
	const op = "recommend.GetRecommendedLocations"
	if req.UserID == "" {
		return nil, fault.E(op, fault.KindInvalid, fmt.Errorf("user id is required"))
	}
	limit := e.cfg.clampLimit(req.Limit)

	cands, source, err := e.candidates(ctx, req, limit)
	if err != nil {
		return nil, fault.Wrap(op, err)
	}
	resp := &Response{Items: []RankedLocation{}, Source: source}
	if len(cands) == 0 {
		return resp, nil
	}

	locs := make([]models.Location, len(cands))
	for i := range cands {
		locs[i] = cands[i].loc
	}
	sig, err := e.signals(ctx, req.UserID, locs)
	if err != nil {
		return nil, fault.Wrap(op, err)
	}
	resp.Degraded = sig.degraded

	now := e.now()
	items := make([]RankedLocation, 0, len(cands))
	for i := range cands {
		items = append(items, e.rank(&cands[i], sig, now))
	}
	sortRanked(items)
	if len(items) > limit {
		items = items[:limit]
	}
	for i := range items {
		metrics.RecordRecommendation(string(items[i].Source), string(items[i].Score.Badge))
	}
	resp.Items = items
	return resp, nil
}

func (e *Engine) candidates(ctx context.Context, req Request, limit int) ([]candidate, Source, error) {
	pre, err := e.store.PrecomputedRecommendations(ctx, req.UserID, req.City, req.Category, limit)
	if err != nil {
		return nil, SourcePrecomputed, err
	}
	if len(pre) > 0 {
		out := make([]candidate, len(pre))
		for i := range pre {
			out[i] = candidate{
				loc:          pre[i].Location,
				source:       SourcePrecomputed,
				relevance:    pre[i].Score,
				friendsSaved: pre[i].FriendsSaved,
			}
		}
		return out, SourcePrecomputed, nil
	}

	recent, err := e.store.RecentLocationsInCity(ctx, req.City, req.Category, limit)
	if err != nil {
		return nil, SourceFallback, err
	}
	out := make([]candidate, len(recent))
	for i := range recent {
		out[i] = candidate{loc: recent[i], source: SourceFallback, relevance: e.cfg.FallbackScore}
	}
	return out, SourceFallback, nil
}

// signals holds the per-request inputs read alongside the candidates.
type signals struct {
	profile  ProfileVector
	friends  map[string]models.FriendInfluence
	trends   map[string]float64
	degraded bool
}

// signals reads the profile vector, friend influence and trend ratios
// concurrently. Only cancellation is returned as an error.
func (e *Engine) signals(ctx context.Context, userID string, locs []models.Location) (*signals, error) {
	ids := make([]string, len(locs))
	for i := range locs {
		ids[i] = locs[i].ID
	}

	var (
		sig                                        signals
		profileFailed, friendsFailed, trendsFailed bool
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := e.GetUserProfileVector(gctx, userID)
		sig.profile = v
		if err != nil {
			if fault.Is(err, fault.KindCanceled) {
				return err
			}
			profileFailed = true
		}
		return nil
	})
	g.Go(func() error {
		since := e.now().Add(-e.cfg.FriendWindow)
		f, err := e.store.FriendInfluence(gctx, userID, ids, since, e.cfg.MaxFriendAvatars)
		if err != nil {
			if fault.Is(err, fault.KindCanceled) {
				return err
			}
			e.logger.Warn().Err(err).Str("user_id", userID).Msg("Friend influence unavailable, ranking without it")
			friendsFailed = true
			return nil
		}
		sig.friends = f
		return nil
	})
	g.Go(func() error {
		t, err := e.store.TrendRatios(gctx, ids)
		if err != nil {
			if fault.Is(err, fault.KindCanceled) {
				return err
			}
			e.logger.Warn().Err(err).Msg("Trend ratios unavailable, ranking without them")
			trendsFailed = true
			return nil
		}
		sig.trends = t
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sig.degraded = profileFailed || friendsFailed || trendsFailed
	return &sig, nil
}

func (e *Engine) rank(c *candidate, sig *signals, now time.Time) RankedLocation {
	friends := sig.friends[c.loc.ID]
	score := ScoreLocation(ScoreInput{
		Location:   &c.loc,
		Profile:    &sig.profile,
		Friends:    friends,
		TrendRatio: sig.trends[c.loc.ID],
	}, e.cfg, now)

	if c.source == SourcePrecomputed {
		score.Badge = AssignBadge(BadgeSignals{
			IsTrending:         score.IsTrending,
			IsRecent:           score.IsRecent,
			CategoryPreference: score.CategoryPreference,
			FriendCount:        friends.Count,
			Precomputed:        true,
			FriendsSaved:       c.friendsSaved,
			Relevance:          c.relevance,
		})
	}

	return RankedLocation{
		Location:     c.loc,
		Score:        score,
		Friends:      friends,
		Source:       c.source,
		Relevance:    c.relevance,
		FriendsSaved: c.friendsSaved,
	}
}

// sortRanked orders by score descending, then location id.
func sortRanked(items []RankedLocation) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score.Score != items[j].Score.Score {
			return items[i].Score.Score > items[j].Score.Score
		}
		return items[i].Location.ID < items[j].Location.ID
	})
}

// ScoreForUser scores one location for one user on demand. The bool
// reports whether a secondary signal was unavailable.
func (e *Engine) ScoreForUser(ctx context.Context, userID, locationID string) (*RankedLocation, bool, error) {
	const op = "recommend.ScoreForUser"
	if userID == "" || locationID == "" {
		return nil, false, fault.E(op, fault.KindInvalid, fmt.Errorf("user id and location id are required"))
	}
	loc, err := e.store.GetLocation(ctx, locationID)
	if err != nil {
		return nil, false, fault.Wrap(op, err)
	}
	sig, err := e.signals(ctx, userID, []models.Location{*loc})
	if err != nil {
		return nil, false, fault.Wrap(op, err)
	}
	c := candidate{loc: *loc, source: SourceLive}
	ranked := e.rank(&c, sig, e.now())
	return &ranked, sig.degraded, nil
}
