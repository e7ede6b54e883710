// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package recommend

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/spott/internal/cache"
	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/models"
)

// fakeStore implements Store in memory. Category counts are derived from
// the stored interactions so tracking changes the next profile vector.
type fakeStore struct {
	mu sync.Mutex

	locations    []models.Location
	interactions []models.Interaction
	precomputed  map[string][]models.PrecomputedCandidate
	friends      map[string]models.FriendInfluence
	trends       map[string]float64
	active       []string
	topCities    map[string][]string
	replaced     map[string][]models.PrecomputedRecommendation

	countsErr    error
	friendsErr   error
	trendsErr    error
	candidateErr error
	activeErr    error
	refreshErr   error
	topCitiesErr map[string]error

	countsCalls  atomic.Int32
	inFlight     atomic.Int32
	maxInFlight  atomic.Int32
	topCityDelay time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		precomputed:  map[string][]models.PrecomputedCandidate{},
		friends:      map[string]models.FriendInfluence{},
		trends:       map[string]float64{},
		topCities:    map[string][]string{},
		replaced:     map[string][]models.PrecomputedRecommendation{},
		topCitiesErr: map[string]error{},
	}
}

func (f *fakeStore) CategoryActionCounts(_ context.Context, userID string) ([]models.CategoryActionCount, error) {
	f.countsCalls.Add(1)
	if f.countsErr != nil {
		return nil, f.countsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	type key struct {
		cat    string
		action models.ActionType
	}
	agg := map[key]int{}
	for _, in := range f.interactions {
		if in.UserID == userID {
			agg[key{in.Category, in.Action}]++
		}
	}
	out := make([]models.CategoryActionCount, 0, len(agg))
	for k, n := range agg {
		out = append(out, models.CategoryActionCount{Category: k.cat, Action: k.action, Count: n})
	}
	return out, nil
}

func (f *fakeStore) InsertInteraction(_ context.Context, in *models.Interaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.ID == "" {
		in.ID = "int-" + in.UserID + "-" + in.LocationID
	}
	f.interactions = append(f.interactions, *in)
	return nil
}

func (f *fakeStore) GetLocation(_ context.Context, id string) (*models.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.locations {
		if f.locations[i].ID == id {
			l := f.locations[i]
			return &l, nil
		}
	}
	return nil, fault.E("fake.GetLocation", fault.KindNotFound, nil)
}

func (f *fakeStore) PrecomputedRecommendations(_ context.Context, userID, city, category string, limit int) ([]models.PrecomputedCandidate, error) {
	if f.candidateErr != nil {
		return nil, f.candidateErr
	}
	var out []models.PrecomputedCandidate
	for _, c := range f.precomputed[userID] {
		if (city == "" || c.Location.City == city) && (category == "" || c.Location.Category == category) {
			out = append(out, c)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) RecentLocationsInCity(_ context.Context, city, category string, limit int) ([]models.Location, error) {
	if f.candidateErr != nil {
		return nil, f.candidateErr
	}
	f.mu.Lock()
	var out []models.Location
	for _, l := range f.locations {
		if (city == "" || l.City == city) && (category == "" || l.Category == category) {
			out = append(out, l)
		}
	}
	f.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].LastActivity(), out[j].LastActivity()
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) FriendInfluence(_ context.Context, _ string, ids []string, _ time.Time, _ int) (map[string]models.FriendInfluence, error) {
	if f.friendsErr != nil {
		return nil, f.friendsErr
	}
	out := map[string]models.FriendInfluence{}
	for _, id := range ids {
		if fi, ok := f.friends[id]; ok {
			out[id] = fi
		}
	}
	return out, nil
}

func (f *fakeStore) TrendRatios(_ context.Context, ids []string) (map[string]float64, error) {
	if f.trendsErr != nil {
		return nil, f.trendsErr
	}
	out := map[string]float64{}
	for _, id := range ids {
		if r, ok := f.trends[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (f *fakeStore) ActiveUsers(context.Context, time.Time) ([]string, error) {
	return f.active, f.activeErr
}

func (f *fakeStore) UserTopCities(_ context.Context, userID string, n int) ([]string, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		prev := f.maxInFlight.Load()
		if cur <= prev || f.maxInFlight.CompareAndSwap(prev, cur) {
			break
		}
	}
	if f.topCityDelay > 0 {
		time.Sleep(f.topCityDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.topCitiesErr[userID]; err != nil {
		return nil, err
	}
	cities := f.topCities[userID]
	if len(cities) > n {
		cities = cities[:n]
	}
	return cities, nil
}

func (f *fakeStore) ReplacePrecomputedRecommendations(_ context.Context, userID string, recs []models.PrecomputedRecommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced[userID] = recs
	return nil
}

func (f *fakeStore) RefreshTrendRatios(context.Context, time.Time) (int64, error) {
	if f.refreshErr != nil {
		return 0, f.refreshErr
	}
	return int64(len(f.trends)), nil
}

func newTestEngine(t *testing.T, store *fakeStore, cfg *Config) *Engine {
	t.Helper()

	mem := cache.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = mem.Close() })

	if cfg == nil {
		cfg = DefaultConfig()
	}
	e, err := NewEngine(cfg, store, cache.NewLoader[ProfileVector]("test_profile", mem, time.Hour))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.now = func() time.Time { return testNow }
	return e
}
