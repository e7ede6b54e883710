// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package enrich

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/spott/internal/config"
	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/models"
	"github.com/tomtom215/spott/internal/places"
)

// fakeStore keeps locations in enrichment order.
type fakeStore struct {
	mu       sync.Mutex
	locs     []models.Location
	spend    float64
	usage    []models.APIUsage
	updates  map[string]*models.PlaceEnrichment
	deleted  []string
	spendErr error
}

func newFakeStore(locs ...models.Location) *fakeStore {
	return &fakeStore{locs: locs, updates: make(map[string]*models.PlaceEnrichment)}
}

func (s *fakeStore) ListLocationsForEnrichment(_ context.Context, offset, limit int) ([]models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset >= len(s.locs) {
		return []models.Location{}, nil
	}
	end := min(len(s.locs), offset+limit)
	return append([]models.Location(nil), s.locs[offset:end]...), nil
}

func (s *fakeStore) UpdateLocationEnrichment(_ context.Context, id string, e *models.PlaceEnrichment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[id] = e
	return nil
}

func (s *fakeStore) DeleteLocation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.locs {
		if s.locs[i].ID == id {
			s.locs = append(s.locs[:i], s.locs[i+1:]...)
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return fault.E("fake.DeleteLocation", fault.KindNotFound, errors.New("missing"))
}

func (s *fakeStore) RecordAPIUsage(_ context.Context, u *models.APIUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage = append(s.usage, *u)
	return nil
}

func (s *fakeStore) MonthlySpend(context.Context, time.Time) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spend, s.spendErr
}

// fakePlaces answers by location name / place id.
type fakePlaces struct {
	mu           sync.Mutex
	unconfigured bool
	find         map[string]string // query -> place id; missing means ZERO_RESULTS
	detailsErr   map[string]error
	photos       int
	findCalls    int
	detailsCalls int
}

func (p *fakePlaces) Configured() bool { return !p.unconfigured }

func (p *fakePlaces) FindPlace(_ context.Context, query string, _ *models.Coordinates) (*places.Candidate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.findCalls++
	id, ok := p.find[query]
	if !ok {
		return nil, fault.E("places.FindPlace", fault.KindNotFound, errors.New("ZERO_RESULTS"))
	}
	return &places.Candidate{PlaceID: id}, nil
}

func (p *fakePlaces) Details(_ context.Context, placeID string, opts places.DetailsOptions) (*places.Details, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detailsCalls++
	if err := p.detailsErr[placeID]; err != nil {
		return nil, err
	}
	d := &places.Details{
		PlaceID:          placeID,
		FormattedAddress: "1 Found St",
		Location:         &models.Coordinates{Lat: 1, Lon: 2},
	}
	if opts.Hours {
		d.OpeningHours = []string{"Monday: 9AM-5PM"}
	}
	if opts.Photos {
		for i := 0; i < p.photos; i++ {
			d.PhotoReferences = append(d.PhotoReferences, fmt.Sprintf("ref-%d", i))
		}
	}
	return d, nil
}

func (p *fakePlaces) PhotoURL(reference string, _ int) string {
	return "https://places.test/photo/" + reference
}

type fakeMirror struct {
	failIndex int
}

func (m fakeMirror) Mirror(_ context.Context, locationID string, index int, _ string) (string, error) {
	if index == m.failIndex {
		return "", errors.New("upload failed")
	}
	return fmt.Sprintf("https://cdn.test/%s/%d", locationID, index), nil
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
	err    error
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return s.err
}

func testConfig() *config.EnrichConfig {
	return &config.EnrichConfig{
		BatchSize:            10,
		MaxItems:             50,
		MinDelay:             100 * time.Millisecond,
		MaxDelay:             150 * time.Millisecond,
		MonthlyCreditUSD:     200,
		EnrichPhotos:         true,
		EnrichHours:          true,
		MaxPhotosPerLocation: 2,
		ResolvePlaceIDs:      true,
	}
}

func newTestJob(store Store, api PlacesAPI, cfg *config.EnrichConfig) (*Job, *sleepRecorder) {
	j := NewJob(store, api, fakeMirror{failIndex: -1}, cfg)
	rec := &sleepRecorder{}
	j.sleep = rec.sleep
	j.jitter = func(n int64) int64 { return n / 2 }
	j.now = func() time.Time { return time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC) }
	return j, rec
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func testParams() models.EnrichParams {
	return models.EnrichParams{
		BatchSize:            10,
		EnrichPhotos:         true,
		EnrichHours:          true,
		MaxPhotosPerLocation: 2,
		ResolvePlaceIDs:      true,
	}
}

func TestRun_EnrichesAndBills(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		models.Location{ID: "a", Name: "Cafe A", Address: "1 Main St"},
		models.Location{ID: "b", Name: "Bar B", GooglePlaceID: "ChIJ-B", Address: "2 Side St", Coordinates: &models.Coordinates{Lat: 5, Lon: 5}},
	)
	api := &fakePlaces{find: map[string]string{"Cafe A, 1 Main St": "ChIJ-A"}, photos: 3}
	job, rec := newTestJob(store, api, testConfig())

	res, err := job.Run(context.Background(), testParams())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Processed != 2 || res.Successful != 2 || res.Failed != 0 || res.Deleted != 0 {
		t.Errorf("counts = %d/%d/%d/%d, want 2/2/0/0", res.Processed, res.Successful, res.Failed, res.Deleted)
	}

	// a: find + details + 2 photos; b: details + 2 photos.
	wantCost := 0.017 + 0.017 + 2*0.007 + 0.017 + 2*0.007
	if !approx(res.TotalCost, wantCost) {
		t.Errorf("TotalCost = %v, want %v", res.TotalCost, wantCost)
	}
	if len(store.usage) != 7 {
		t.Errorf("ledger rows = %d, want 7", len(store.usage))
	}
	if !approx(res.RemainingBudget, 200-wantCost) {
		t.Errorf("RemainingBudget = %v, want %v", res.RemainingBudget, 200-wantCost)
	}

	ea := store.updates["a"]
	if ea == nil || ea.GooglePlaceID != "ChIJ-A" {
		t.Fatalf("update for a = %+v", ea)
	}
	if ea.Address != "" {
		t.Errorf("existing address overwritten with %q", ea.Address)
	}
	if ea.Coordinates == nil {
		t.Error("missing coordinates not filled")
	}
	if len(ea.PhotoURLs) != 2 || ea.PhotoURLs[0] != "https://cdn.test/a/0" {
		t.Errorf("PhotoURLs = %v", ea.PhotoURLs)
	}
	if eb := store.updates["b"]; eb == nil || eb.Coordinates != nil {
		t.Errorf("update for b = %+v, want coordinates kept", eb)
	}
	if res.Results[0].PhotosAdded != 2 || !res.Results[0].HoursAdded {
		t.Errorf("item a = %+v", res.Results[0])
	}

	if res.HasMore || res.NextOffset != 2 {
		t.Errorf("HasMore/NextOffset = %v/%d, want false/2", res.HasMore, res.NextOffset)
	}
	if len(rec.delays) != 1 || rec.delays[0] != 125*time.Millisecond {
		t.Errorf("delays = %v, want one 125ms pause between items", rec.delays)
	}
}

func TestRun_UnmatchedDeletedAndOffset(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		models.Location{ID: "keep-0", Name: "Known 0", GooglePlaceID: "P0"},
		models.Location{ID: "x", Name: "Ghost", City: "Nowhere"},
		models.Location{ID: "keep-1", Name: "Known 1", GooglePlaceID: "P1"},
		models.Location{ID: "later", Name: "Later", GooglePlaceID: "P2"},
	)
	api := &fakePlaces{}
	job, _ := newTestJob(store, api, testConfig())

	p := testParams()
	p.BatchSize = 3
	res, err := job.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Deleted != 1 || res.Successful != 2 {
		t.Errorf("Deleted/Successful = %d/%d, want 1/2", res.Deleted, res.Successful)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "x" {
		t.Errorf("deleted = %v, want [x]", store.deleted)
	}
	if res.Results[1].Status != models.EnrichStatusDeleted || !approx(res.Results[1].Cost, places.CostFindPlace) {
		t.Errorf("ghost item = %+v, want deleted with find cost", res.Results[1])
	}
	if !res.HasMore {
		t.Error("HasMore = false, want true")
	}
	if res.NextOffset != 2 {
		t.Fatalf("NextOffset = %d, want 0 + 3 - 1", res.NextOffset)
	}

	p.Offset = res.NextOffset
	res, err = job.Run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 1 || res.Results[0].LocationID != "later" {
		t.Errorf("second batch = %+v, want only 'later'", res.Results)
	}
	if res.HasMore {
		t.Error("second batch HasMore = true, want false")
	}
}

func TestRun_BudgetExhausted(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		models.Location{ID: "a", Name: "A", GooglePlaceID: "PA"},
		models.Location{ID: "b", Name: "B", GooglePlaceID: "PB"},
	)
	store.spend = 200 - 0.02
	job, _ := newTestJob(store, &fakePlaces{}, testConfig())

	p := testParams()
	p.EnrichPhotos = false
	res, err := job.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run() error = %v, budget exhaustion is not an error", err)
	}
	if !res.BudgetExhausted {
		t.Error("BudgetExhausted = false, want true")
	}
	if res.Processed != 1 {
		t.Errorf("Processed = %d, want 1", res.Processed)
	}
	if res.RemainingBudget != 0 {
		t.Errorf("RemainingBudget = %v, want 0", res.RemainingBudget)
	}
	if !res.HasMore || res.NextOffset != 1 {
		t.Errorf("HasMore/NextOffset = %v/%d, want true/1", res.HasMore, res.NextOffset)
	}
}

func TestRun_BudgetBelowOneDetailsCall(t *testing.T) {
	t.Parallel()

	store := newFakeStore(models.Location{ID: "a", Name: "A", GooglePlaceID: "PA"})
	store.spend = places.MonthlyFreeCredit - 0.01
	api := &fakePlaces{}
	job, _ := newTestJob(store, api, testConfig())

	res, err := job.Run(context.Background(), testParams())
	if err != nil {
		t.Fatalf("Run() error = %v, budget exhaustion is not an error", err)
	}
	if res.Processed != 0 {
		t.Errorf("Processed = %d, want 0", res.Processed)
	}
	if !res.BudgetExhausted {
		t.Error("BudgetExhausted = false, want true")
	}
	if res.RemainingBudget > 0 {
		t.Errorf("RemainingBudget = %v, want <= 0", res.RemainingBudget)
	}
	if api.findCalls != 0 || api.detailsCalls != 0 {
		t.Errorf("Places calls = find %d / details %d, want none", api.findCalls, api.detailsCalls)
	}
	if !res.HasMore || res.NextOffset != 0 {
		t.Errorf("HasMore/NextOffset = %v/%d, want true/0", res.HasMore, res.NextOffset)
	}
}

func TestRun_BudgetCoversResolveAndDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		loc           models.Location
		wantProcessed int
	}{
		// 0.025 left: enough for details alone.
		{"known place id", models.Location{ID: "a", Name: "A", GooglePlaceID: "PA"}, 1},
		// Resolving first would need 0.034.
		{"needs resolve", models.Location{ID: "b", Name: "B"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newFakeStore(tt.loc)
			store.spend = places.MonthlyFreeCredit - 0.025
			api := &fakePlaces{find: map[string]string{"B": "PB"}}
			job, _ := newTestJob(store, api, testConfig())

			p := testParams()
			p.EnrichPhotos = false
			res, err := job.Run(context.Background(), p)
			if err != nil {
				t.Fatal(err)
			}
			if res.Processed != tt.wantProcessed {
				t.Errorf("Processed = %d, want %d", res.Processed, tt.wantProcessed)
			}
			if res.TotalCost > 0.025+1e-9 {
				t.Errorf("TotalCost = %v, exceeds the remaining budget", res.TotalCost)
			}
		})
	}
}

func TestRun_NoBudgetAtAll(t *testing.T) {
	t.Parallel()

	store := newFakeStore(models.Location{ID: "a", Name: "A", GooglePlaceID: "PA"})
	store.spend = 250
	api := &fakePlaces{}
	job, _ := newTestJob(store, api, testConfig())

	res, err := job.Run(context.Background(), testParams())
	if err != nil {
		t.Fatal(err)
	}
	if !res.BudgetExhausted || res.Processed != 0 || api.detailsCalls != 0 {
		t.Errorf("result = %+v, details calls = %d", res, api.detailsCalls)
	}
}

func TestRun_ItemErrorsDoNotAbort(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		models.Location{ID: "a", Name: "A", GooglePlaceID: "PA"},
		models.Location{ID: "b", Name: "B", GooglePlaceID: "PB"},
		models.Location{ID: "c", Name: "C"},
	)
	api := &fakePlaces{detailsErr: map[string]error{
		"PA": fault.E("places.Details", fault.KindUnavailable, errors.New("503")),
	}}
	job, _ := newTestJob(store, api, testConfig())

	p := testParams()
	p.ResolvePlaceIDs = false
	res, err := job.Run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed != 1 || res.Successful != 1 || res.Processed != 3 {
		t.Errorf("counts = %+v", res)
	}
	if res.Results[0].Error == "" || res.Results[0].Cost != 0 {
		t.Errorf("failed item = %+v, want error and no cost", res.Results[0])
	}
	if res.Results[2].Status != models.EnrichStatusSkipped {
		t.Errorf("item without place id = %+v, want skipped", res.Results[2])
	}
	if len(store.deleted) != 0 {
		t.Errorf("deleted = %v, want none", store.deleted)
	}
}

func TestRun_DetailsNotFoundDeletes(t *testing.T) {
	t.Parallel()

	store := newFakeStore(models.Location{ID: "a", Name: "A", GooglePlaceID: "stale"})
	api := &fakePlaces{detailsErr: map[string]error{
		"stale": fault.E("places.Details", fault.KindNotFound, errors.New("NOT_FOUND")),
	}}
	job, _ := newTestJob(store, api, testConfig())

	res, err := job.Run(context.Background(), testParams())
	if err != nil {
		t.Fatal(err)
	}
	if res.Deleted != 1 || len(store.locs) != 0 {
		t.Errorf("Deleted = %d, rows left = %d, want 1/0", res.Deleted, len(store.locs))
	}
}

func TestRun_PhotoMirrorFailureSkipsPhoto(t *testing.T) {
	t.Parallel()

	store := newFakeStore(models.Location{ID: "a", Name: "A", GooglePlaceID: "PA"})
	job, _ := newTestJob(store, &fakePlaces{photos: 3}, testConfig())
	job.mirror = fakeMirror{failIndex: 0}

	p := testParams()
	p.MaxPhotosPerLocation = 3
	res, err := job.Run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Results[0].PhotosAdded != 2 {
		t.Errorf("PhotosAdded = %d, want 2", res.Results[0].PhotosAdded)
	}
	if !approx(res.TotalCost, places.CostPlaceDetails+2*places.CostPlacePhoto) {
		t.Errorf("TotalCost = %v, failed upload must not be billed", res.TotalCost)
	}
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		models.Location{ID: "a", Name: "A"},
		models.Location{ID: "b", Name: "B", GooglePlaceID: "PB"},
	)
	api := &fakePlaces{unconfigured: true}
	job, _ := newTestJob(store, api, testConfig())

	p := testParams()
	p.DryRun = true
	res, err := job.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if api.findCalls+api.detailsCalls != 0 {
		t.Error("dry run called Places")
	}
	if len(store.usage) != 0 || len(store.updates) != 0 || len(store.deleted) != 0 {
		t.Error("dry run wrote to the store")
	}
	want := (0.017 + 0.017 + 2*0.007) + (0.017 + 2*0.007)
	if !approx(res.TotalCost, want) {
		t.Errorf("TotalCost = %v, want estimate %v", res.TotalCost, want)
	}
	if !res.DryRun || res.Processed != 2 || res.NextOffset != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestRun_NotConfigured(t *testing.T) {
	t.Parallel()

	job, _ := newTestJob(newFakeStore(), &fakePlaces{unconfigured: true}, testConfig())
	_, err := job.Run(context.Background(), testParams())
	if !fault.Is(err, fault.KindInvalid) || !errors.Is(err, ErrPlacesNotConfigured) {
		t.Errorf("Run() error = %v, want not configured", err)
	}
}

func TestRun_SpendReadFails(t *testing.T) {
	t.Parallel()

	store := newFakeStore(models.Location{ID: "a", Name: "A", GooglePlaceID: "PA"})
	store.spendErr = fault.E("database.MonthlySpend", fault.KindUnavailable, errors.New("down"))
	job, _ := newTestJob(store, &fakePlaces{}, testConfig())

	if _, err := job.Run(context.Background(), testParams()); !fault.Is(err, fault.KindUnavailable) {
		t.Errorf("Run() error = %v, want unavailable", err)
	}
}

func TestRun_CanceledDuringDelay(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		models.Location{ID: "a", Name: "A", GooglePlaceID: "PA"},
		models.Location{ID: "b", Name: "B", GooglePlaceID: "PB"},
	)
	job, rec := newTestJob(store, &fakePlaces{}, testConfig())
	rec.err = context.Canceled

	res, err := job.Run(context.Background(), testParams())
	if !fault.Is(err, fault.KindCanceled) {
		t.Fatalf("Run() error = %v, want canceled", err)
	}
	if res == nil || res.Processed != 1 || res.NextOffset != 1 || !res.HasMore {
		t.Errorf("partial result = %+v", res)
	}
}

func TestRun_BatchCappedByMaxItems(t *testing.T) {
	t.Parallel()

	var locs []models.Location
	for i := 0; i < 5; i++ {
		locs = append(locs, models.Location{ID: fmt.Sprint(i), Name: "L", GooglePlaceID: "P"})
	}
	cfg := testConfig()
	cfg.MaxItems = 2
	job, _ := newTestJob(newFakeStore(locs...), &fakePlaces{}, cfg)

	p := testParams()
	p.BatchSize = 100
	res, err := job.Run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Processed != 2 || !res.HasMore {
		t.Errorf("Processed/HasMore = %d/%v, want 2/true", res.Processed, res.HasMore)
	}
}

func TestSweep_ProcessesEveryRowOnce(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		models.Location{ID: "1", Name: "One", GooglePlaceID: "P1"},
		models.Location{ID: "2", Name: "Gone"},
		models.Location{ID: "3", Name: "Three", GooglePlaceID: "P3"},
		models.Location{ID: "4", Name: "Also Gone"},
		models.Location{ID: "5", Name: "Five", GooglePlaceID: "P5"},
	)
	job, _ := newTestJob(store, &fakePlaces{}, testConfig())

	p := testParams()
	p.BatchSize = 2
	sum, err := job.Sweep(context.Background(), p)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if sum.Processed != 5 || sum.Deleted != 2 || sum.Successful != 3 {
		t.Errorf("summary = %+v, want 5 processed, 2 deleted, 3 enriched", sum)
	}
	if len(store.updates) != 3 {
		t.Errorf("updated rows = %d, want 3", len(store.updates))
	}
}

func TestSearchQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		loc  models.Location
		want string
	}{
		{models.Location{Name: "A", Address: "1 St", City: "X"}, "A, 1 St"},
		{models.Location{Name: "A", City: "X"}, "A, X"},
		{models.Location{Name: "A"}, "A"},
	}
	for _, tt := range tests {
		if got := searchQuery(&tt.loc); got != tt.want {
			t.Errorf("searchQuery() = %q, want %q", got, tt.want)
		}
	}
}
