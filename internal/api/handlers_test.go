// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/models"
	"github.com/tomtom215/spott/internal/recommend"
)

func TestHealthLive(t *testing.T) {
	t.Parallel()

	h := NewHandler(testConfig(), &fakeLocationStore{pingErr: errBoom}, &fakeRecommender{}, nil, nil)
	w := do(t, newTestServer(t, h), http.MethodGet, "/api/v1/health/live", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		dbErr        error
		cacheErr     error
		wantCode     int
		wantStatus   string
		wantDegraded bool
	}{
		{"all up", nil, nil, http.StatusOK, "healthy", false},
		{"cache down", nil, errBoom, http.StatusOK, "degraded", true},
		{"database down", errBoom, nil, http.StatusServiceUnavailable, "unhealthy", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHandler(testConfig(), &fakeLocationStore{pingErr: tt.dbErr}, &fakeRecommender{}, nil, nil)
			h.SetCache(fakePinger{err: tt.cacheErr})

			w := do(t, newTestServer(t, h), http.MethodGet, "/api/v1/health/ready", "", nil)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			env := decode(t, w)
			var health models.HealthStatus
			decodeData(t, env, &health)
			if health.Status != tt.wantStatus {
				t.Errorf("health.Status = %q, want %q", health.Status, tt.wantStatus)
			}
			if env.Metadata.Degraded != tt.wantDegraded {
				t.Errorf("metadata.degraded = %v, want %v", env.Metadata.Degraded, tt.wantDegraded)
			}
		})
	}
}

func uniqueFixture() *fakeLocationStore {
	lat, lon := 38.7139, -9.1394
	return &fakeLocationStore{
		internal: []models.InternalLocation{
			{ID: "loc-1", Name: "Central Perk Cafe", Category: "cafe", City: "Lisbon", Posts: []models.Post{{ID: "p1"}, {ID: "p2"}}},
			{ID: "loc-2", Name: "Joe's Diner", Category: "restaurant", City: "Lisbon", Posts: []models.Post{{ID: "p3"}}},
			{ID: "loc-3", Name: "Silent Room", Category: "bar", City: "Lisbon"},
		},
		external: []models.ExternalPlace{
			{ID: "ext-1", PlaceID: "ChIJ-perk", Name: "Central Perk Caffe", City: "Lisbon", Latitude: &lat, Longitude: &lon, PostCount: 1},
		},
	}
}

func TestUniqueLocations(t *testing.T) {
	t.Parallel()

	store := uniqueFixture()
	h := NewHandler(testConfig(), store, &fakeRecommender{}, nil, nil)
	w := do(t, newTestServer(t, h), http.MethodGet, "/api/v1/locations/unique?city=Lisbon&category=cafe", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var got UniqueLocationsResponse
	decodeData(t, decode(t, w), &got)
	if got.InputRecords != 4 {
		t.Errorf("InputRecords = %d, want 4", got.InputRecords)
	}
	if got.TotalCards != 2 || len(got.Cards) != 2 {
		t.Fatalf("cards = %d (total %d), want 2", len(got.Cards), got.TotalCards)
	}
	posts := map[string]int{}
	for _, c := range got.Cards {
		posts[c.Name] = c.PostCount
	}
	if posts["Central Perk Cafe"] != 3 {
		t.Errorf("merged card posts = %v, want Central Perk Cafe with 3", posts)
	}

	for _, f := range store.filters {
		if f.City != "Lisbon" || f.Category != "cafe" {
			t.Errorf("store filter = %+v, want city and category passed through", f)
		}
	}
}

func TestUniqueLocations_LimitAfterMerge(t *testing.T) {
	t.Parallel()

	h := NewHandler(testConfig(), uniqueFixture(), &fakeRecommender{}, nil, nil)
	w := do(t, newTestServer(t, h), http.MethodGet, "/api/v1/locations/unique?limit=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got UniqueLocationsResponse
	decodeData(t, decode(t, w), &got)
	if len(got.Cards) != 1 || got.TotalCards != 2 {
		t.Errorf("cards = %d, total = %d, want 1 of 2", len(got.Cards), got.TotalCards)
	}
}

func TestUniqueLocations_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		target   string
		wantCode string
	}{
		{"limit not a number", "/api/v1/locations/unique?limit=ten", CodeBadRequest},
		{"limit too large", "/api/v1/locations/unique?limit=5000", "VALIDATION_ERROR"},
		{"bad category", "/api/v1/locations/unique?category=Not%20A%20Category", "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHandler(testConfig(), uniqueFixture(), &fakeRecommender{}, nil, nil)
			w := do(t, newTestServer(t, h), http.MethodGet, tt.target, "", nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if env := decode(t, w); env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestUniqueLocations_StoreFailure(t *testing.T) {
	t.Parallel()

	store := uniqueFixture()
	store.listErr = fault.E("database.ListInternalLocations", fault.KindUnavailable, errBoom)
	h := NewHandler(testConfig(), store, &fakeRecommender{}, nil, nil)

	w := do(t, newTestServer(t, h), http.MethodGet, "/api/v1/locations/unique", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if env := decode(t, w); env.Error.Code != CodeUnavailable {
		t.Errorf("code = %q, want %s", env.Error.Code, CodeUnavailable)
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	rec := &fakeRecommender{resp: &recommend.Response{
		Items: []recommend.RankedLocation{{
			Location: models.Location{ID: "loc-1", Name: "Central Perk"},
			Score:    recommend.LocationScore{Score: 42, Badge: recommend.BadgeTrending},
			Source:   recommend.SourcePrecomputed,
		}},
		Source:   recommend.SourcePrecomputed,
		Degraded: true,
	}}
	h := NewHandler(testConfig(), &fakeLocationStore{}, rec, nil, nil)

	w := do(t, newTestServer(t, h), http.MethodGet, "/api/v1/users/u-1/recommendations?city=Lisbon&category=cafe&limit=5", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	want := recommend.Request{UserID: "u-1", City: "Lisbon", Category: "cafe", Limit: 5}
	if rec.lastReq != want {
		t.Errorf("request = %+v, want %+v", rec.lastReq, want)
	}

	env := decode(t, w)
	if !env.Metadata.Degraded {
		t.Error("metadata.degraded = false, want true")
	}
	var got recommend.Response
	decodeData(t, env, &got)
	if len(got.Items) != 1 || got.Items[0].Score.Badge != recommend.BadgeTrending {
		t.Errorf("items = %+v, want one trending row", got.Items)
	}
}

func TestRecommendations_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid user id", "/api/v1/users/a*b/recommendations", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"limit above max", "/api/v1/users/u-1/recommendations?limit=500", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"canceled", "/api/v1/users/u-1/recommendations", fault.Wrap("recommend", context.Canceled), http.StatusServiceUnavailable, CodeCanceled},
		{"store down", "/api/v1/users/u-1/recommendations", fault.E("recommend", fault.KindUnavailable, errBoom), http.StatusServiceUnavailable, CodeUnavailable},
		{"unclassified", "/api/v1/users/u-1/recommendations", errBoom, http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHandler(testConfig(), &fakeLocationStore{}, &fakeRecommender{recErr: tt.err}, nil, nil)
			w := do(t, newTestServer(t, h), http.MethodGet, tt.target, "", nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if env := decode(t, w); env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestUserProfile(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		rec := &fakeRecommender{profile: recommend.ProfileVector{Weights: map[string]float64{"cafe": 1}, TotalInteractions: 3}}
		h := NewHandler(testConfig(), &fakeLocationStore{}, rec, nil, nil)
		w := do(t, newTestServer(t, h), http.MethodGet, "/api/v1/users/u-1/profile", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var got ProfileResponse
		decodeData(t, decode(t, w), &got)
		if got.UserID != "u-1" || got.Profile.Weights["cafe"] != 1 {
			t.Errorf("profile = %+v", got)
		}
	})

	t.Run("unavailable is degraded", func(t *testing.T) {
		t.Parallel()
		rec := &fakeRecommender{
			profile:    recommend.ProfileVector{Weights: map[string]float64{}},
			profileErr: fault.E("recommend.GetUserProfileVector", fault.KindUnavailable, errBoom),
		}
		h := NewHandler(testConfig(), &fakeLocationStore{}, rec, nil, nil)
		w := do(t, newTestServer(t, h), http.MethodGet, "/api/v1/users/u-1/profile", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if env := decode(t, w); !env.Metadata.Degraded {
			t.Error("metadata.degraded = false, want true")
		}
	})

	t.Run("canceled fails", func(t *testing.T) {
		t.Parallel()
		rec := &fakeRecommender{profileErr: fault.Wrap("recommend.GetUserProfileVector", context.Canceled)}
		h := NewHandler(testConfig(), &fakeLocationStore{}, rec, nil, nil)
		w := do(t, newTestServer(t, h), http.MethodGet, "/api/v1/users/u-1/profile", "", nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", w.Code)
		}
	})
}

func TestTrackInteraction(t *testing.T) {
	t.Parallel()

	rec := &fakeRecommender{}
	h := NewHandler(testConfig(), &fakeLocationStore{}, rec, nil, nil)
	w := do(t, newTestServer(t, h), http.MethodPost, "/api/v1/users/u-1/interactions",
		`{"location_id":"loc-1","action":"save"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	if len(rec.tracked) != 1 {
		t.Fatalf("tracked = %d, want 1", len(rec.tracked))
	}
	in := rec.tracked[0]
	if in.UserID != "u-1" || in.LocationID != "loc-1" || in.Action != models.ActionSave {
		t.Errorf("interaction = %+v", in)
	}
	if in.ID == "" {
		t.Error("interaction id not assigned")
	}

	var got models.Interaction
	decodeData(t, decode(t, w), &got)
	if got.Category != "cafe" {
		t.Errorf("response category = %q, want the category filled in by the engine", got.Category)
	}
}

func TestTrackInteraction_Errors(t *testing.T) {
	t.Parallel()

	notFound := fault.Wrap("recommend.TrackInteraction",
		fault.E("database.GetLocation", fault.KindNotFound, errors.New("location not found")))

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"malformed json", `{"location_id":`, nil, http.StatusBadRequest, CodeBadRequest, ""},
		{"unknown action", `{"location_id":"loc-1","action":"poke"}`, nil, http.StatusBadRequest, "VALIDATION_ERROR", ""},
		{"missing location", `{"action":"like"}`, nil, http.StatusBadRequest, "VALIDATION_ERROR", ""},
		{"empty body", "", nil, http.StatusBadRequest, "VALIDATION_ERROR", ""},
		{"unknown location", `{"location_id":"nope","action":"like"}`, notFound, http.StatusNotFound, CodeNotFound, "location not found"},
		{"cache invalidation failed", `{"location_id":"loc-1","action":"like"}`,
			fault.E("recommend.TrackInteraction", fault.KindUnavailable, errBoom), http.StatusServiceUnavailable, CodeUnavailable, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHandler(testConfig(), &fakeLocationStore{}, &fakeRecommender{trackErr: tt.err}, nil, nil)
			w := do(t, newTestServer(t, h), http.MethodPost, "/api/v1/users/u-1/interactions", tt.body, nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			env := decode(t, w)
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
			if tt.wantMsg != "" && env.Error.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", env.Error.Message, tt.wantMsg)
			}
		})
	}
}

func TestLocationScore(t *testing.T) {
	t.Parallel()

	rec := &fakeRecommender{
		scored: &recommend.RankedLocation{
			Location: models.Location{ID: "loc-9"},
			Score:    recommend.LocationScore{Score: 12.5},
			Source:   recommend.SourceLive,
		},
		scoreDeg: true,
	}
	h := NewHandler(testConfig(), &fakeLocationStore{}, rec, nil, nil)
	w := do(t, newTestServer(t, h), http.MethodGet, "/api/v1/users/u-1/locations/loc-9/score", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	env := decode(t, w)
	if !env.Metadata.Degraded {
		t.Error("metadata.degraded = false, want true")
	}
	var got recommend.RankedLocation
	decodeData(t, env, &got)
	if got.Location.ID != "loc-9" || got.Score.Score != 12.5 {
		t.Errorf("ranked = %+v", got)
	}
}

func TestLocationScore_NotFound(t *testing.T) {
	t.Parallel()

	rec := &fakeRecommender{scoreErr: fault.E("database.GetLocation", fault.KindNotFound, errors.New("location not found"))}
	h := NewHandler(testConfig(), &fakeLocationStore{}, rec, nil, nil)
	w := do(t, newTestServer(t, h), http.MethodGet, "/api/v1/users/u-1/locations/missing/score", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	bearer := map[string]string{"Authorization": "Bearer secret"}
	defaults := models.EnrichParams{BatchSize: 25, EnrichHours: true, MaxPhotosPerLocation: 3}

	t.Run("body overrides defaults", func(t *testing.T) {
		t.Parallel()
		enr := &fakeEnricher{defaults: defaults, res: &models.EnrichResult{Processed: 2, Successful: 2, NextOffset: 12, HasMore: true}}
		h := NewHandler(testConfig(), &fakeLocationStore{}, &fakeRecommender{}, enr, nil)
		w := do(t, newTestServer(t, h), http.MethodPost, "/api/v1/admin/enrich", `{"offset":10,"dry_run":true}`, bearer)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		want := defaults
		want.Offset = 10
		want.DryRun = true
		if len(enr.got) != 1 || enr.got[0] != want {
			t.Errorf("params = %+v, want %+v", enr.got, want)
		}
		var res models.EnrichResult
		decodeData(t, decode(t, w), &res)
		if res.NextOffset != 12 || !res.HasMore {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("budget exhausted before any work", func(t *testing.T) {
		t.Parallel()
		enr := &fakeEnricher{defaults: defaults, res: &models.EnrichResult{BudgetExhausted: true, MonthlySpend: 200}}
		h := NewHandler(testConfig(), &fakeLocationStore{}, &fakeRecommender{}, enr, nil)
		w := do(t, newTestServer(t, h), http.MethodPost, "/api/v1/admin/enrich", "", bearer)
		if w.Code != http.StatusPaymentRequired {
			t.Fatalf("status = %d, want 402", w.Code)
		}
		if env := decode(t, w); env.Error == nil || env.Error.Code != CodeBudgetExhausted {
			t.Errorf("error = %+v, want %s", env.Error, CodeBudgetExhausted)
		}
	})

	t.Run("budget exhausted mid batch is a success", func(t *testing.T) {
		t.Parallel()
		enr := &fakeEnricher{defaults: defaults, res: &models.EnrichResult{BudgetExhausted: true, Processed: 4}}
		h := NewHandler(testConfig(), &fakeLocationStore{}, &fakeRecommender{}, enr, nil)
		w := do(t, newTestServer(t, h), http.MethodPost, "/api/v1/admin/enrich", "", bearer)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})

	t.Run("invalid params", func(t *testing.T) {
		t.Parallel()
		enr := &fakeEnricher{defaults: defaults}
		h := NewHandler(testConfig(), &fakeLocationStore{}, &fakeRecommender{}, enr, nil)
		w := do(t, newTestServer(t, h), http.MethodPost, "/api/v1/admin/enrich", `{"batch_size":5000}`, bearer)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if len(enr.got) != 0 {
			t.Error("Run called with invalid params")
		}
	})

	t.Run("places not configured", func(t *testing.T) {
		t.Parallel()
		enr := &fakeEnricher{defaults: defaults, err: fault.E("enrich.Run", fault.KindInvalid, fmt.Errorf("google places is not configured"))}
		h := NewHandler(testConfig(), &fakeLocationStore{}, &fakeRecommender{}, enr, nil)
		w := do(t, newTestServer(t, h), http.MethodPost, "/api/v1/admin/enrich", "", bearer)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("no enricher", func(t *testing.T) {
		t.Parallel()
		h := NewHandler(testConfig(), &fakeLocationStore{}, &fakeRecommender{}, nil, nil)
		w := do(t, newTestServer(t, h), http.MethodPost, "/api/v1/admin/enrich", "", bearer)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", w.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		enr := &fakeEnricher{defaults: defaults}
		h := NewHandler(testConfig(), &fakeLocationStore{}, &fakeRecommender{}, enr, nil)
		w := do(t, newTestServer(t, h), http.MethodPost, "/api/v1/admin/enrich", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if len(enr.got) != 0 {
			t.Error("Run called without a token")
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	h := NewHandler(testConfig(), &fakeLocationStore{}, &fakeRecommender{}, nil, nil)
	w := do(t, newTestServer(t, h), http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
