// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spott/internal/config"
	"github.com/tomtom215/spott/internal/models"
	"github.com/tomtom215/spott/internal/recommend"
)

type fakeLocationStore struct {
	pingErr  error
	listErr  error
	internal []models.InternalLocation
	external []models.ExternalPlace

	mu      sync.Mutex
	filters []models.LocationFilter
}

func (f *fakeLocationStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeLocationStore) ListInternalLocations(_ context.Context, filter models.LocationFilter) ([]models.InternalLocation, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.internal, nil
}

func (f *fakeLocationStore) ListSavedPlaces(_ context.Context, filter models.LocationFilter) ([]models.ExternalPlace, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	return f.external, nil
}

type fakeRecommender struct {
	resp       *recommend.Response
	recErr     error
	lastReq    recommend.Request
	profile    recommend.ProfileVector
	profileErr error
	trackErr   error
	tracked    []*models.Interaction
	scored     *recommend.RankedLocation
	scoreDeg   bool
	scoreErr   error
}

func (f *fakeRecommender) GetRecommendedLocations(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	f.lastReq = req
	if f.recErr != nil {
		return nil, f.recErr
	}
	if f.resp == nil {
		return &recommend.Response{Items: []recommend.RankedLocation{}, Source: recommend.SourceFallback}, nil
	}
	return f.resp, nil
}

func (f *fakeRecommender) GetUserProfileVector(context.Context, string) (recommend.ProfileVector, error) {
	return f.profile, f.profileErr
}

func (f *fakeRecommender) TrackInteraction(_ context.Context, in *models.Interaction) error {
	f.tracked = append(f.tracked, in)
	if f.trackErr != nil {
		return f.trackErr
	}
	if in.Category == "" {
		in.Category = "cafe"
	}
	return nil
}

func (f *fakeRecommender) ScoreForUser(context.Context, string, string) (*recommend.RankedLocation, bool, error) {
	return f.scored, f.scoreDeg, f.scoreErr
}

type fakeEnricher struct {
	defaults models.EnrichParams
	res      *models.EnrichResult
	err      error
	got      []models.EnrichParams
}

func (f *fakeEnricher) DefaultParams() models.EnrichParams { return f.defaults }

func (f *fakeEnricher) Run(_ context.Context, p models.EnrichParams) (*models.EnrichResult, error) {
	f.got = append(f.got, p)
	return f.res, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	return &config.Config{
		API:      config.APIConfig{DefaultPageSize: 50, MaxPageSize: 200},
		Security: config.SecurityConfig{AdminToken: "secret", RateLimitDisabled: true},
	}
}

// newTestServer routes requests through the full middleware stack.
func newTestServer(t *testing.T, h *Handler) http.Handler {
	t.Helper()
	return NewRouter(h, h.config).SetupChi()
}

func do(t *testing.T, srv http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

// envelope decodes the response with Data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %q: %v", env.Data, err)
	}
}
