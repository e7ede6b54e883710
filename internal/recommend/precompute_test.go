// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/models"
)

func TestPrecompute_WritesTopRowsPerUser(t *testing.T) {
	t.Parallel()

	s := lisbonStore()
	s.locations = append(s.locations,
		models.Location{ID: "l4", Category: "cafe", City: "Lisbon", CreatedAt: daysAgo(3)},
	)
	s.active = []string{"u1", "u2"}
	s.topCities["u1"] = []string{"Lisbon"}
	s.trends["l2"] = 2.0

	cfg := DefaultConfig()
	cfg.PrecomputeTopN = 2
	e := newTestEngine(t, s, cfg)

	sum, err := e.Precompute(context.Background())
	if err != nil {
		t.Fatalf("Precompute() error = %v", err)
	}
	if sum.Users != 2 || sum.Failed != 0 {
		t.Errorf("Users/Failed = %d/%d, want 2/0", sum.Users, sum.Failed)
	}
	if sum.TrendRatios != 1 {
		t.Errorf("TrendRatios = %d, want 1", sum.TrendRatios)
	}

	u1 := s.replaced["u1"]
	if len(u1) != 2 {
		t.Fatalf("u1 rows = %d, want 2", len(u1))
	}
	// l1 (cafe, 1 day) scores highest, then l4 (cafe, 3 days).
	if u1[0].LocationID != "l1" || u1[1].LocationID != "l4" {
		t.Errorf("u1 rows = [%s %s], want [l1 l4]", u1[0].LocationID, u1[1].LocationID)
	}
	for _, r := range u1 {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("%s relevance = %v, want within [0, 1]", r.LocationID, r.Score)
		}
		if !r.ComputedAt.Equal(testNow) {
			t.Errorf("%s ComputedAt = %v, want %v", r.LocationID, r.ComputedAt, testNow)
		}
	}

	// u2 has no history: every city is a candidate and l2 leads on its trend.
	u2 := s.replaced["u2"]
	if len(u2) != 2 || u2[0].LocationID != "l2" {
		t.Errorf("u2 rows = %+v, want l2 first", u2)
	}
	if u2[0].FriendsSaved != 2 {
		t.Errorf("u2 l2 FriendsSaved = %d, want 2", u2[0].FriendsSaved)
	}
	if sum.Rows != 4 {
		t.Errorf("Rows = %d, want 4", sum.Rows)
	}
}

func TestPrecompute_UserFailureCounted(t *testing.T) {
	t.Parallel()

	s := lisbonStore()
	s.active = []string{"u1", "u2"}
	s.topCitiesErr["u2"] = fault.E("fake", fault.KindUnavailable, errors.New("timeout"))
	e := newTestEngine(t, s, nil)

	sum, err := e.Precompute(context.Background())
	if err != nil {
		t.Fatalf("Precompute() error = %v", err)
	}
	if sum.Failed != 1 {
		t.Errorf("Failed = %d, want 1", sum.Failed)
	}
	if _, ok := s.replaced["u1"]; !ok {
		t.Error("u1 should still be precomputed")
	}
	if _, ok := s.replaced["u2"]; ok {
		t.Error("u2 rows should be left untouched")
	}
}

func TestPrecompute_TrendRefreshFailureContinues(t *testing.T) {
	t.Parallel()

	s := lisbonStore()
	s.active = []string{"u1"}
	s.refreshErr = errors.New("conflict")
	e := newTestEngine(t, s, nil)

	if _, err := e.Precompute(context.Background()); err != nil {
		t.Fatalf("Precompute() error = %v, want nil", err)
	}
	if _, ok := s.replaced["u1"]; !ok {
		t.Error("u1 should be precomputed despite the trend refresh failure")
	}
}

func TestPrecompute_ActiveUsersError(t *testing.T) {
	t.Parallel()

	s := lisbonStore()
	s.activeErr = fault.E("fake", fault.KindUnavailable, errors.New("down"))
	e := newTestEngine(t, s, nil)

	if _, err := e.Precompute(context.Background()); !fault.Is(err, fault.KindUnavailable) {
		t.Errorf("Precompute() error = %v, want unavailable", err)
	}
}

func TestPrecompute_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	s := lisbonStore()
	for i := 0; i < 12; i++ {
		s.active = append(s.active, fmt.Sprintf("user-%02d", i))
	}
	s.topCityDelay = 10 * time.Millisecond
	e := newTestEngine(t, s, nil)

	if _, err := e.Precompute(context.Background()); err != nil {
		t.Fatalf("Precompute() error = %v", err)
	}
	if got := s.maxInFlight.Load(); got > 3 {
		t.Errorf("max concurrent users = %d, want <= 3", got)
	}
	if len(s.replaced) != 12 {
		t.Errorf("users written = %d, want 12", len(s.replaced))
	}
}
