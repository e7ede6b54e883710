// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	in := []byte(`{"cafe":0.5}`)
	if err := s.Set(ctx, "profile:u1", in, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	in[0] = 'X' // caller mutation must not leak into the store

	got, err := s.Get(ctx, "profile:u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"cafe":0.5}` {
		t.Errorf("Get() = %s, want original bytes", got)
	}

	if err := s.Delete(ctx, "profile:u1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "profile:u1"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get() after Delete error = %v, want ErrMiss", err)
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Hour)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
	if err := s.Set(ctx, "k", []byte("v"), time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
}

func TestMemoryStore_Stats(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	_ = s.Set(ctx, "a", []byte("1"), time.Minute)
	_, _ = s.Get(ctx, "a")
	_, _ = s.Get(ctx, "b")

	st := s.Stats()
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("Stats() hits/misses = %d/%d, want 1/1", st.Hits, st.Misses)
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
