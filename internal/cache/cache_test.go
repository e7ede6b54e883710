// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCache_SetGet(t *testing.T) {
	t.Parallel()

	c := newCache(time.Minute, time.Now)
	c.Set("user-1", "vector")

	got, ok := c.Get("user-1")
	if !ok || got != "vector" {
		t.Errorf("Get(user-1) = %v, %v, want vector, true", got, ok)
	}
	if _, ok := c.Get("user-2"); ok {
		t.Error("Get(user-2) ok = true, want false")
	}
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newCache(24*time.Hour, clock.Now)
	c.Set("profile", 1)
	c.SetWithTTL("short", 2, time.Minute)

	clock.Advance(2 * time.Minute)
	if _, ok := c.Get("short"); ok {
		t.Error("short-TTL entry still present after expiry")
	}
	if _, ok := c.Get("profile"); !ok {
		t.Error("default-TTL entry expired too early")
	}

	clock.Advance(24 * time.Hour)
	if _, ok := c.Get("profile"); ok {
		t.Error("profile entry present after 24h")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy expiry", c.Len())
	}
}

func TestCache_Cleanup(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newCache(time.Minute, clock.Now)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.SetWithTTL("keep", "x", time.Hour)

	clock.Advance(2 * time.Minute)
	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("Len() after cleanup = %d, want 1", c.Len())
	}
	stats := c.GetStats()
	if stats.Evictions != 5 {
		t.Errorf("Evictions = %d, want 5", stats.Evictions)
	}
	if !stats.LastCleanup.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v, want %v", stats.LastCleanup, clock.Now())
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	c := newCache(time.Minute, time.Now)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	c.Delete("missing")

	if _, ok := c.Get("a"); ok {
		t.Error("Get(a) after Delete ok = true")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if got := c.GetStats().Evictions; got != 2 {
		t.Errorf("Evictions = %d, want 2", got)
	}
}

func TestCache_HitRate(t *testing.T) {
	t.Parallel()

	c := newCache(time.Minute, time.Now)
	if c.HitRate() != 0 {
		t.Errorf("HitRate() on empty cache = %v, want 0", c.HitRate())
	}
	c.Set("k", 1)
	c.Get("k")
	c.Get("k")
	c.Get("k")
	c.Get("nope")
	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate() = %v, want 75", got)
	}
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	c.Close()
	c.Close()
	c.Set("still", "works")
	if _, ok := c.Get("still"); !ok {
		t.Error("cache unusable after Close")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := newCache(time.Minute, time.Now)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%10)
				c.Set(key, w)
				c.Get(key)
				if i%50 == 0 {
					c.Delete(key)
				}
			}
		}(w)
	}
	wg.Wait()

	if c.Len() > 10 {
		t.Errorf("Len() = %d, want <= 10", c.Len())
	}
}
