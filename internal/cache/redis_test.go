// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tomtom215/spott/internal/fault"
)

// fakeRedis implements redisClient over a map.
type fakeRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	b, _ := value.([]byte)
	f.data[key] = string(b)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return redis.NewIntResult(0, f.failErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Ping(context.Context) *redis.StatusCmd {
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeRedis) Close() error { return nil }

func TestRedisStore_PrefixAndTTL(t *testing.T) {
	t.Parallel()

	fake := newFakeRedis()
	s := newRedisStoreWithClient(fake, "spott:")
	ctx := context.Background()

	if err := s.Set(ctx, "profile:u1", []byte("{}"), 24*time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := fake.data["spott:profile:u1"]; !ok {
		t.Errorf("stored keys = %v, want spott:profile:u1", fake.data)
	}
	if fake.ttls["spott:profile:u1"] != 24*time.Hour {
		t.Errorf("ttl = %v, want 24h", fake.ttls["spott:profile:u1"])
	}

	got, err := s.Get(ctx, "profile:u1")
	if err != nil || string(got) != "{}" {
		t.Errorf("Get() = %q, %v, want {}, nil", got, err)
	}
}

func TestRedisStore_MissAndFailure(t *testing.T) {
	t.Parallel()

	fake := newFakeRedis()
	s := newRedisStoreWithClient(fake, "")
	ctx := context.Background()

	if _, err := s.Get(ctx, "absent"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get(absent) error = %v, want ErrMiss", err)
	}

	fake.failErr = errors.New("connection refused")
	tests := []struct {
		name string
		call func() error
	}{
		{"Get", func() error { _, err := s.Get(ctx, "k"); return err }},
		{"Set", func() error { return s.Set(ctx, "k", []byte("v"), time.Minute) }},
		{"Delete", func() error { return s.Delete(ctx, "k") }},
		{"Ping", func() error { return s.Ping(ctx) }},
	}
	for _, tt := range tests {
		err := tt.call()
		if !fault.Is(err, fault.KindUnavailable) {
			t.Errorf("%s() error = %v, want KindUnavailable", tt.name, err)
		}
		if errors.Is(err, ErrMiss) {
			t.Errorf("%s() failure reported as a miss", tt.name)
		}
	}
}
