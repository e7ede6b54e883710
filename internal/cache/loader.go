// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/spott/internal/logging"
	"github.com/tomtom215/spott/internal/metrics"
)

// DefaultComputeTimeout bounds a shared compute once it is detached from
// the caller that started it.
const DefaultComputeTimeout = 30 * time.Second

// ComputeFunc produces the value for a key on a cache miss.
type ComputeFunc[T any] func(ctx context.Context) (T, error)

// Loader is a typed get-or-compute cache over a Store.
//
// Values are JSON encoded. Concurrent misses for one key share a single
// compute call, which runs detached from any single caller's cancellation
// and is bounded by the compute timeout. A Store failure never fails a
// read: the value is computed from source and the failure is logged and
// counted.
type Loader[T any] struct {
	name           string
	store          Store
	ttl            time.Duration
	computeTimeout time.Duration
	group          singleflight.Group

	// generations guards against a compute that started before Invalidate
	// writing its stale result back after it.
	genMu       sync.Mutex
	generations map[string]uint64
}

// NewLoader creates a Loader. name labels metrics and logs.
func NewLoader[T any](name string, store Store, ttl time.Duration) *Loader[T] {
	return &Loader[T]{
		name:           name,
		store:          store,
		ttl:            ttl,
		computeTimeout: DefaultComputeTimeout,
		generations:    make(map[string]uint64),
	}
}

// SetComputeTimeout overrides DefaultComputeTimeout. Non-positive values
// are ignored.
func (l *Loader[T]) SetComputeTimeout(d time.Duration) {
	if d > 0 {
		l.computeTimeout = d
	}
}

// Result is what GetOrCompute returns alongside the value.
type Result struct {
	Cached bool
}

// GetOrCompute returns the cached value for key, or calls compute, stores
// its result with the Loader's TTL and returns it. Errors from compute are
// returned unchanged and nothing is cached.
func (l *Loader[T]) GetOrCompute(ctx context.Context, key string, compute ComputeFunc[T]) (T, Result, error) {
	var zero T

	raw, err := l.store.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if uerr := json.Unmarshal(raw, &v); uerr == nil {
			metrics.RecordCacheResult(l.name, metrics.CacheHit)
			return v, Result{Cached: true}, nil
		}
		// Undecodable entry: drop it and recompute.
		_ = l.store.Delete(ctx, key) //nolint:errcheck // recompute overwrites it anyway
		metrics.RecordCacheResult(l.name, metrics.CacheMiss)
	case errors.Is(err, ErrMiss):
		metrics.RecordCacheResult(l.name, metrics.CacheMiss)
	default:
		metrics.RecordCacheResult(l.name, metrics.CacheError)
		logging.Ctx(ctx).Warn().Err(err).Str("cache", l.name).Str("key", key).
			Msg("Cache read failed, computing from source")
	}

	gen := l.generation(key)
	ch := l.group.DoChan(key, func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.computeTimeout)
		defer cancel()

		val, cerr := compute(cctx)
		if cerr != nil {
			return zero, cerr
		}
		if l.generation(key) == gen {
			l.write(cctx, key, val)
			// Invalidate may have landed between the check and the write.
			if l.generation(key) != gen {
				_ = l.store.Delete(cctx, key) //nolint:errcheck // best effort, Invalidate already deleted once
			}
		}
		return val, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return zero, Result{}, ctx.Err()
	}
	if res.Err != nil {
		return zero, Result{}, res.Err
	}
	typed, ok := res.Val.(T)
	if !ok {
		return zero, Result{}, fmt.Errorf("cache %s: unexpected shared value type %T", l.name, res.Val)
	}
	return typed, Result{}, nil
}

func (l *Loader[T]) write(ctx context.Context, key string, val T) {
	data, err := json.Marshal(val)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("cache", l.name).Msg("Cache encode failed")
		return
	}
	if err := l.store.Set(ctx, key, data, l.ttl); err != nil {
		metrics.RecordCacheResult(l.name, metrics.CacheError)
		logging.Ctx(ctx).Warn().Err(err).Str("cache", l.name).Str("key", key).Msg("Cache write failed")
	}
}

// Invalidate removes key so the next read recomputes it.
func (l *Loader[T]) Invalidate(ctx context.Context, key string) error {
	l.genMu.Lock()
	l.generations[key]++
	l.genMu.Unlock()
	l.group.Forget(key)

	if err := l.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("invalidate %s/%s: %w", l.name, key, err)
	}
	metrics.RecordCacheResult(l.name, metrics.CacheInvalidation)
	return nil
}

func (l *Loader[T]) generation(key string) uint64 {
	l.genMu.Lock()
	defer l.genMu.Unlock()
	return l.generations[key]
}

// Name returns the loader's metric label.
func (l *Loader[T]) Name() string {
	return l.name
}
