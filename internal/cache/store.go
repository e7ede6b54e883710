// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is a byte-oriented key/value backend with TTLs.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// MemoryStore is a Store backed by an in-process Cache.
// Entries are private to one instance of the server.
type MemoryStore struct {
	cache *Cache
}

// NewMemoryStore creates a MemoryStore. defaultTTL applies when Set is called with ttl <= 0.
func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	return &MemoryStore{cache: New(defaultTTL)}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, ErrMiss
	}
	return b, nil
}

// Set implements Store. The value is copied.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	if ttl <= 0 {
		s.cache.Set(key, buf)
	} else {
		s.cache.SetWithTTL(key, buf, ttl)
	}
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Delete(key)
	return nil
}

// Ping implements Store. Memory is always reachable.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close stops the underlying cache's sweep goroutine.
func (s *MemoryStore) Close() error {
	s.cache.Close()
	return nil
}

// Stats exposes the underlying cache counters.
func (s *MemoryStore) Stats() Stats {
	return s.cache.GetStats()
}
