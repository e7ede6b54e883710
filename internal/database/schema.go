// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// tableQueries creates every table. Timestamps are stored as UTC TIMESTAMP
// so no ICU extension is required.
var tableQueries = []string{
	// Spott's own locations. opening_hours and photo_urls hold JSON arrays.
	`CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'other',
		address TEXT,
		city TEXT,
		latitude DOUBLE,
		longitude DOUBLE,
		google_place_id TEXT,
		likes_count INTEGER,
		saves_count INTEGER,
		opening_hours TEXT,
		photo_urls TEXT,
		enriched_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// Places API results saved directly by users. types is a JSON array.
	`CREATE TABLE IF NOT EXISTS saved_places (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		place_id TEXT,
		name TEXT NOT NULL,
		types TEXT,
		formatted_address TEXT,
		city TEXT,
		latitude DOUBLE,
		longitude DOUBLE,
		post_count INTEGER NOT NULL DEFAULT 0,
		saved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		location_id TEXT NOT NULL,
		category TEXT NOT NULL,
		action TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS follows (
		follower_id TEXT NOT NULL,
		followee_id TEXT NOT NULL,
		avatar_url TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (follower_id, followee_id)
	)`,

	`CREATE TABLE IF NOT EXISTS precomputed_recommendations (
		user_id TEXT NOT NULL,
		location_id TEXT NOT NULL,
		score DOUBLE NOT NULL,
		friends_saved INTEGER NOT NULL DEFAULT 0,
		computed_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, location_id)
	)`,

	`CREATE TABLE IF NOT EXISTS trend_ratios (
		location_id TEXT PRIMARY KEY,
		ratio DOUBLE NOT NULL,
		computed_at TIMESTAMP NOT NULL
	)`,

	// Billable Places requests; summed per calendar month for the budget.
	`CREATE TABLE IF NOT EXISTS api_usage (
		id TEXT PRIMARY KEY,
		sku TEXT NOT NULL,
		cost DOUBLE NOT NULL,
		location_id TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_locations_city ON locations(city)`,
	`CREATE INDEX IF NOT EXISTS idx_locations_category ON locations(category)`,
	`CREATE INDEX IF NOT EXISTS idx_locations_created ON locations(created_at, id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_location ON posts(location_id)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_places_city ON saved_places(city)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_location_time ON interactions(location_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_api_usage_created ON api_usage(created_at)`,
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// createIndexes creates secondary indexes unless the config skips them.
// DuckDB rewrites an UPDATE of an indexed column as delete+insert, so only
// columns that enrichment never updates are indexed.
func (db *DB) createIndexes() error {
	if db.cfg != nil && db.cfg.SkipIndexes {
		return nil
	}
	return db.CreateIndexes()
}

// CreateIndexes creates all secondary indexes.
func (db *DB) CreateIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}
	return nil
}
