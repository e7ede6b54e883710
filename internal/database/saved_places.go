// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/spott/internal/models"
)

func scanSavedPlace(row rowScanner) (models.ExternalPlace, error) {
	var (
		p        models.ExternalPlace
		types    sql.NullString
		lat, lon sql.NullFloat64
	)
	err := row.Scan(&p.ID, &p.PlaceID, &p.Name, &types, &p.FormattedAddress, &p.City,
		&lat, &lon, &p.PostCount, &p.SavedAt)
	if err != nil {
		return models.ExternalPlace{}, err
	}
	p.Latitude, p.Longitude = floatPtr(lat), floatPtr(lon)
	if types.Valid && types.String != "" {
		if err := json.Unmarshal([]byte(types.String), &p.Types); err != nil {
			return models.ExternalPlace{}, fmt.Errorf("decode types for %s: %w", p.ID, err)
		}
	}
	return p, nil
}

// ListSavedPlaces returns externally sourced saved places, oldest first.
func (db *DB) ListSavedPlaces(ctx context.Context, filter models.LocationFilter) ([]models.ExternalPlace, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	qb := newQueryBuilder(`
		SELECT id, COALESCE(place_id, ''), name, types, COALESCE(formatted_address, ''),
			COALESCE(city, ''), latitude, longitude, post_count, saved_at
		FROM saved_places WHERE 1=1`).
		addEquals("city", filter.City)
	if filter.Category != "" {
		// The category of a saved place is derived from its first specific type,
		// so the filter is a containment check on the JSON array.
		qb.addFilter("types LIKE ?", `%"`+filter.Category+`"%`)
	}
	query, args := qb.build("ORDER BY saved_at, id LIMIT ? OFFSET ?", limitOrAll(filter.Limit), filter.Offset)

	places, err := queryAndScan(ctx, db.conn, query, args, scanSavedPlace)
	if err != nil {
		return nil, observe("ListSavedPlaces", "saved_places", start, err)
	}
	return places, observe("ListSavedPlaces", "saved_places", start, nil)
}

// InsertSavedPlace stores a Places result saved by userID.
func (db *DB) InsertSavedPlace(ctx context.Context, userID string, p *models.ExternalPlace) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.SavedAt.IsZero() {
		p.SavedAt = time.Now().UTC()
	}
	types, err := encodeStrings(p.Types)
	if err != nil {
		return fmt.Errorf("encode types: %w", err)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err = db.withRetry(ctx, func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO saved_places (
				id, user_id, place_id, name, types, formatted_address, city,
				latitude, longitude, post_count, saved_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, userID, nullString(p.PlaceID), p.Name, types, nullString(p.FormattedAddress),
			nullString(p.City), nullFloat(p.Latitude), nullFloat(p.Longitude), p.PostCount, p.SavedAt.UTC(),
		)
		return err
	})
	return observe("InsertSavedPlace", "saved_places", start, err)
}

// InsertPost stores a post. An empty ID is assigned a UUID.
func (db *DB) InsertPost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err := db.withRetry(ctx, func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO posts (id, location_id, user_id, created_at) VALUES (?, ?, ?, ?)`,
			post.ID, post.LocationID, post.UserID, post.CreatedAt.UTC())
		return err
	})
	return observe("InsertPost", "posts", start, err)
}

// postsByLocation returns posts grouped by location id, oldest first.
func (db *DB) postsByLocation(ctx context.Context, locationIDs []string) (map[string][]models.Post, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	query, args := newQueryBuilder(`SELECT id, location_id, user_id, created_at FROM posts WHERE 1=1`).
		addIn("location_id", locationIDs).
		build("ORDER BY created_at, id")

	posts, err := queryAndScan(ctx, db.conn, query, args, func(row rowScanner) (models.Post, error) {
		var p models.Post
		err := row.Scan(&p.ID, &p.LocationID, &p.UserID, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		return nil, observe("postsByLocation", "posts", start, err)
	}

	out := make(map[string][]models.Post, len(locationIDs))
	for _, p := range posts {
		out[p.LocationID] = append(out[p.LocationID], p)
	}
	return out, observe("postsByLocation", "posts", start, nil)
}
