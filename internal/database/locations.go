// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/models"
)

// locationColumns selects a canonical Location from locations l.
const locationColumns = `
	l.id, l.name, l.category, COALESCE(l.address, ''), COALESCE(l.city, ''),
	l.latitude, l.longitude, COALESCE(l.google_place_id, ''),
	l.likes_count, l.saves_count, l.opening_hours, l.photo_urls, l.enriched_at,
	l.created_at, l.updated_at,
	(SELECT COUNT(*) FROM posts p WHERE p.location_id = l.id)`

func scanLocation(row rowScanner) (models.Location, error) {
	var (
		loc                models.Location
		lat, lon           sql.NullFloat64
		likes, saves       sql.NullInt64
		hoursJSON, photos  sql.NullString
		enrichedAt, update sql.NullTime
	)
	err := row.Scan(
		&loc.ID, &loc.Name, &loc.Category, &loc.Address, &loc.City,
		&lat, &lon, &loc.GooglePlaceID,
		&likes, &saves, &hoursJSON, &photos, &enrichedAt,
		&loc.CreatedAt, &update,
		&loc.PostCount,
	)
	if err != nil {
		return models.Location{}, err
	}

	if lat.Valid && lon.Valid {
		loc.Coordinates = &models.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
	}
	loc.LikesCount = int(likes.Int64)
	loc.SavesCount = int(saves.Int64)
	if update.Valid {
		loc.UpdatedAt = update.Time
	}
	if enrichedAt.Valid {
		t := enrichedAt.Time
		loc.EnrichedAt = &t
	}
	if loc.OpeningHours, err = decodeStrings(hoursJSON); err != nil {
		return models.Location{}, fmt.Errorf("decode opening_hours for %s: %w", loc.ID, err)
	}
	if loc.PhotoURLs, err = decodeStrings(photos); err != nil {
		return models.Location{}, fmt.Errorf("decode photo_urls for %s: %w", loc.ID, err)
	}
	loc.Source = models.SourceInternal
	return loc, nil
}

func decodeStrings(s sql.NullString) ([]string, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeStrings(v []string) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// GetLocation returns one location with its post count.
func (db *DB) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	row := db.conn.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations l WHERE l.id = ?`, id)
	loc, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.E("database.GetLocation", fault.KindNotFound, ErrLocationNotFound)
	}
	if err != nil {
		return nil, observe("GetLocation", "locations", start, err)
	}
	return &loc, observe("GetLocation", "locations", start, nil)
}

// ListLocations returns canonical locations matching filter, oldest first.
func (db *DB) ListLocations(ctx context.Context, filter models.LocationFilter) ([]models.Location, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	query, args := newQueryBuilder(`SELECT `+locationColumns+` FROM locations l WHERE 1=1`).
		addEquals("l.city", filter.City).
		addEquals("l.category", filter.Category).
		build("ORDER BY l.created_at, l.id LIMIT ? OFFSET ?", limitOrAll(filter.Limit), filter.Offset)

	locs, err := queryAndScan(ctx, db.conn, query, args, scanLocation)
	if err != nil {
		return nil, observe("ListLocations", "locations", start, err)
	}
	return locs, observe("ListLocations", "locations", start, nil)
}

// ListLocationsForEnrichment returns a page of locations in enrichment order
// (created_at, id). Deleting a row shifts every later row down by one.
func (db *DB) ListLocationsForEnrichment(ctx context.Context, offset, limit int) ([]models.Location, error) {
	return db.ListLocations(ctx, models.LocationFilter{Offset: offset, Limit: limit})
}

// RecentLocationsInCity returns the most recently active locations, newest first.
// An empty city matches every city.
func (db *DB) RecentLocationsInCity(ctx context.Context, city, category string, limit int) ([]models.Location, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	query, args := newQueryBuilder(`SELECT `+locationColumns+` FROM locations l WHERE 1=1`).
		addEquals("l.city", city).
		addEquals("l.category", category).
		build("ORDER BY COALESCE(l.updated_at, l.created_at) DESC, l.id LIMIT ?", limitOrAll(limit))

	locs, err := queryAndScan(ctx, db.conn, query, args, scanLocation)
	if err != nil {
		return nil, observe("RecentLocationsInCity", "locations", start, err)
	}
	return locs, observe("RecentLocationsInCity", "locations", start, nil)
}

// ListInternalLocations returns locations as ingestion records with their posts attached.
func (db *DB) ListInternalLocations(ctx context.Context, filter models.LocationFilter) ([]models.InternalLocation, error) {
	locs, err := db.ListLocations(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return []models.InternalLocation{}, nil
	}

	ids := make([]string, len(locs))
	for i := range locs {
		ids[i] = locs[i].ID
	}
	posts, err := db.postsByLocation(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.InternalLocation, len(locs))
	for i := range locs {
		out[i] = toInternal(&locs[i], posts[locs[i].ID])
	}
	return out, nil
}

func toInternal(l *models.Location, posts []models.Post) models.InternalLocation {
	in := models.InternalLocation{
		ID:            l.ID,
		Name:          l.Name,
		Category:      l.Category,
		Address:       l.Address,
		City:          l.City,
		GooglePlaceID: l.GooglePlaceID,
		CreatedAt:     l.CreatedAt,
		Posts:         posts,
	}
	if l.Coordinates != nil {
		lat, lon := l.Coordinates.Lat, l.Coordinates.Lon
		in.Latitude, in.Longitude = &lat, &lon
	}
	if !l.UpdatedAt.IsZero() {
		u := l.UpdatedAt
		in.UpdatedAt = &u
	}
	likes, saves := l.LikesCount, l.SavesCount
	in.LikesCount, in.SavesCount = &likes, &saves
	return in
}

// UpsertLocation inserts or replaces a location. An empty ID is assigned a UUID.
func (db *DB) UpsertLocation(ctx context.Context, loc *models.Location) error {
	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}
	if loc.CreatedAt.IsZero() {
		loc.CreatedAt = time.Now().UTC()
	}
	if loc.Category == "" {
		loc.Category = "other"
	}

	hours, err := encodeStrings(loc.OpeningHours)
	if err != nil {
		return fmt.Errorf("encode opening hours: %w", err)
	}
	photos, err := encodeStrings(loc.PhotoURLs)
	if err != nil {
		return fmt.Errorf("encode photo urls: %w", err)
	}
	var lat, lon sql.NullFloat64
	if loc.Coordinates != nil {
		lat = sql.NullFloat64{Float64: loc.Coordinates.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: loc.Coordinates.Lon, Valid: true}
	}
	var updated sql.NullTime
	if !loc.UpdatedAt.IsZero() {
		updated = sql.NullTime{Time: loc.UpdatedAt.UTC(), Valid: true}
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err = db.withRetry(ctx, func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO locations (
				id, name, category, address, city, latitude, longitude, google_place_id,
				likes_count, saves_count, opening_hours, photo_urls, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				address = EXCLUDED.address,
				city = EXCLUDED.city,
				latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude,
				google_place_id = EXCLUDED.google_place_id,
				likes_count = EXCLUDED.likes_count,
				saves_count = EXCLUDED.saves_count,
				opening_hours = EXCLUDED.opening_hours,
				photo_urls = EXCLUDED.photo_urls,
				updated_at = EXCLUDED.updated_at`,
			loc.ID, loc.Name, loc.Category, nullString(loc.Address), nullString(loc.City),
			lat, lon, nullString(loc.GooglePlaceID),
			loc.LikesCount, loc.SavesCount, hours, photos, loc.CreatedAt.UTC(), updated,
		)
		return err
	})
	return observe("UpsertLocation", "locations", start, err)
}

// UpdateLocationEnrichment writes Places data back to a location. Empty
// fields in e leave the stored value unchanged. updated_at is not touched:
// enrichment is not user activity.
func (db *DB) UpdateLocationEnrichment(ctx context.Context, id string, e *models.PlaceEnrichment) error {
	hours, err := encodeStrings(e.OpeningHours)
	if err != nil {
		return fmt.Errorf("encode opening hours: %w", err)
	}
	photos, err := encodeStrings(e.PhotoURLs)
	if err != nil {
		return fmt.Errorf("encode photo urls: %w", err)
	}
	var lat, lon sql.NullFloat64
	if e.Coordinates != nil {
		lat = sql.NullFloat64{Float64: e.Coordinates.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: e.Coordinates.Lon, Valid: true}
	}
	enrichedAt := e.EnrichedAt
	if enrichedAt.IsZero() {
		enrichedAt = time.Now()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	var affected int64
	err = db.withRetry(ctx, func(ctx context.Context) error {
		res, err := db.conn.ExecContext(ctx, `
			UPDATE locations SET
				google_place_id = COALESCE(?, google_place_id),
				address = COALESCE(?, address),
				latitude = COALESCE(?, latitude),
				longitude = COALESCE(?, longitude),
				opening_hours = COALESCE(?, opening_hours),
				photo_urls = COALESCE(?, photo_urls),
				enriched_at = ?
			WHERE id = ?`,
			nullString(e.GooglePlaceID), nullString(e.Address), lat, lon, hours, photos,
			enrichedAt.UTC(), id,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err := observe("UpdateLocationEnrichment", "locations", start, err); err != nil {
		return err
	}
	if affected == 0 {
		return fault.E("database.UpdateLocationEnrichment", fault.KindNotFound, ErrLocationNotFound)
	}
	return nil
}

// DeleteLocation removes a location together with its posts, interactions
// and precomputed rows. Deleting a missing location returns KindNotFound.
func (db *DB) DeleteLocation(ctx context.Context, id string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	var affected int64
	err := db.withRetry(ctx, func(ctx context.Context) error {
		return db.inTx(ctx, func(tx *sql.Tx) error {
			for _, q := range []string{
				`DELETE FROM posts WHERE location_id = ?`,
				`DELETE FROM interactions WHERE location_id = ?`,
				`DELETE FROM precomputed_recommendations WHERE location_id = ?`,
				`DELETE FROM trend_ratios WHERE location_id = ?`,
			} {
				if _, err := tx.ExecContext(ctx, q, id); err != nil {
					return err
				}
			}
			res, err := tx.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
			if err != nil {
				return err
			}
			affected, err = res.RowsAffected()
			return err
		})
	})
	if err := observe("DeleteLocation", "locations", start, err); err != nil {
		return err
	}
	if affected == 0 {
		return fault.E("database.DeleteLocation", fault.KindNotFound, ErrLocationNotFound)
	}
	return nil
}

// limitOrAll maps a non-positive limit to "no limit" for DuckDB's LIMIT ?.
func limitOrAll(limit int) int64 {
	if limit <= 0 {
		return 1<<62 - 1
	}
	return int64(limit)
}
