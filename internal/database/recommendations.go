// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/tomtom215/spott/internal/models"
)

// PrecomputedRecommendations returns the stored recommendation rows for a
// user joined with their locations, best score first.
func (db *DB) PrecomputedRecommendations(ctx context.Context, userID, city, category string, limit int) ([]models.PrecomputedCandidate, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	query, args := newQueryBuilder(`
		SELECT `+locationColumns+`, r.score, r.friends_saved
		FROM precomputed_recommendations r
		JOIN locations l ON l.id = r.location_id
		WHERE r.user_id = ?`, userID).
		addEquals("l.city", city).
		addEquals("l.category", category).
		build("ORDER BY r.score DESC, l.id LIMIT ?", limitOrAll(limit))

	out, err := queryAndScan(ctx, db.conn, query, args, func(row rowScanner) (models.PrecomputedCandidate, error) {
		var c models.PrecomputedCandidate
		loc, err := scanLocation(scanTail{row: row, extra: []interface{}{&c.Score, &c.FriendsSaved}})
		c.Location = loc
		return c, err
	})
	if err != nil {
		return nil, observe("PrecomputedRecommendations", "precomputed_recommendations", start, err)
	}
	return out, observe("PrecomputedRecommendations", "precomputed_recommendations", start, nil)
}

// scanTail lets scanLocation read a row that has extra trailing columns.
type scanTail struct {
	row   rowScanner
	extra []interface{}
}

func (s scanTail) Scan(dest ...interface{}) error {
	return s.row.Scan(append(dest, s.extra...)...)
}

// ReplacePrecomputedRecommendations atomically replaces a user's stored rows.
func (db *DB) ReplacePrecomputedRecommendations(ctx context.Context, userID string, recs []models.PrecomputedRecommendation) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err := db.withRetry(ctx, func(ctx context.Context) error {
		return db.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM precomputed_recommendations WHERE user_id = ?`, userID); err != nil {
				return err
			}
			for i := range recs {
				r := &recs[i]
				computedAt := r.ComputedAt
				if computedAt.IsZero() {
					computedAt = time.Now()
				}
				_, err := tx.ExecContext(ctx, `
					INSERT INTO precomputed_recommendations (user_id, location_id, score, friends_saved, computed_at)
					VALUES (?, ?, ?, ?, ?)`,
					userID, r.LocationID, r.Score, r.FriendsSaved, computedAt.UTC())
				if err != nil {
					return err
				}
			}
			return nil
		})
	})
	return observe("ReplacePrecomputedRecommendations", "precomputed_recommendations", start, err)
}

// TrendRatios returns stored ratios for the given locations. Locations
// without a row are absent; callers default them to 1.0.
func (db *DB) TrendRatios(ctx context.Context, locationIDs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(locationIDs))
	if len(locationIDs) == 0 {
		return out, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	query, args := newQueryBuilder(`SELECT location_id, ratio FROM trend_ratios WHERE 1=1`).
		addIn("location_id", locationIDs).
		build("")

	ratios, err := queryAndScan(ctx, db.conn, query, args, func(row rowScanner) (models.TrendRatio, error) {
		var t models.TrendRatio
		err := row.Scan(&t.LocationID, &t.Ratio)
		return t, err
	})
	if err != nil {
		return nil, observe("TrendRatios", "trend_ratios", start, err)
	}
	for _, t := range ratios {
		out[t.LocationID] = t.Ratio
	}
	return out, observe("TrendRatios", "trend_ratios", start, nil)
}

// Trend windows: the recent per-day interaction rate over the last
// trendRecentDays is compared with the per-day rate over the
// trendBaselineDays before it.
const (
	trendRecentDays   = 7
	trendBaselineDays = 28
)

// RefreshTrendRatios recomputes trend_ratios from interactions as of now and
// returns the number of rows written. The baseline rate is floored at one
// interaction per baseline window so new locations do not divide by zero.
func (db *DB) RefreshTrendRatios(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	now = now.UTC()
	recentStart := now.AddDate(0, 0, -trendRecentDays)
	baselineStart := recentStart.AddDate(0, 0, -trendBaselineDays)

	var written int64
	err := db.withRetry(ctx, func(ctx context.Context) error {
		return db.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM trend_ratios`); err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, `
				INSERT INTO trend_ratios (location_id, ratio, computed_at)
				SELECT
					location_id,
					(COUNT(*) FILTER (WHERE created_at >= ?) / ?::DOUBLE) /
						GREATEST(COUNT(*) FILTER (WHERE created_at < ?) / ?::DOUBLE, 1.0 / ?::DOUBLE),
					?
				FROM interactions
				WHERE created_at >= ? AND created_at < ?
				GROUP BY location_id`,
				recentStart, trendRecentDays,
				recentStart, trendBaselineDays, trendBaselineDays,
				now,
				baselineStart, now,
			)
			if err != nil {
				return err
			}
			written, err = res.RowsAffected()
			return err
		})
	})
	if err := observe("RefreshTrendRatios", "trend_ratios", start, err); err != nil {
		return 0, err
	}
	return written, nil
}
