// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/spott/internal/models"
)

// InsertInteraction records a user action. ID and CreatedAt are filled when empty.
func (db *DB) InsertInteraction(ctx context.Context, in *models.Interaction) error {
	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err := db.withRetry(ctx, func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO interactions (id, user_id, location_id, category, action, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			in.ID, in.UserID, in.LocationID, in.Category, string(in.Action), in.CreatedAt.UTC())
		return err
	})
	return observe("InsertInteraction", "interactions", start, err)
}

// CategoryActionCounts aggregates a user's interactions by category and action.
func (db *DB) CategoryActionCounts(ctx context.Context, userID string) ([]models.CategoryActionCount, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	counts, err := queryAndScan(ctx, db.conn, `
		SELECT category, action, COUNT(*)
		FROM interactions
		WHERE user_id = ?
		GROUP BY category, action
		ORDER BY category, action`,
		[]interface{}{userID},
		func(row rowScanner) (models.CategoryActionCount, error) {
			var (
				c      models.CategoryActionCount
				action string
			)
			err := row.Scan(&c.Category, &action, &c.Count)
			c.Action = models.ActionType(action)
			return c, err
		})
	if err != nil {
		return nil, observe("CategoryActionCounts", "interactions", start, err)
	}
	return counts, observe("CategoryActionCounts", "interactions", start, nil)
}

// ActiveUsers returns users with an interaction or post since the given time.
func (db *DB) ActiveUsers(ctx context.Context, since time.Time) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	users, err := queryAndScan(ctx, db.conn, `
		SELECT user_id FROM interactions WHERE created_at >= ?
		UNION
		SELECT user_id FROM posts WHERE created_at >= ?
		ORDER BY user_id`,
		[]interface{}{since.UTC(), since.UTC()},
		func(row rowScanner) (string, error) {
			var id string
			err := row.Scan(&id)
			return id, err
		})
	if err != nil {
		return nil, observe("ActiveUsers", "interactions", start, err)
	}
	return users, observe("ActiveUsers", "interactions", start, nil)
}

// UserTopCities returns the cities of the locations a user interacted with
// most, up to n.
func (db *DB) UserTopCities(ctx context.Context, userID string, n int) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	cities, err := queryAndScan(ctx, db.conn, `
		SELECT l.city
		FROM interactions i
		JOIN locations l ON l.id = i.location_id
		WHERE i.user_id = ? AND l.city IS NOT NULL AND l.city <> ''
		GROUP BY l.city
		ORDER BY COUNT(*) DESC, l.city
		LIMIT ?`,
		[]interface{}{userID, limitOrAll(n)},
		func(row rowScanner) (string, error) {
			var c string
			err := row.Scan(&c)
			return c, err
		})
	if err != nil {
		return nil, observe("UserTopCities", "interactions", start, err)
	}
	return cities, observe("UserTopCities", "interactions", start, nil)
}
