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

// UpsertFollow records that FollowerID follows FolloweeID.
func (db *DB) UpsertFollow(ctx context.Context, f *models.Follow) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err := db.withRetry(ctx, func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO follows (follower_id, followee_id, avatar_url, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (follower_id, followee_id) DO UPDATE SET avatar_url = EXCLUDED.avatar_url`,
			f.FollowerID, f.FolloweeID, nullString(f.AvatarURL), f.CreatedAt.UTC())
		return err
	})
	return observe("UpsertFollow", "follows", start, err)
}

// FriendInfluence returns, per location, how many of viewerID's followees
// interacted with it since the given time, plus up to maxAvatars distinct
// avatars of the most recent ones. Locations without friend activity are
// absent from the map.
func (db *DB) FriendInfluence(ctx context.Context, viewerID string, locationIDs []string, since time.Time, maxAvatars int) (map[string]models.FriendInfluence, error) {
	out := make(map[string]models.FriendInfluence)
	if len(locationIDs) == 0 {
		return out, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	query, args := newQueryBuilder(`
		SELECT i.location_id, f.followee_id, f.avatar_url, MAX(i.created_at) AS last_at
		FROM follows f
		JOIN interactions i ON i.user_id = f.followee_id
		WHERE f.follower_id = ? AND i.created_at >= ?`, viewerID, since.UTC()).
		addIn("i.location_id", locationIDs).
		build("GROUP BY i.location_id, f.followee_id, f.avatar_url ORDER BY i.location_id, last_at DESC, f.followee_id")

	type friendRow struct {
		locationID string
		avatar     sql.NullString
	}
	rows, err := queryAndScan(ctx, db.conn, query, args, func(row rowScanner) (friendRow, error) {
		var (
			r        friendRow
			followee string
			lastAt   time.Time
		)
		err := row.Scan(&r.locationID, &followee, &r.avatar, &lastAt)
		return r, err
	})
	if err != nil {
		return nil, observe("FriendInfluence", "follows", start, err)
	}

	seen := make(map[string]map[string]bool)
	for _, r := range rows {
		fi := out[r.locationID]
		fi.Count++
		if r.avatar.Valid && r.avatar.String != "" && len(fi.Avatars) < maxAvatars {
			if seen[r.locationID] == nil {
				seen[r.locationID] = make(map[string]bool)
			}
			if !seen[r.locationID][r.avatar.String] {
				seen[r.locationID][r.avatar.String] = true
				fi.Avatars = append(fi.Avatars, r.avatar.String)
			}
		}
		out[r.locationID] = fi
	}
	return out, observe("FriendInfluence", "follows", start, nil)
}
