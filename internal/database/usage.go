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

// RecordAPIUsage appends one billable request to the spend ledger.
func (db *DB) RecordAPIUsage(ctx context.Context, u *models.APIUsage) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err := db.withRetry(ctx, func(ctx context.Context) error {
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO api_usage (id, sku, cost, location_id, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			uuid.New().String(), u.SKU, u.Cost, nullString(u.LocationID), u.CreatedAt.UTC())
		return err
	})
	return observe("RecordAPIUsage", "api_usage", start, err)
}

// MonthlySpend sums the ledger for the UTC calendar month containing now.
func (db *DB) MonthlySpend(ctx context.Context, now time.Time) (float64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	monthStart, nextMonth := monthBounds(now)
	var spend float64
	err := db.conn.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(cost), 0)::DOUBLE
		FROM api_usage
		WHERE created_at >= ? AND created_at < ?`,
		monthStart, nextMonth).Scan(&spend)
	if err := observe("MonthlySpend", "api_usage", start, err); err != nil {
		return 0, err
	}
	return spend, nil
}

func monthBounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
