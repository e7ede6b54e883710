// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tomtom215/spott/internal/logging"
)

// enableProfiling turns on DuckDB profiling when ENABLE_QUERY_PROFILING=true.
func (db *DB) enableProfiling() error {
	if os.Getenv("ENABLE_QUERY_PROFILING") != "true" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "PRAGMA enable_profiling"); err != nil {
		return fmt.Errorf("failed to enable profiling: %w", err)
	}
	if _, err := db.conn.ExecContext(ctx, "PRAGMA profiling_mode = 'detailed'"); err != nil {
		return fmt.Errorf("failed to set profiling mode: %w", err)
	}

	logging.Info().Msg("Query profiling enabled (detailed mode)")
	return nil
}

// ensureContext applies a 30-second timeout when ctx has no deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}
	return ctx, func() {}
}

// Checkpoint forces a WAL checkpoint
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// RecordCounts is a row count per core table.
type RecordCounts struct {
	Locations    int64 `json:"locations"`
	SavedPlaces  int64 `json:"saved_places"`
	Posts        int64 `json:"posts"`
	Interactions int64 `json:"interactions"`
}

// GetRecordCounts returns row counts for the core tables.
func (db *DB) GetRecordCounts(ctx context.Context) (*RecordCounts, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var c RecordCounts
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM locations),
			(SELECT COUNT(*) FROM saved_places),
			(SELECT COUNT(*) FROM posts),
			(SELECT COUNT(*) FROM interactions)`).
		Scan(&c.Locations, &c.SavedPlaces, &c.Posts, &c.Interactions)
	if err != nil {
		return nil, classify("database.GetRecordCounts", err)
	}
	return &c, nil
}
