// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	"github.com/tomtom215/spott/internal/logging"
)

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() error {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
	return nil
}

// Reconnect re-opens the database after a connection loss, with exponential
// backoff between attempts. It is a no-op while Ping succeeds.
func (db *DB) Reconnect(ctx context.Context) error {
	db.reconnectMu.Lock()
	defer db.reconnectMu.Unlock()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := db.Ping(pingCtx)
	cancel()
	if err == nil {
		return nil
	}
	logging.Warn().Err(err).Msg("Database ping failed, reconnecting")

	if db.conn != nil {
		closeWithLog(db.conn, "database connection")
	}

	var lastErr error
	for attempt := 0; attempt < db.maxReconnectTries; attempt++ {
		if attempt > 0 {
			delay := db.reconnectDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := db.attemptReconnect(ctx); err != nil {
			lastErr = fmt.Errorf("reconnect attempt %d failed: %w", attempt+1, err)
			continue
		}
		logging.Info().Int("attempt", attempt+1).Msg("Database reconnected")
		return nil
	}

	return fmt.Errorf("failed to reconnect after %d attempts: %w", db.maxReconnectTries, lastErr)
}

func (db *DB) attemptReconnect(ctx context.Context) error {
	conn, err := sql.Open("duckdb", connectionString(db.cfg))
	if err != nil {
		return fmt.Errorf("failed to open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		return fmt.Errorf("failed to ping: %w", err)
	}

	db.conn = conn
	if err := db.configureConnectionPool(); err != nil {
		closeQuietly(conn)
		return fmt.Errorf("failed to configure pool: %w", err)
	}
	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return nil
}

// withRetry runs fn, retrying DuckDB transaction conflicts with exponential
// backoff (1ms, 2ms, 4ms). Other errors are returned immediately.
func (db *DB) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < db.maxWriteRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return fmt.Errorf("operation timed out or canceled: %w", ctx.Err())
		}
		if isInternalError(err) {
			return fmt.Errorf("duckdb internal error: %w", err)
		}
		if !isTransactionConflict(err) {
			return err
		}
		if attempt < db.maxWriteRetries-1 {
			backoff := time.Millisecond * time.Duration(1<<uint(attempt))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// inTx runs fn inside a transaction, committing on success.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback() //nolint:errcheck // the fn error is what matters
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
