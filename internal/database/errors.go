// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package database

import (
	"database/sql"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/logging"
	"github.com/tomtom215/spott/internal/metrics"
)

// ErrLocationNotFound is returned when a location id does not exist.
var ErrLocationNotFound = errors.New("location not found")

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource on an error path where the Close error is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() //nolint:errcheck // best-effort cleanup
	}
}

// classify wraps err as a *fault.Error for op.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fault.E(op, fault.KindNotFound, err)
	case isConnectionError(err), isTransactionConflict(err):
		return fault.E(op, fault.KindUnavailable, err)
	default:
		return fault.Wrap(op, err)
	}
}

// observe records query metrics and returns the classified error.
func observe(op, table string, start time.Time, err error) error {
	err = classify("database."+op, err)
	metrics.RecordDBQuery(op, table, time.Since(start), err)
	return err
}

// isConnectionError checks if an error indicates database connection loss
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"bad connection",
		"database is closed",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction conflict") ||
		strings.Contains(msg, "Conflict on update") ||
		strings.Contains(msg, "cannot update a table that has been altered")
}

// isInternalError checks if an error is a DuckDB INTERNAL error
func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "INTERNAL Error")
}
