// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package database

import (
	"context"
	"database/sql"
	"strings"
)

// queryBuilder appends AND-ed filters to a base query that already has a WHERE clause.
type queryBuilder struct {
	baseQuery string
	args      []interface{}
	filters   []string
}

func newQueryBuilder(baseQuery string, args ...interface{}) *queryBuilder {
	qb := &queryBuilder{
		baseQuery: baseQuery,
		args:      make([]interface{}, 0, 8),
		filters:   make([]string, 0, 4),
	}
	qb.args = append(qb.args, args...)
	return qb
}

// addEquals filters column = value, skipping empty values.
func (qb *queryBuilder) addEquals(column, value string) *queryBuilder {
	if value != "" {
		qb.filters = append(qb.filters, column+" = ?")
		qb.args = append(qb.args, value)
	}
	return qb
}

// addIn filters column IN (values). An empty list matches nothing.
func (qb *queryBuilder) addIn(column string, values []string) *queryBuilder {
	if len(values) == 0 {
		qb.filters = append(qb.filters, "FALSE")
		return qb
	}
	qb.filters = append(qb.filters, column+" IN ("+placeholders(len(values))+")")
	for _, v := range values {
		qb.args = append(qb.args, v)
	}
	return qb
}

// addFilter adds a custom filter condition
func (qb *queryBuilder) addFilter(condition string, args ...interface{}) *queryBuilder {
	qb.filters = append(qb.filters, condition)
	qb.args = append(qb.args, args...)
	return qb
}

// build returns the query with filters and suffix, plus suffixArgs appended.
func (qb *queryBuilder) build(suffix string, suffixArgs ...interface{}) (string, []interface{}) {
	query := qb.baseQuery
	if len(qb.filters) > 0 {
		query += " AND " + strings.Join(qb.filters, " AND ")
	}
	if suffix != "" {
		query += " " + suffix
	}
	return query, append(qb.args, suffixArgs...)
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanFunc scans a single row into a result type
type scanFunc[T any] func(rowScanner) (T, error)

// queryAndScan executes a query and scans all rows with scan.
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []interface{}, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
