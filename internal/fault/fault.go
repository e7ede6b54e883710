// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package fault classifies I/O failures so callers can tell "no data"
// apart from "the fetch failed" without inspecting error strings.
//
// Functions that touch the database, the cache backend or an external API
// return (value, error). When error is non-nil it is, or wraps, an *Error
// whose Kind says what went wrong:
//
//	vec, err := profiles.Get(ctx, userID)
//	if fault.Is(err, fault.KindUnavailable) {
//	    // degrade: vec is the empty vector
//	}
package fault

import (
	"context"
	"errors"
	"strings"
)

// Kind categorizes a failure.
type Kind int

const (
	// KindUnknown is the default for unclassified errors.
	KindUnknown Kind = iota
	// KindNotFound means the requested record or place does not exist.
	KindNotFound
	// KindUnavailable is a transient backend failure (network, timeout, 5xx, open breaker).
	KindUnavailable
	// KindInvalid means the request or the upstream response was malformed or rejected.
	KindInvalid
	// KindBudgetExhausted means the monthly Places spend cap was reached.
	KindBudgetExhausted
	// KindCanceled means the caller gave up.
	KindCanceled
)

// String returns the snake_case name used in logs, metrics and API error codes.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	case KindInvalid:
		return "invalid"
	case KindBudgetExhausted:
		return "budget_exhausted"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Retryable reports whether an operation failing with this kind may succeed later.
func (k Kind) Retryable() bool {
	return k == KindUnavailable
}

// Error is a classified failure of a named operation.
type Error struct {
	Op   string // e.g. "database.ListLocations", "places.Details"
	Kind Kind
	Err  error
}

// E builds an *Error. A nil err yields an error carrying only op and kind.
func E(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap classifies err for op. Context errors are classified automatically
// and an existing *Error keeps its kind. Returns nil for a nil err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: KindOf(err), Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain.
// Context cancellation maps to KindCanceled and deadline expiry to
// KindUnavailable. Anything else is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var fe *Error
	if errors.As(err, &fe) && fe.Kind != KindUnknown {
		return fe.Kind
	}
	switch {
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
