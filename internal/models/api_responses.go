// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package models

import "time"

// APIResponse wraps every HTTP response body.
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"...","query_time_ms":12}}
//	{"status":"error","error":{"code":"NOT_FOUND","message":"..."},"metadata":{...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and degradation flags.
// Degraded is set when part of the response was computed from a fallback
// because a backend read failed.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Degraded    bool      `json:"degraded,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the readiness endpoint.
type HealthStatus struct {
	Status    string    `json:"status"`
	Database  bool      `json:"database"`
	Cache     bool      `json:"cache"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}
