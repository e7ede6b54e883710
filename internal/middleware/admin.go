// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spott/internal/logging"
	"github.com/tomtom215/spott/internal/models"
)

// AdminToken rejects requests whose "Authorization: Bearer <token>" does not
// match token. An empty token disables the protected routes entirely.
func AdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				deny(w, r, http.StatusForbidden, "FORBIDDEN", "Admin endpoints are disabled")
				return
			}
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				deny(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid admin token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	logging.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Int("status", status).Msg("Admin request rejected")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.APIResponse{ //nolint:errcheck // client gone
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    &models.APIError{Code: code, Message: msg},
	})
}
