// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/logging"
	"github.com/tomtom215/spott/internal/models"
	"github.com/tomtom215/spott/internal/validation"
)

// Error codes.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeBudgetExhausted = "BUDGET_EXHAUSTED"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
	CodeCanceled        = "REQUEST_CANCELED"
	CodeInternal        = "INTERNAL_ERROR"
	CodeNotConfigured   = "NOT_CONFIGURED"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// respondJSON writes response with status.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData writes a success envelope. start is when the handler began.
func respondData(w http.ResponseWriter, status int, data interface{}, start time.Time, degraded bool) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Degraded:    degraded,
		},
	})
}

// respondError writes an error envelope and logs err when set.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}, err error) {
	if err != nil {
		ev := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			ev = logging.Ctx(r.Context()).Error()
		}
		ev.Err(err).Str("code", code).Int("status", status).Str("path", sanitizeLogValue(r.URL.Path)).Msg("API error")
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message, Details: details},
	})
}

// respondFault maps err's fault kind to a status code.
func respondFault(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := statusForKind(fault.KindOf(err))
	if status == http.StatusBadRequest || status == http.StatusNotFound {
		msg = publicMessage(err, msg)
	}
	respondError(w, r, status, code, msg, nil, err)
}

func statusForKind(k fault.Kind) (int, string, string) {
	switch k {
	case fault.KindNotFound:
		return http.StatusNotFound, CodeNotFound, "Resource not found"
	case fault.KindInvalid:
		return http.StatusBadRequest, CodeBadRequest, "Invalid request"
	case fault.KindBudgetExhausted:
		return http.StatusPaymentRequired, CodeBudgetExhausted, "Monthly API budget exhausted"
	case fault.KindUnavailable:
		return http.StatusServiceUnavailable, CodeUnavailable, "A backend is temporarily unavailable"
	case fault.KindCanceled:
		return http.StatusServiceUnavailable, CodeCanceled, "Request canceled before completion"
	default:
		return http.StatusInternalServerError, CodeInternal, "Internal server error"
	}
}

// publicMessage returns the innermost cause of a client error, which never
// carries backend detail, or fallback.
func publicMessage(err error, fallback string) string {
	var fe *fault.Error
	if errors.As(err, &fe) && fe.Err != nil {
		inner := fe.Err
		for errors.As(inner, &fe) && fe.Err != nil {
			inner = fe.Err
		}
		return inner.Error()
	}
	return fallback
}

// validateRequest returns the validation failure of v as an API error.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	apiErr := verr.ToAPIError()
	return &models.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
}

func respondValidation(w http.ResponseWriter, r *http.Request, apiErr *models.APIError) {
	respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
}

// decodeBody reads a bounded JSON body into dst. An empty body leaves dst unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// getIntParam returns the query parameter as an int, def when absent, or
// an error when it is not a number.
func getIntParam(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// sanitizeLogValue escapes control characters so request data cannot forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
