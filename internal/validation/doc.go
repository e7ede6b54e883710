// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package validation validates request structs with go-playground/validator v10.
//
// A single validator is built on first use and shared; it caches struct
// metadata and is safe for concurrent use. Field names in errors are taken
// from json tags so messages match the wire format.
//
// # Custom Tags
//
//   - spott_category: lower-case letters, digits and underscores, 2 to 40
//     characters, starting with a letter (Places types such as "cafe" or
//     "night_club")
//   - spott_id: 1 to 128 characters of letters, digits, '-', '_' or ':'
//
// # Usage
//
//	var req models.InteractionRequest
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
