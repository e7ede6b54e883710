// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/spott/internal/logging"
	"github.com/tomtom215/spott/internal/models"
)

// Enrich handles POST /api/v1/admin/enrich.
//
// The optional body overrides fields of the configured batch defaults
// (models.EnrichParams). The response carries the batch result including
// next_offset for the following call. A batch that stopped on the budget
// before processing anything responds 402 with the result attached.
func (h *Handler) Enrich(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.enricher == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeNotConfigured, "Enrichment is not configured", nil, nil)
		return
	}

	params := h.enricher.DefaultParams()
	if err := decodeBody(w, r, &params); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid request body", nil, err)
		return
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("offset", params.Offset).
		Int("batch_size", params.BatchSize).
		Bool("dry_run", params.DryRun).
		Msg("Admin enrichment batch requested")

	res, err := h.enricher.Run(r.Context(), params)
	if err != nil {
		respondFault(w, r, err)
		return
	}

	if res.BudgetExhausted && res.Processed == 0 {
		respondJSON(w, http.StatusPaymentRequired, &models.APIResponse{
			Status: "error",
			Data:   res,
			Metadata: models.Metadata{
				Timestamp:   time.Now().UTC(),
				QueryTimeMS: time.Since(start).Milliseconds(),
			},
			Error: &models.APIError{
				Code:    CodeBudgetExhausted,
				Message: "Monthly API budget exhausted",
				Details: map[string]interface{}{"monthly_spend": res.MonthlySpend},
			},
		})
		return
	}
	respondData(w, http.StatusOK, res, start, false)
}
