// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package enrich

import (
	"context"

	"github.com/tomtom215/spott/internal/models"
)

// SweepSummary totals the batches of one Sweep.
type SweepSummary struct {
	Batches         int
	Processed       int
	Successful      int
	Failed          int
	Deleted         int
	TotalCost       float64
	BudgetExhausted bool
}

// Sweep runs batches from offset 0 with params until no rows are left or
// the budget runs out.
func (j *Job) Sweep(ctx context.Context, params models.EnrichParams) (SweepSummary, error) {
	var sum SweepSummary
	params.Offset = 0
	for {
		res, err := j.Run(ctx, params)
		if res != nil {
			sum.Batches++
			sum.Processed += res.Processed
			sum.Successful += res.Successful
			sum.Failed += res.Failed
			sum.Deleted += res.Deleted
			sum.TotalCost += res.TotalCost
			sum.BudgetExhausted = res.BudgetExhausted
		}
		if err != nil {
			return sum, err
		}
		if !res.HasMore || res.BudgetExhausted || res.Processed == 0 {
			return sum, nil
		}
		params.Offset = res.NextOffset
	}
}
