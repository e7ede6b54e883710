// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package models

import "time"

// EnrichParams controls one enrichment batch.
type EnrichParams struct {
	BatchSize            int  `json:"batch_size" validate:"omitempty,min=1,max=500"`
	Offset               int  `json:"offset" validate:"min=0"`
	EnrichPhotos         bool `json:"enrich_photos"`
	EnrichHours          bool `json:"enrich_hours"`
	MaxPhotosPerLocation int  `json:"max_photos_per_location" validate:"min=0,max=10"`
	ResolvePlaceIDs      bool `json:"resolve_place_ids"`
	DryRun               bool `json:"dry_run"`
}

// EnrichStatus is the outcome of a single location in a batch.
type EnrichStatus string

const (
	EnrichStatusEnriched EnrichStatus = "enriched"
	EnrichStatusDeleted  EnrichStatus = "deleted"
	EnrichStatusFailed   EnrichStatus = "failed"
	EnrichStatusSkipped  EnrichStatus = "skipped"
)

// EnrichItemResult reports what happened to one location.
type EnrichItemResult struct {
	LocationID    string       `json:"location_id"`
	Name          string       `json:"name"`
	Status        EnrichStatus `json:"status"`
	GooglePlaceID string       `json:"google_place_id,omitempty"`
	PhotosAdded   int          `json:"photos_added,omitempty"`
	HoursAdded    bool         `json:"hours_added,omitempty"`
	Cost          float64      `json:"cost"`
	Error         string       `json:"error,omitempty"`
}

// EnrichResult summarizes one batch.
type EnrichResult struct {
	Processed       int                `json:"processed"`
	Successful      int                `json:"successful"`
	Failed          int                `json:"failed"`
	Deleted         int                `json:"deleted"`
	Results         []EnrichItemResult `json:"results"`
	TotalCost       float64            `json:"total_cost"`
	MonthlySpend    float64            `json:"monthly_spend"`
	RemainingBudget float64            `json:"remaining_budget"`
	BudgetExhausted bool               `json:"budget_exhausted"`
	HasMore         bool               `json:"has_more"`
	NextOffset      int                `json:"next_offset"`
	DryRun          bool               `json:"dry_run"`
}

// PlaceEnrichment is the data written back to a location row.
type PlaceEnrichment struct {
	GooglePlaceID string
	Address       string
	Coordinates   *Coordinates
	OpeningHours  []string
	PhotoURLs     []string
	EnrichedAt    time.Time
}

// APIUsage is one billable Places request in the spend ledger.
type APIUsage struct {
	SKU        string    `json:"sku"`
	Cost       float64   `json:"cost"`
	LocationID string    `json:"location_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
