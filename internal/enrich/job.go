// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package enrich

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/spott/internal/config"
	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/logging"
	"github.com/tomtom215/spott/internal/metrics"
	"github.com/tomtom215/spott/internal/models"
	"github.com/tomtom215/spott/internal/places"
	"github.com/tomtom215/spott/internal/storage"
)

// ErrPlacesNotConfigured is returned by Run when the Places client has no API key.
var ErrPlacesNotConfigured = errors.New("google places is not configured")

// photoMaxWidth is the width requested for mirrored photos.
const photoMaxWidth = 1600

// Store is the data access the job needs.
type Store interface {
	ListLocationsForEnrichment(ctx context.Context, offset, limit int) ([]models.Location, error)
	UpdateLocationEnrichment(ctx context.Context, id string, e *models.PlaceEnrichment) error
	DeleteLocation(ctx context.Context, id string) error
	RecordAPIUsage(ctx context.Context, u *models.APIUsage) error
	MonthlySpend(ctx context.Context, now time.Time) (float64, error)
}

// PlacesAPI is the subset of *places.Client the job calls.
type PlacesAPI interface {
	Configured() bool
	FindPlace(ctx context.Context, query string, bias *models.Coordinates) (*places.Candidate, error)
	Details(ctx context.Context, placeID string, opts places.DetailsOptions) (*places.Details, error)
	PhotoURL(reference string, maxWidth int) string
}

// Job enriches location rows with Google Places data under a monthly budget.
// A Job is safe for concurrent use, but concurrent batches share one budget
// only through the spend ledger, so callers should run one batch at a time.
type Job struct {
	store  Store
	places PlacesAPI
	mirror storage.PhotoMirror
	cfg    config.EnrichConfig
	logger zerolog.Logger

	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(n int64) int64
}

// NewJob creates a job. A nil mirror keeps Google photo URLs as-is.
func NewJob(store Store, api PlacesAPI, mirror storage.PhotoMirror, cfg *config.EnrichConfig) *Job {
	if mirror == nil {
		mirror = storage.PassthroughMirror{}
	}
	return &Job{
		store:  store,
		places: api,
		mirror: mirror,
		cfg:    *cfg,
		logger: logging.WithComponent("enrich"),
		now:    time.Now,
		sleep:  sleepCtx,
		jitter: rand.Int64N,
	}
}

// DefaultParams returns batch parameters taken from configuration.
func (j *Job) DefaultParams() models.EnrichParams {
	return models.EnrichParams{
		BatchSize:            j.cfg.BatchSize,
		EnrichPhotos:         j.cfg.EnrichPhotos,
		EnrichHours:          j.cfg.EnrichHours,
		MaxPhotosPerLocation: j.cfg.MaxPhotosPerLocation,
		ResolvePlaceIDs:      j.cfg.ResolvePlaceIDs,
	}
}

// batch tracks the running totals of one Run.
type batch struct {
	params       models.EnrichParams
	monthlySpend float64
	result       *models.EnrichResult
}

func (b *batch) remaining(credit float64) float64 {
	return credit - b.monthlySpend - b.result.TotalCost
}

// Run processes one batch starting at params.Offset. Running out of budget
// is a normal outcome reported through BudgetExhausted, not an error.
// Per-item failures are recorded in Results and do not stop the batch.
// On cancellation the partial result is returned with the context error.
func (j *Job) Run(ctx context.Context, params models.EnrichParams) (*models.EnrichResult, error) {
	const op = "enrich.Run"

	if !params.DryRun && !j.places.Configured() {
		return nil, fault.E(op, fault.KindInvalid, ErrPlacesNotConfigured)
	}

	size := params.BatchSize
	if size <= 0 {
		size = j.cfg.BatchSize
	}
	if j.cfg.MaxItems > 0 && size > j.cfg.MaxItems {
		size = j.cfg.MaxItems
	}
	if params.MaxPhotosPerLocation < 0 {
		params.MaxPhotosPerLocation = 0
	}

	spend, err := j.store.MonthlySpend(ctx, j.now())
	if err != nil {
		return nil, fmt.Errorf("read monthly spend: %w", err)
	}

	// One extra row tells whether anything is left after this batch.
	rows, err := j.store.ListLocationsForEnrichment(ctx, params.Offset, size+1)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	b := &batch{
		params:       params,
		monthlySpend: spend,
		result: &models.EnrichResult{
			Results:      make([]models.EnrichItemResult, 0, min(size, len(rows))),
			MonthlySpend: spend,
			DryRun:       params.DryRun,
		},
	}
	res := b.result
	credit := j.cfg.MonthlyCreditUSD

	j.logger.Info().
		Int("offset", params.Offset).
		Int("batch_size", size).
		Float64("monthly_spend", spend).
		Bool("dry_run", params.DryRun).
		Msg("Starting enrichment batch")

	removed := 0
	var runErr error
	for i := 0; i < len(rows) && i < size; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if b.remaining(credit) < minItemCost(&rows[i], params) {
			res.BudgetExhausted = true
			break
		}
		if i > 0 {
			if err := j.sleep(ctx, j.delay()); err != nil {
				runErr = err
				break
			}
		}

		var item models.EnrichItemResult
		if params.DryRun {
			item = j.estimate(&rows[i], params)
		} else {
			item = j.enrichOne(ctx, b, &rows[i])
		}

		res.Results = append(res.Results, item)
		res.Processed++
		res.TotalCost += item.Cost
		switch item.Status {
		case models.EnrichStatusEnriched:
			res.Successful++
		case models.EnrichStatusDeleted:
			res.Deleted++
			removed++
		case models.EnrichStatusFailed:
			res.Failed++
		}
		metrics.RecordEnrichItem(string(item.Status), item.Cost)
	}

	res.HasMore = len(rows) > res.Processed
	res.NextOffset = params.Offset + res.Processed - removed
	res.RemainingBudget = max(0, b.remaining(credit))
	if res.BudgetExhausted {
		res.RemainingBudget = 0
	}

	outcome := "complete"
	switch {
	case runErr != nil:
		outcome = "canceled"
	case res.BudgetExhausted:
		outcome = "budget_exhausted"
	}
	metrics.RecordEnrichBatch(outcome, res.RemainingBudget)

	j.logger.Info().
		Int("processed", res.Processed).
		Int("successful", res.Successful).
		Int("failed", res.Failed).
		Int("deleted", res.Deleted).
		Float64("total_cost", res.TotalCost).
		Float64("remaining_budget", res.RemainingBudget).
		Bool("has_more", res.HasMore).
		Int("next_offset", res.NextOffset).
		Str("outcome", outcome).
		Msg("Enrichment batch finished")

	if runErr != nil {
		return res, fault.E(op, fault.KindOf(runErr), runErr)
	}
	return res, nil
}

// minItemCost is the spend one row needs before it may start: a details
// call, plus a find-place call when the place id must be resolved first.
func minItemCost(loc *models.Location, params models.EnrichParams) float64 {
	cost := places.CostPlaceDetails
	if loc.GooglePlaceID == "" && params.ResolvePlaceIDs {
		cost += places.CostFindPlace
	}
	return cost
}

// enrichOne resolves, fetches and stores Places data for one location.
func (j *Job) enrichOne(ctx context.Context, b *batch, loc *models.Location) models.EnrichItemResult {
	item := models.EnrichItemResult{LocationID: loc.ID, Name: loc.Name}
	log := j.logger.With().Str("location_id", loc.ID).Logger()
	params := b.params

	placeID := loc.GooglePlaceID
	if placeID == "" {
		if !params.ResolvePlaceIDs {
			item.Status = models.EnrichStatusSkipped
			item.Error = "no place id"
			return item
		}
		cand, err := j.places.FindPlace(ctx, searchQuery(loc), loc.Coordinates)
		j.bill(ctx, &item, places.SKUFindPlace, err)
		switch {
		case fault.Is(err, fault.KindNotFound):
			return j.remove(ctx, log, item, "no matching place")
		case err != nil:
			return failed(item, err)
		}
		placeID = cand.PlaceID
	}
	item.GooglePlaceID = placeID

	wantPhotos := params.EnrichPhotos && params.MaxPhotosPerLocation > 0
	det, err := j.places.Details(ctx, placeID, places.DetailsOptions{
		Hours:  params.EnrichHours,
		Photos: wantPhotos,
	})
	j.bill(ctx, &item, places.SKUPlaceDetails, err)
	switch {
	case fault.Is(err, fault.KindNotFound):
		return j.remove(ctx, log, item, "place no longer exists")
	case err != nil:
		return failed(item, err)
	}

	e := &models.PlaceEnrichment{GooglePlaceID: placeID, EnrichedAt: j.now()}
	if loc.Address == "" {
		e.Address = det.FormattedAddress
	}
	if loc.Coordinates == nil {
		e.Coordinates = det.Location
	}
	if params.EnrichHours && len(det.OpeningHours) > 0 {
		e.OpeningHours = det.OpeningHours
		item.HoursAdded = true
	}

	if wantPhotos {
		for i, ref := range det.PhotoReferences {
			if i >= params.MaxPhotosPerLocation {
				break
			}
			if b.remaining(j.cfg.MonthlyCreditUSD)-item.Cost < places.CostPlacePhoto {
				log.Debug().Int("photos", len(e.PhotoURLs)).Msg("Budget too low for more photos")
				break
			}
			url, err := j.mirror.Mirror(ctx, loc.ID, i, j.places.PhotoURL(ref, photoMaxWidth))
			if err != nil {
				log.Warn().Err(err).Int("photo", i).Msg("Failed to mirror photo")
				continue
			}
			j.bill(ctx, &item, places.SKUPlacePhoto, nil)
			e.PhotoURLs = append(e.PhotoURLs, url)
		}
		item.PhotosAdded = len(e.PhotoURLs)
	}

	if err := j.store.UpdateLocationEnrichment(ctx, loc.ID, e); err != nil {
		return failed(item, err)
	}
	item.Status = models.EnrichStatusEnriched
	return item
}

// estimate prices a location without calling Places or writing anything.
func (j *Job) estimate(loc *models.Location, params models.EnrichParams) models.EnrichItemResult {
	item := models.EnrichItemResult{
		LocationID:    loc.ID,
		Name:          loc.Name,
		GooglePlaceID: loc.GooglePlaceID,
		Status:        models.EnrichStatusSkipped,
	}
	if loc.GooglePlaceID == "" {
		if !params.ResolvePlaceIDs {
			item.Error = "no place id"
			return item
		}
		item.Cost += places.CostFindPlace
	}
	item.Cost += places.CostPlaceDetails
	if params.EnrichPhotos {
		item.Cost += float64(params.MaxPhotosPerLocation) * places.CostPlacePhoto
	}
	return item
}

// remove deletes a location that has no Places match.
func (j *Job) remove(ctx context.Context, log zerolog.Logger, item models.EnrichItemResult, reason string) models.EnrichItemResult {
	if err := j.store.DeleteLocation(ctx, item.LocationID); err != nil && !fault.Is(err, fault.KindNotFound) {
		return failed(item, fmt.Errorf("delete unmatched location: %w", err))
	}
	log.Info().Str("reason", reason).Msg("Deleted location without Places match")
	item.Status = models.EnrichStatusDeleted
	item.Error = reason
	return item
}

// bill adds the SKU's cost to item and appends it to the ledger when the
// request reached the API. Requests rejected locally are free.
func (j *Job) bill(ctx context.Context, item *models.EnrichItemResult, sku places.SKU, callErr error) {
	if callErr != nil && !billable(callErr) {
		return
	}
	cost := sku.Cost()
	item.Cost += cost
	err := j.store.RecordAPIUsage(ctx, &models.APIUsage{
		SKU:        string(sku),
		Cost:       cost,
		LocationID: item.LocationID,
		CreatedAt:  j.now(),
	})
	if err != nil {
		j.logger.Error().Err(err).Str("sku", string(sku)).Msg("Failed to record API usage")
	}
}

// billable reports whether a failed call is still charged. Google bills
// ZERO_RESULTS answers; transport failures and rejected requests are free.
func billable(err error) bool {
	return fault.Is(err, fault.KindNotFound)
}

func failed(item models.EnrichItemResult, err error) models.EnrichItemResult {
	item.Status = models.EnrichStatusFailed
	item.Error = err.Error()
	return item
}

// searchQuery is the Find Place input for a location: its name plus the
// most specific location hint available.
func searchQuery(loc *models.Location) string {
	parts := []string{loc.Name}
	switch {
	case loc.Address != "":
		parts = append(parts, loc.Address)
	case loc.City != "":
		parts = append(parts, loc.City)
	}
	return strings.Join(parts, ", ")
}

// delay returns a random pause in [MinDelay, MaxDelay].
func (j *Job) delay() time.Duration {
	lo, hi := j.cfg.MinDelay, j.cfg.MaxDelay
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(j.jitter(int64(hi-lo)+1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
