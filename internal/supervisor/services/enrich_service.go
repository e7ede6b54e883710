// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/spott/internal/enrich"
	"github.com/tomtom215/spott/internal/models"
)

// Sweeper is implemented by *enrich.Job.
type Sweeper interface {
	Sweep(ctx context.Context, params models.EnrichParams) (enrich.SweepSummary, error)
	DefaultParams() models.EnrichParams
}

// EnrichmentService sweeps all locations through the Places enrichment
// job on a schedule with the configured default parameters. A sweep that
// hits the monthly budget ends early; the next one starts from offset 0.
type EnrichmentService struct {
	job  Sweeper
	loop periodic
}

// NewEnrichmentService creates the service.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewEnrichmentService(job Sweeper, cfg PeriodicConfig, logger zerolog.Logger) *EnrichmentService {
	s := &EnrichmentService{job: job}
	s.loop = periodic{
		cfg:    cfg,
		logger: logger.With().Str("service", "enrichment").Logger(),
		run:    s.run,
	}
	return s
}

// Serve implements suture.Service.
func (s *EnrichmentService) Serve(ctx context.Context) error {
	return s.loop.serve(ctx)
}

func (s *EnrichmentService) run(ctx context.Context) error {
	sum, err := s.job.Sweep(ctx, s.job.DefaultParams())
	ev := s.loop.logger.Info()
	if err != nil {
		ev = s.loop.logger.Warn()
	}
	ev.Int("batches", sum.Batches).
		Int("processed", sum.Processed).
		Int("successful", sum.Successful).
		Int("failed", sum.Failed).
		Int("deleted", sum.Deleted).
		Float64("total_cost", sum.TotalCost).
		Bool("budget_exhausted", sum.BudgetExhausted).
		Msg("Enrichment sweep finished")
	return err
}

// String names the service in supervisor events.
func (s *EnrichmentService) String() string {
	return "enrichment-service"
}
