// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/spott/internal/recommend"
)

// Precomputer is implemented by *recommend.Engine.
type Precomputer interface {
	Precompute(ctx context.Context) (*recommend.PrecomputeSummary, error)
}

// PrecomputeService rebuilds stored recommendations on a schedule.
type PrecomputeService struct {
	engine Precomputer
	loop   periodic
}

// NewPrecomputeService creates the service.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewPrecomputeService(engine Precomputer, cfg PeriodicConfig, logger zerolog.Logger) *PrecomputeService {
	s := &PrecomputeService{engine: engine}
	s.loop = periodic{
		cfg:    cfg,
		logger: logger.With().Str("service", "precompute").Logger(),
		run:    s.run,
	}
	return s
}

// Serve implements suture.Service.
func (s *PrecomputeService) Serve(ctx context.Context) error {
	return s.loop.serve(ctx)
}

func (s *PrecomputeService) run(ctx context.Context) error {
	sum, err := s.engine.Precompute(ctx)
	if err != nil {
		return err
	}
	s.loop.logger.Info().
		Int("users", sum.Users).
		Int("failed", sum.Failed).
		Int("rows", sum.Rows).
		Int64("trend_ratios", sum.TrendRatios).
		Dur("duration", sum.Duration).
		Msg("Precompute run complete")
	return nil
}

// String names the service in supervisor events.
func (s *PrecomputeService) String() string {
	return "precompute-service"
}
