// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// PeriodicConfig schedules a periodic service.
type PeriodicConfig struct {
	// Interval between run starts. Required.
	Interval time.Duration

	// Timeout bounds one run. Zero means Interval.
	Timeout time.Duration

	// RunOnStartup runs once immediately instead of waiting one Interval.
	RunOnStartup bool
}

// periodic calls run on a ticker until its context ends.
type periodic struct {
	cfg    PeriodicConfig
	logger zerolog.Logger
	run    func(ctx context.Context) error
}

func (p *periodic) serve(ctx context.Context) error {
	if p.cfg.Interval <= 0 {
		return errors.New("periodic service: interval must be positive")
	}
	timeout := p.cfg.Timeout
	if timeout <= 0 {
		timeout = p.cfg.Interval
	}

	p.logger.Info().
		Dur("interval", p.cfg.Interval).
		Bool("run_on_startup", p.cfg.RunOnStartup).
		Msg("Service starting")

	if p.cfg.RunOnStartup {
		p.once(ctx, timeout)
	}

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Service stopping")
			return ctx.Err()
		case <-ticker.C:
			p.once(ctx, timeout)
		}
	}
}

func (p *periodic) once(ctx context.Context, timeout time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := p.run(runCtx)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		p.logger.Info().Err(err).Msg("Run interrupted by shutdown")
	default:
		p.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("Run failed, retrying next interval")
	}
}
