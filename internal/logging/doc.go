// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

// Package logging provides zerolog-based structured logging for Spott.
//
// A single global logger is configured once at startup and shared by every
// package. Output is JSON in production and a console format in development.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("city", city).Msg("Recommendations served")
//	logging.Error().Err(err).Str("location_id", id).Msg("Enrichment failed")
//
//	// Request-scoped fields (request_id, correlation_id)
//	logging.Ctx(ctx).Info().Msg("Processing request")
//
// # Component Loggers
//
//	log := logging.WithComponent("enrich")
//	log.Info().Int("batch_size", n).Msg("Batch started")
//
// # slog Adapter
//
// The supervisor tree (suture via sutureslog) requires an *slog.Logger.
// NewSlogLogger returns one that writes through the global zerolog logger.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never emitted.
package logging
