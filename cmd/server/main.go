// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/spott/internal/api"
	"github.com/tomtom215/spott/internal/cache"
	"github.com/tomtom215/spott/internal/config"
	"github.com/tomtom215/spott/internal/database"
	"github.com/tomtom215/spott/internal/enrich"
	"github.com/tomtom215/spott/internal/logging"
	"github.com/tomtom215/spott/internal/match"
	"github.com/tomtom215/spott/internal/places"
	"github.com/tomtom215/spott/internal/recommend"
	"github.com/tomtom215/spott/internal/storage"
	"github.com/tomtom215/spott/internal/supervisor"
	"github.com/tomtom215/spott/internal/supervisor/services"
)

//nolint:gocyclo // sequential startup
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Str("cache_backend", cfg.Recommend.CacheBackend).
		Bool("enrich_enabled", cfg.Enrich.Enabled).
		Msg("Starting Spott")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	profileStore, err := initProfileStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize profile cache")
	}
	defer func() {
		if err := profileStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing profile cache")
		}
	}()

	recCfg := recommend.FromAppConfig(&cfg.Recommend)
	profiles := cache.NewLoader[recommend.ProfileVector]("profile", profileStore, recCfg.ProfileCacheTTL)
	engine, err := recommend.NewEngine(recCfg, db, profiles)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	placesClient := places.NewClient(&cfg.Places)
	if !placesClient.Configured() {
		logging.Warn().Msg("Google Places API key not set; enrichment limited to dry runs")
	}
	mirror, err := storage.New(&cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize photo storage")
	}
	job := enrich.NewJob(db, placesClient, mirror, &cfg.Enrich)

	matcher := match.New(match.Config{
		NameSimilarity:    cfg.Matcher.NameSimilarity,
		ProximityKM:       cfg.Matcher.ProximityKM,
		MinStreetTokenLen: cfg.Matcher.MinStreetTokenLen,
	})

	handler := api.NewHandler(cfg, db, engine, job, matcher)
	handler.SetCache(profileStore)
	router := api.NewRouter(handler, cfg)

	if cfg.Security.AdminToken == "" {
		logging.Warn().Msg("security.admin_token not set; admin endpoints are disabled")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Recommend.PrecomputeEnabled {
		tree.AddJobService(services.NewPrecomputeService(engine, services.PeriodicConfig{
			Interval:     cfg.Recommend.PrecomputeEvery,
			RunOnStartup: true,
		}, logging.WithComponent("supervisor")))
		logging.Info().Dur("interval", cfg.Recommend.PrecomputeEvery).Msg("Precompute service added")
	}
	if cfg.Enrich.Enabled {
		tree.AddJobService(services.NewEnrichmentService(job, services.PeriodicConfig{
			Interval: cfg.Enrich.Interval,
		}, logging.WithComponent("supervisor")))
		logging.Info().Dur("interval", cfg.Enrich.Interval).Msg("Enrichment service added")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	logging.Info().Msg("Spott stopped")
}
