// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

// Command server runs the beatmapd HTTP API.
//
// beatmapd mirrors beatmap and beatmapset metadata from the osu! API v2
// into a local DuckDB database and serves it over REST. Reads are
// cached read-through: a local row younger than 24 hours is served
// directly, anything older (or absent) is refetched from upstream.
//
// Configuration is layered: built-in defaults, then an optional
// config.yaml, then BEATMAPD_-prefixed environment variables. The only
// required settings are the osu! OAuth client credentials:
//
//	BEATMAPD_OSU_CLIENT_ID=12345 \
//	BEATMAPD_OSU_CLIENT_SECRET=... \
//	beatmapd-server
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

	"github.com/osumirror/beatmapd/internal/api"
	"github.com/osumirror/beatmapd/internal/config"
	"github.com/osumirror/beatmapd/internal/database"
	"github.com/osumirror/beatmapd/internal/logging"
	"github.com/osumirror/beatmapd/internal/osuapi"
	"github.com/osumirror/beatmapd/internal/supervisor"
	"github.com/osumirror/beatmapd/internal/sweep"
	"github.com/osumirror/beatmapd/internal/usecase"
)

func main() {
	// Load configuration first to get logging settings.
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
		Str("environment", cfg.Server.Environment).
		Msg("Starting beatmapd")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()
	logging.Info().Str("path", cfg.Database.Path).Msg("Database ready")

	// Upstream client, wrapped in a circuit breaker so a failing osu!
	// API degrades reads to cache-only instead of hammering upstream.
	upstream := osuapi.NewCircuitBreakerClient(osuapi.NewClient(&cfg.Osu))

	beatmaps := usecase.NewBeatmaps(db, upstream)
	beatmapsets := usecase.NewBeatmapsets(db, db, upstream)

	handler := api.NewHandler(beatmaps, beatmapsets, db, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.DefaultChiMiddlewareConfig()))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	sup := supervisor.New(logging.NewSlogLogger(), supervisor.DefaultConfig())
	sup.Add(supervisor.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if cfg.Sweep.Enabled {
		sup.Add(sweep.NewSweeper(db, cfg.Sweep.Interval))
		logging.Info().Dur("interval", cfg.Sweep.Interval).Msg("Expiry sweeper added")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := sup.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutting down, waiting for services to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := sup.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Stopped")
}
