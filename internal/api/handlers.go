// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package api

import (
	"context"
	"time"

	"github.com/osumirror/beatmapd/internal/config"
	"github.com/osumirror/beatmapd/internal/models"
)

// BeatmapService is the beatmap orchestration surface the handlers
// consume. *usecase.Beatmaps satisfies it.
type BeatmapService interface {
	Lookup(ctx context.Context, beatmapID int) (*models.Beatmap, error)
	Create(ctx context.Context, b *models.Beatmap) (*models.Beatmap, error)
	List(ctx context.Context, filter *models.BeatmapFilter, page, pageSize int) ([]*models.Beatmap, error)
	Update(ctx context.Context, beatmapID int, update *models.BeatmapUpdate) (*models.Beatmap, error)
	Delete(ctx context.Context, beatmapID int) (*models.Beatmap, error)
}

// BeatmapsetService is the beatmapset orchestration surface.
// *usecase.Beatmapsets satisfies it.
type BeatmapsetService interface {
	Lookup(ctx context.Context, beatmapsetID int) (*models.Beatmapset, error)
	Create(ctx context.Context, s *models.Beatmapset) (*models.Beatmapset, error)
	List(ctx context.Context, filter *models.BeatmapsetFilter, page, pageSize int) ([]*models.Beatmapset, error)
	Update(ctx context.Context, beatmapsetID int, update *models.BeatmapsetUpdate) (*models.Beatmapset, error)
	Delete(ctx context.Context, beatmapsetID int) (*models.Beatmapset, error)
}

// Pinger is the readiness-check surface. *database.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for the API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_beatmaps.go: beatmap endpoints
//   - handlers_beatmapsets.go: beatmapset endpoints
//   - handlers_health.go: health/monitoring endpoints
type Handler struct {
	beatmaps    BeatmapService
	beatmapsets BeatmapsetService
	db          Pinger
	config      *config.Config
	startTime   time.Time
}

// NewHandler creates an API handler with its dependencies.
func NewHandler(beatmaps BeatmapService, beatmapsets BeatmapsetService, db Pinger, cfg *config.Config) *Handler {
	return &Handler{
		beatmaps:    beatmaps,
		beatmapsets: beatmapsets,
		db:          db,
		config:      cfg,
		startTime:   time.Now(),
	}
}
