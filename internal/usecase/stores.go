// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package usecase

import (
	"context"
	"time"

	"github.com/osumirror/beatmapd/internal/models"
)

// BeatmapStore is the beatmap persistence surface the orchestrators
// need. *database.DB satisfies it.
type BeatmapStore interface {
	CreateBeatmap(ctx context.Context, b *models.Beatmap) (*models.Beatmap, error)
	GetBeatmap(ctx context.Context, beatmapID int) (*models.Beatmap, error)
	ListBeatmaps(ctx context.Context, filter *models.BeatmapFilter, page, pageSize int) ([]*models.Beatmap, error)
	UpdateBeatmap(ctx context.Context, beatmapID int, update *models.BeatmapUpdate) (*models.Beatmap, error)
	DeleteBeatmap(ctx context.Context, beatmapID int) (*models.Beatmap, error)
}

// BeatmapsetStore is the beatmapset persistence surface. Direct deletes
// are soft (the tombstone survives); HardDeleteBeatmapset exists solely
// for cache invalidation, where the row must actually go away so the
// refetched insert cannot collide on the primary key.
type BeatmapsetStore interface {
	CreateBeatmapset(ctx context.Context, s *models.Beatmapset) (*models.Beatmapset, error)
	GetBeatmapset(ctx context.Context, beatmapsetID int) (*models.Beatmapset, error)
	ListBeatmapsets(ctx context.Context, filter *models.BeatmapsetFilter, page, pageSize int) ([]*models.Beatmapset, error)
	UpdateBeatmapset(ctx context.Context, beatmapsetID int, update *models.BeatmapsetUpdate) (*models.Beatmapset, error)
	SoftDeleteBeatmapset(ctx context.Context, beatmapsetID int) (*models.Beatmapset, error)
	HardDeleteBeatmapset(ctx context.Context, beatmapsetID int) error
}

// BeatmapFetcher fetches a single beatmap from the authority.
type BeatmapFetcher interface {
	GetBeatmap(ctx context.Context, beatmapID int) (*models.Beatmap, error)
}

// BeatmapsetFetcher fetches a beatmapset plus its embedded child
// beatmaps from the authority.
type BeatmapsetFetcher interface {
	GetBeatmapset(ctx context.Context, beatmapsetID int) (*models.Beatmapset, []*models.Beatmap, error)
}

// nowFunc lets tests pin the staleness clock.
type nowFunc func() time.Time
