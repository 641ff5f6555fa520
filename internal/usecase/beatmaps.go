// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

/*
beatmaps.go - Beatmap Read-Through Orchestrator

Implements the fetch-or-refresh-and-cache protocol for single beatmaps:

  1. Lookup the local row.
  2. Hit and fresh: serve it.
  3. Hit and stale: hard-delete the row, then refetch.
  4. Miss (or after invalidation): fetch from the authority and insert.

There is no transaction spanning delete+refetch+insert. A crash between
delete and insert leaves the id absent, which is just a miss on the next
call. Concurrent refreshes of the same id may race; last insert wins.
*/
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osumirror/beatmapd/internal/database"
	"github.com/osumirror/beatmapd/internal/logging"
	"github.com/osumirror/beatmapd/internal/metrics"
	"github.com/osumirror/beatmapd/internal/models"
)

// Beatmaps orchestrates beatmap reads and writes against the store and
// the upstream authority.
type Beatmaps struct {
	store    BeatmapStore
	upstream BeatmapFetcher
	now      nowFunc
}

// NewBeatmaps builds a beatmap orchestrator.
func NewBeatmaps(store BeatmapStore, upstream BeatmapFetcher) *Beatmaps {
	return &Beatmaps{
		store:    store,
		upstream: upstream,
		now:      time.Now,
	}
}

// Lookup serves a beatmap by id through the cache. Fresh local rows are
// returned as-is; misses and stale rows are (re)filled from upstream.
// Upstream failures and failed cache-fill inserts both surface as
// ErrNotFound.
func (u *Beatmaps) Lookup(ctx context.Context, beatmapID int) (*models.Beatmap, error) {
	stored, err := u.store.GetBeatmap(ctx, beatmapID)
	switch {
	case err == nil:
		if !IsExpired(stored.UpdatedAt, u.now()) {
			metrics.CacheHits.WithLabelValues("beatmap").Inc()
			return stored, nil
		}

		metrics.CacheStale.WithLabelValues("beatmap").Inc()
		logging.Ctx(ctx).Debug().Int("beatmap_id", beatmapID).Time("updated_at", stored.UpdatedAt).Msg("beatmap expired, invalidating")

		if _, err := u.store.DeleteBeatmap(ctx, beatmapID); err != nil && !errors.Is(err, database.ErrNotFound) {
			// Refetching without a successful delete risks a
			// primary-key collision on insert, so abort here.
			return nil, fmt.Errorf("%w: invalidate beatmap %d: %w", ErrStorage, beatmapID, err)
		}

	case errors.Is(err, database.ErrNotFound):
		metrics.CacheMisses.WithLabelValues("beatmap").Inc()

	default:
		return nil, fmt.Errorf("%w: lookup beatmap %d: %w", ErrStorage, beatmapID, err)
	}

	return u.refill(ctx, beatmapID)
}

// refill fetches a beatmap from upstream and caches it.
func (u *Beatmaps) refill(ctx context.Context, beatmapID int) (*models.Beatmap, error) {
	fetched, err := u.upstream.GetBeatmap(ctx, beatmapID)
	if err != nil {
		logging.CtxErr(ctx, err).Int("beatmap_id", beatmapID).Msg("upstream beatmap fetch failed")
		return nil, ErrNotFound
	}

	created, err := u.store.CreateBeatmap(ctx, fetched)
	if err != nil {
		logging.CtxErr(ctx, err).Int("beatmap_id", beatmapID).Msg("beatmap cache-fill insert failed")
		return nil, ErrNotFound
	}

	metrics.CacheFills.WithLabelValues("beatmap").Inc()
	return created, nil
}

// Create inserts a beatmap directly, bypassing the cache protocol.
func (u *Beatmaps) Create(ctx context.Context, b *models.Beatmap) (*models.Beatmap, error) {
	created, err := u.store.CreateBeatmap(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%w: beatmap %d: %w", ErrCannotCreate, b.BeatmapID, err)
	}
	return created, nil
}

// List returns a filtered page of cached beatmaps. Purely local; never
// consults upstream.
func (u *Beatmaps) List(ctx context.Context, filter *models.BeatmapFilter, page, pageSize int) ([]*models.Beatmap, error) {
	beatmaps, err := u.store.ListBeatmaps(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: list beatmaps: %w", ErrStorage, err)
	}
	return beatmaps, nil
}

// Update applies a partial update to a cached beatmap.
func (u *Beatmaps) Update(ctx context.Context, beatmapID int, update *models.BeatmapUpdate) (*models.Beatmap, error) {
	updated, err := u.store.UpdateBeatmap(ctx, beatmapID, update)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: beatmap %d: %w", ErrCannotUpdate, beatmapID, err)
	}
	return updated, nil
}

// Delete removes a beatmap row and returns it. Beatmap deletes are
// hard; no tombstone survives.
func (u *Beatmaps) Delete(ctx context.Context, beatmapID int) (*models.Beatmap, error) {
	deleted, err := u.store.DeleteBeatmap(ctx, beatmapID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: beatmap %d: %w", ErrCannotDelete, beatmapID, err)
	}
	return deleted, nil
}
