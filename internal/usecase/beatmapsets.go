// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

/*
beatmapsets.go - Beatmapset Read-Through Orchestrator

Same protocol as the beatmap orchestrator, plus the child fan-out: the
authority embeds a set's beatmaps in the beatmapset response, and a
successful cache-fill refreshes each embedded child independently.
Child failures are logged and counted, never propagated; the parent
call's outcome depends only on the parent row.

Deletes are asymmetric. A direct delete is soft: the row stays as a
tombstone with status "deleted". Cache invalidation hard-deletes, since
the refetched row is inserted under the same primary key.
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

// Beatmapsets orchestrates beatmapset reads and writes, fanning child
// refreshes out through a beatmap store.
type Beatmapsets struct {
	store    BeatmapsetStore
	beatmaps BeatmapStore
	upstream BeatmapsetFetcher
	now      nowFunc
}

// NewBeatmapsets builds a beatmapset orchestrator.
func NewBeatmapsets(store BeatmapsetStore, beatmaps BeatmapStore, upstream BeatmapsetFetcher) *Beatmapsets {
	return &Beatmapsets{
		store:    store,
		beatmaps: beatmaps,
		upstream: upstream,
		now:      time.Now,
	}
}

// Lookup serves a beatmapset by id through the cache. Soft-deleted
// tombstones count as hits and stay subject to the same staleness
// rules. A cache-fill triggers the child beatmap fan-out.
func (u *Beatmapsets) Lookup(ctx context.Context, beatmapsetID int) (*models.Beatmapset, error) {
	stored, err := u.store.GetBeatmapset(ctx, beatmapsetID)
	switch {
	case err == nil:
		if !IsExpired(stored.UpdatedAt, u.now()) {
			metrics.CacheHits.WithLabelValues("beatmapset").Inc()
			return stored, nil
		}

		metrics.CacheStale.WithLabelValues("beatmapset").Inc()
		logging.Ctx(ctx).Debug().Int("beatmapset_id", beatmapsetID).Time("updated_at", stored.UpdatedAt).Msg("beatmapset expired, invalidating")

		if err := u.store.HardDeleteBeatmapset(ctx, beatmapsetID); err != nil {
			return nil, fmt.Errorf("%w: invalidate beatmapset %d: %w", ErrStorage, beatmapsetID, err)
		}

	case errors.Is(err, database.ErrNotFound):
		metrics.CacheMisses.WithLabelValues("beatmapset").Inc()

	default:
		return nil, fmt.Errorf("%w: lookup beatmapset %d: %w", ErrStorage, beatmapsetID, err)
	}

	return u.refill(ctx, beatmapsetID)
}

// refill fetches a beatmapset from upstream, caches it, and refreshes
// its embedded children. The children never affect the return value.
func (u *Beatmapsets) refill(ctx context.Context, beatmapsetID int) (*models.Beatmapset, error) {
	fetched, children, err := u.upstream.GetBeatmapset(ctx, beatmapsetID)
	if err != nil {
		logging.CtxErr(ctx, err).Int("beatmapset_id", beatmapsetID).Msg("upstream beatmapset fetch failed")
		return nil, ErrNotFound
	}

	created, err := u.store.CreateBeatmapset(ctx, fetched)
	if err != nil {
		logging.CtxErr(ctx, err).Int("beatmapset_id", beatmapsetID).Msg("beatmapset cache-fill insert failed")
		return nil, ErrNotFound
	}
	metrics.CacheFills.WithLabelValues("beatmapset").Inc()

	u.fanOut(ctx, beatmapsetID, children)

	return created, nil
}

// fanOut refreshes each embedded child beatmap: fresh rows are left
// alone, stale rows are replaced, missing rows are inserted. Every
// failure is absorbed here.
func (u *Beatmapsets) fanOut(ctx context.Context, beatmapsetID int, children []*models.Beatmap) {
	now := u.now()

	for _, child := range children {
		existing, err := u.beatmaps.GetBeatmap(ctx, child.BeatmapID)
		switch {
		case err == nil:
			if !IsExpired(existing.UpdatedAt, now) {
				metrics.FanoutChildren.WithLabelValues("fresh").Inc()
				continue
			}
			if _, err := u.beatmaps.DeleteBeatmap(ctx, child.BeatmapID); err != nil && !errors.Is(err, database.ErrNotFound) {
				metrics.FanoutChildren.WithLabelValues("failed").Inc()
				logging.CtxErr(ctx, err).Int("beatmapset_id", beatmapsetID).Int("beatmap_id", child.BeatmapID).Msg("fan-out child invalidation failed")
				continue
			}

		case !errors.Is(err, database.ErrNotFound):
			metrics.FanoutChildren.WithLabelValues("failed").Inc()
			logging.CtxErr(ctx, err).Int("beatmapset_id", beatmapsetID).Int("beatmap_id", child.BeatmapID).Msg("fan-out child lookup failed")
			continue
		}

		if _, err := u.beatmaps.CreateBeatmap(ctx, child); err != nil {
			metrics.FanoutChildren.WithLabelValues("failed").Inc()
			logging.CtxErr(ctx, err).Int("beatmapset_id", beatmapsetID).Int("beatmap_id", child.BeatmapID).Msg("fan-out child insert failed")
			continue
		}
		metrics.FanoutChildren.WithLabelValues("refreshed").Inc()
	}
}

// Create inserts a beatmapset directly, bypassing the cache protocol.
func (u *Beatmapsets) Create(ctx context.Context, s *models.Beatmapset) (*models.Beatmapset, error) {
	created, err := u.store.CreateBeatmapset(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("%w: beatmapset %d: %w", ErrCannotCreate, s.BeatmapsetID, err)
	}
	return created, nil
}

// List returns a filtered page of cached beatmapsets, tombstones
// included.
func (u *Beatmapsets) List(ctx context.Context, filter *models.BeatmapsetFilter, page, pageSize int) ([]*models.Beatmapset, error) {
	sets, err := u.store.ListBeatmapsets(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: list beatmapsets: %w", ErrStorage, err)
	}
	return sets, nil
}

// Update applies a partial update to a cached beatmapset.
func (u *Beatmapsets) Update(ctx context.Context, beatmapsetID int, update *models.BeatmapsetUpdate) (*models.Beatmapset, error) {
	updated, err := u.store.UpdateBeatmapset(ctx, beatmapsetID, update)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: beatmapset %d: %w", ErrCannotUpdate, beatmapsetID, err)
	}
	return updated, nil
}

// Delete soft-deletes a beatmapset and returns the tombstone.
func (u *Beatmapsets) Delete(ctx context.Context, beatmapsetID int) (*models.Beatmapset, error) {
	deleted, err := u.store.SoftDeleteBeatmapset(ctx, beatmapsetID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: beatmapset %d: %w", ErrCannotDelete, beatmapsetID, err)
	}
	return deleted, nil
}
