// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

// Package sweep removes rows whose freshness window has lapsed, so the
// cache does not grow unbounded with entries nobody reads anymore. A
// stale row left in place is still refreshed on read; the sweeper only
// reclaims the ones no read path will ever touch again.
package sweep

import (
	"context"
	"time"

	"github.com/osumirror/beatmapd/internal/logging"
	"github.com/osumirror/beatmapd/internal/metrics"
	"github.com/osumirror/beatmapd/internal/usecase"
)

// ExpiredStore is the slice of the database layer the sweeper needs.
// Satisfied by *database.DB.
type ExpiredStore interface {
	DeleteExpiredBeatmaps(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteExpiredBeatmapsets(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically hard-deletes expired beatmaps and beatmapsets.
// It implements suture.Service and is restarted by the supervisor on
// failure.
type Sweeper struct {
	store    ExpiredStore
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a sweeper running every interval.
func NewSweeper(store ExpiredStore, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// Serve implements suture.Service. It sweeps once at startup, then on
// every tick until the context is canceled.
func (s *Sweeper) Serve(ctx context.Context) error {
	logging.Info().
		Dur("interval", s.interval).
		Msg("Expiry sweeper started")

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Expiry sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one pass. Errors are logged, never fatal: the next tick
// retries, and read paths remain correct regardless.
func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := s.now().UTC().Add(-usecase.FreshnessWindow)
	metrics.SweepRuns.Inc()

	beatmaps, err := s.store.DeleteExpiredBeatmaps(ctx, cutoff)
	if err != nil {
		logging.CtxErr(ctx, err).Time("cutoff", cutoff).Msg("Sweep of expired beatmaps failed")
	} else {
		metrics.SweepDeletedRows.WithLabelValues("beatmap").Add(float64(beatmaps))
	}

	beatmapsets, err := s.store.DeleteExpiredBeatmapsets(ctx, cutoff)
	if err != nil {
		logging.CtxErr(ctx, err).Time("cutoff", cutoff).Msg("Sweep of expired beatmapsets failed")
	} else {
		metrics.SweepDeletedRows.WithLabelValues("beatmapset").Add(float64(beatmapsets))
	}

	if beatmaps > 0 || beatmapsets > 0 {
		logging.Info().
			Int64("beatmaps", beatmaps).
			Int64("beatmapsets", beatmapsets).
			Time("cutoff", cutoff).
			Msg("Swept expired cache rows")
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *Sweeper) String() string {
	return "expiry-sweeper"
}
