// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osumirror/beatmapd/internal/models"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newBeatmapsFixture() (*Beatmaps, *fakeBeatmapStore, *fakeBeatmapFetcher) {
	store := newFakeBeatmapStore(testNow)
	upstream := &fakeBeatmapFetcher{beatmaps: map[int]*models.Beatmap{
		999: upstreamBeatmap(999, 50),
	}}
	u := NewBeatmaps(store, upstream)
	u.now = func() time.Time { return testNow }
	return u, store, upstream
}

func TestBeatmapLookup_MissThenFill(t *testing.T) {
	u, store, upstream := newBeatmapsFixture()
	ctx := context.Background()

	got, err := u.Lookup(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, 999, got.BeatmapID)
	assert.Equal(t, 1, upstream.calls)
	assert.Contains(t, store.rows, 999, "cache-fill persists the row")

	// Second lookup within the window is served locally.
	got, err = u.Lookup(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, 999, got.BeatmapID)
	assert.Equal(t, 1, upstream.calls, "fresh hit must not touch upstream")
}

func TestBeatmapLookup_FreshHitServedLocally(t *testing.T) {
	u, store, upstream := newBeatmapsFixture()

	store.seed(upstreamBeatmap(999, 50), testNow.Add(-time.Hour))

	got, err := u.Lookup(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, 999, got.BeatmapID)
	assert.Zero(t, upstream.calls)
	assert.Zero(t, store.deleteCalls)
}

func TestBeatmapLookup_StaleRefetch(t *testing.T) {
	u, store, upstream := newBeatmapsFixture()

	store.seed(upstreamBeatmap(999, 50), testNow.Add(-25*time.Hour))

	got, err := u.Lookup(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, 999, got.BeatmapID)
	assert.Equal(t, 1, upstream.calls)
	assert.Equal(t, 1, store.deleteCalls, "stale row is invalidated before refetch")
	assert.Equal(t, 1, store.createCalls)
	assert.Equal(t, testNow, store.rows[999].UpdatedAt, "refetched row carries a fresh staleness clock")
}

func TestBeatmapLookup_UpstreamFailure(t *testing.T) {
	u, store, upstream := newBeatmapsFixture()
	upstream.err = errBoom

	_, err := u.Lookup(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound, "upstream failure collapses to not-found")
	assert.Empty(t, store.rows, "no row is written on upstream failure")
}

func TestBeatmapLookup_CacheFillInsertFailure(t *testing.T) {
	u, store, _ := newBeatmapsFixture()
	store.failCreateFor[999] = true

	_, err := u.Lookup(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound, "failed cache-fill insert collapses to not-found")
}

func TestBeatmapLookup_InvalidationFailureAbortsRefresh(t *testing.T) {
	u, store, upstream := newBeatmapsFixture()
	store.seed(upstreamBeatmap(999, 50), testNow.Add(-25*time.Hour))
	store.failDelete = true

	_, err := u.Lookup(context.Background(), 999)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Zero(t, upstream.calls, "refetch without invalidation would collide on insert")
}

func TestBeatmapLookup_StorageFailure(t *testing.T) {
	u, store, _ := newBeatmapsFixture()
	store.failGet = true

	_, err := u.Lookup(context.Background(), 999)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestBeatmapCreate_Direct(t *testing.T) {
	u, _, _ := newBeatmapsFixture()
	ctx := context.Background()

	created, err := u.Create(ctx, upstreamBeatmap(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, created.BeatmapID)

	_, err = u.Create(ctx, upstreamBeatmap(1, 2))
	assert.ErrorIs(t, err, ErrCannotCreate, "direct create surfaces the typed condition")
}

func TestBeatmapUpdate_NotFound(t *testing.T) {
	u, _, _ := newBeatmapsFixture()

	_, err := u.Update(context.Background(), 404, &models.BeatmapUpdate{PlayCount: ptrInt(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBeatmapDelete(t *testing.T) {
	u, store, _ := newBeatmapsFixture()
	ctx := context.Background()

	store.seed(upstreamBeatmap(7, 8), testNow)

	deleted, err := u.Delete(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, deleted.BeatmapID)
	assert.NotContains(t, store.rows, 7, "beatmap delete is hard")

	_, err = u.Delete(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func ptrInt(v int) *int { return &v }
