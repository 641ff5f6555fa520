// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osumirror/beatmapd/internal/models"
)

func TestCreateBeatmapset(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created, err := db.CreateBeatmapset(ctx, testBeatmapset(39804))
	require.NoError(t, err)

	assert.Equal(t, 39804, created.BeatmapsetID)
	assert.Equal(t, "REOL", created.Artist)
	assert.Equal(t, "Monstrata", created.Creator)
	assert.Equal(t, models.StatusActive, created.Status)
	assert.Equal(t, "https://assets.ppy.sh/beatmaps/123/covers/cover.jpg", created.Covers["cover"])
	assert.Nil(t, created.AvailabilityInformation)
	assert.Nil(t, created.OsuRankedAt)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestCreateBeatmapset_NullableFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rankedAt := time.Date(2016, 7, 20, 0, 0, 0, 0, time.UTC)
	set := testBeatmapset(39804)
	set.AvailabilityInformation = ptr("removed at the request of the rights holder")
	set.OsuRankedAt = &rankedAt

	created, err := db.CreateBeatmapset(ctx, set)
	require.NoError(t, err)

	require.NotNil(t, created.AvailabilityInformation)
	assert.Equal(t, "removed at the request of the rights holder", *created.AvailabilityInformation)
	require.NotNil(t, created.OsuRankedAt)
	assert.True(t, created.OsuRankedAt.Equal(rankedAt))
}

func TestCreateBeatmapset_Duplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.CreateBeatmapset(ctx, testBeatmapset(39804))
	require.NoError(t, err)

	_, err = db.CreateBeatmapset(ctx, testBeatmapset(39804))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestGetBeatmapset_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetBeatmapset(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBeatmapsets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seed := []*models.Beatmapset{
		testBeatmapset(10),
		testBeatmapset(11),
		testBeatmapset(12),
	}
	seed[1].Artist = "Camellia"
	seed[1].NSFW = true
	seed[2].Creator = "Sotarks"
	for _, s := range seed {
		_, err := db.CreateBeatmapset(ctx, s)
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		filter  *models.BeatmapsetFilter
		wantIDs []int
	}{
		{
			name:    "no filter returns everything",
			filter:  nil,
			wantIDs: []int{10, 11, 12},
		},
		{
			name:    "filter by artist",
			filter:  &models.BeatmapsetFilter{Artist: ptr("Camellia")},
			wantIDs: []int{11},
		},
		{
			name:    "filter by creator",
			filter:  &models.BeatmapsetFilter{Creator: ptr("Sotarks")},
			wantIDs: []int{12},
		},
		{
			name:    "filter by nsfw",
			filter:  &models.BeatmapsetFilter{NSFW: ptr(true)},
			wantIDs: []int{11},
		},
		{
			name:    "combined filters",
			filter:  &models.BeatmapsetFilter{Artist: ptr("REOL"), Creator: ptr("Sotarks")},
			wantIDs: []int{12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ListBeatmapsets(ctx, tt.filter, 1, 50)
			require.NoError(t, err)

			var ids []int
			for _, s := range got {
				ids = append(ids, s.BeatmapsetID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestUpdateBeatmapset(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created, err := db.CreateBeatmapset(ctx, testBeatmapset(39804))
	require.NoError(t, err)

	updated, err := db.UpdateBeatmapset(ctx, 39804, &models.BeatmapsetUpdate{
		FavouriteCount: ptr(6000),
		Tags:           ptr("vocaloid giga electronic"),
	})
	require.NoError(t, err)

	assert.Equal(t, 6000, updated.FavouriteCount)
	assert.Equal(t, "vocaloid giga electronic", updated.Tags)
	assert.Equal(t, created.Title, updated.Title)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateBeatmapset_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.UpdateBeatmapset(context.Background(), 999999, &models.BeatmapsetUpdate{
		FavouriteCount: ptr(1),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSoftDeleteBeatmapset(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created, err := db.CreateBeatmapset(ctx, testBeatmapset(39804))
	require.NoError(t, err)

	deleted, err := db.SoftDeleteBeatmapset(ctx, 39804)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeleted, deleted.Status)
	assert.False(t, deleted.UpdatedAt.Before(created.UpdatedAt))

	// The tombstone stays readable.
	got, err := db.GetBeatmapset(ctx, 39804)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeleted, got.Status)
}

func TestSoftDeleteBeatmapset_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.SoftDeleteBeatmapset(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHardDeleteBeatmapset(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.CreateBeatmapset(ctx, testBeatmapset(39804))
	require.NoError(t, err)

	require.NoError(t, db.HardDeleteBeatmapset(ctx, 39804))

	_, err = db.GetBeatmapset(ctx, 39804)
	assert.ErrorIs(t, err, ErrNotFound)

	// A fresh insert with the same id succeeds after a hard delete.
	_, err = db.CreateBeatmapset(ctx, testBeatmapset(39804))
	assert.NoError(t, err)
}

func TestDeleteExpiredBeatmapsets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for id := 1; id <= 2; id++ {
		_, err := db.CreateBeatmapset(ctx, testBeatmapset(id))
		require.NoError(t, err)
	}

	n, err := db.DeleteExpiredBeatmapsets(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = db.DeleteExpiredBeatmapsets(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestDeleteExpiredBeatmapsets_KeepsTombstones(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.CreateBeatmapset(ctx, testBeatmapset(1))
	require.NoError(t, err)
	_, err = db.CreateBeatmapset(ctx, testBeatmapset(2))
	require.NoError(t, err)
	_, err = db.SoftDeleteBeatmapset(ctx, 2)
	require.NoError(t, err)

	// A cutoff in the future expires everything, but the tombstone
	// survives the sweep.
	n, err := db.DeleteExpiredBeatmapsets(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = db.GetBeatmapset(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	kept, err := db.GetBeatmapset(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeleted, kept.Status)
}
