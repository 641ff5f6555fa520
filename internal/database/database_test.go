// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osumirror/beatmapd/internal/config"
	"github.com/osumirror/beatmapd/internal/models"
)

// newTestDB opens an in-memory DuckDB with the full schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "256MB",
		Threads:   2,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func testBeatmap(beatmapID, setID int) *models.Beatmap {
	return &models.Beatmap{
		BeatmapID:        beatmapID,
		MD5Hash:          "d41d8cd98f00b204e9800998ecf8427e",
		SetID:            setID,
		Mode:             "osu",
		OD:               8.5,
		AR:               9.3,
		CS:               4,
		HP:               5.5,
		BPM:              180,
		HitLength:        215,
		TotalLength:      230,
		CountCircles:     420,
		CountSliders:     180,
		CountSpinners:    2,
		DifficultyRating: 5.92,
		IsScoreable:      true,
		PassCount:        1200,
		PlayCount:        98000,
		Version:          "Expert",
		CreatedBy:        873961,
		RankedStatus:     models.RankedStatusRanked,
		Status:           models.StatusActive,
	}
}

func testBeatmapset(beatmapsetID int) *models.Beatmapset {
	return &models.Beatmapset{
		BeatmapsetID: beatmapsetID,
		Artist:       "REOL",
		Covers: map[string]string{
			"cover": "https://assets.ppy.sh/beatmaps/123/covers/cover.jpg",
			"card":  "https://assets.ppy.sh/beatmaps/123/covers/card.jpg",
		},
		Creator:             "Monstrata",
		FavouriteCount:      5021,
		OsuPlayCount:        1800000,
		PreviewURL:          "//b.ppy.sh/preview/123.mp3",
		Source:              "",
		Title:               "No title",
		TitleUnicode:        "No title",
		CreatedBy:           2706438,
		IsScoreable:         true,
		RequiredHype:        5,
		RequiredNominations: 2,
		RankedStatus:        models.RankedStatusRanked,
		Tags:                "vocaloid giga",
		OsuSubmittedAt:      time.Date(2016, 3, 1, 12, 0, 0, 0, time.UTC),
		OsuUpdatedAt:        time.Date(2016, 7, 13, 9, 30, 0, 0, time.UTC),
		Status:              models.StatusActive,
	}
}

func TestNew_InMemory(t *testing.T) {
	db := newTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, db.Ping(ctx))
}
