// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/osumirror/beatmapd/internal/database"
	"github.com/osumirror/beatmapd/internal/models"
)

var errBoom = errors.New("boom")

// fakeBeatmapStore is an in-memory BeatmapStore with injectable
// failures and call counters.
type fakeBeatmapStore struct {
	rows map[int]*models.Beatmap
	now  time.Time

	createCalls int
	deleteCalls int

	failCreateFor map[int]bool
	failDelete    bool
	failGet       bool
}

func newFakeBeatmapStore(now time.Time) *fakeBeatmapStore {
	return &fakeBeatmapStore{
		rows:          make(map[int]*models.Beatmap),
		now:           now,
		failCreateFor: make(map[int]bool),
	}
}

// seed places a row directly with the given updated_at, bypassing the
// create path.
func (f *fakeBeatmapStore) seed(b *models.Beatmap, updatedAt time.Time) {
	row := *b
	row.CreatedAt = updatedAt
	row.UpdatedAt = updatedAt
	f.rows[row.BeatmapID] = &row
}

func (f *fakeBeatmapStore) CreateBeatmap(_ context.Context, b *models.Beatmap) (*models.Beatmap, error) {
	f.createCalls++
	if f.failCreateFor[b.BeatmapID] {
		return nil, errBoom
	}
	if _, ok := f.rows[b.BeatmapID]; ok {
		return nil, database.ErrAlreadyExists
	}
	row := *b
	row.CreatedAt = f.now
	row.UpdatedAt = f.now
	f.rows[row.BeatmapID] = &row
	return &row, nil
}

func (f *fakeBeatmapStore) GetBeatmap(_ context.Context, beatmapID int) (*models.Beatmap, error) {
	if f.failGet {
		return nil, errBoom
	}
	row, ok := f.rows[beatmapID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return row, nil
}

func (f *fakeBeatmapStore) ListBeatmaps(_ context.Context, _ *models.BeatmapFilter, _, _ int) ([]*models.Beatmap, error) {
	var out []*models.Beatmap
	for _, row := range f.rows {
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeBeatmapStore) UpdateBeatmap(_ context.Context, beatmapID int, update *models.BeatmapUpdate) (*models.Beatmap, error) {
	row, ok := f.rows[beatmapID]
	if !ok {
		return nil, database.ErrNotFound
	}
	if update.PlayCount != nil {
		row.PlayCount = *update.PlayCount
	}
	row.UpdatedAt = f.now
	return row, nil
}

func (f *fakeBeatmapStore) DeleteBeatmap(_ context.Context, beatmapID int) (*models.Beatmap, error) {
	f.deleteCalls++
	if f.failDelete {
		return nil, errBoom
	}
	row, ok := f.rows[beatmapID]
	if !ok {
		return nil, database.ErrNotFound
	}
	delete(f.rows, beatmapID)
	return row, nil
}

// fakeBeatmapsetStore is an in-memory BeatmapsetStore.
type fakeBeatmapsetStore struct {
	rows map[int]*models.Beatmapset
	now  time.Time

	createCalls     int
	hardDeleteCalls int

	failCreate     bool
	failHardDelete bool
}

func newFakeBeatmapsetStore(now time.Time) *fakeBeatmapsetStore {
	return &fakeBeatmapsetStore{rows: make(map[int]*models.Beatmapset), now: now}
}

func (f *fakeBeatmapsetStore) seed(s *models.Beatmapset, updatedAt time.Time) {
	row := *s
	row.CreatedAt = updatedAt
	row.UpdatedAt = updatedAt
	f.rows[row.BeatmapsetID] = &row
}

func (f *fakeBeatmapsetStore) CreateBeatmapset(_ context.Context, s *models.Beatmapset) (*models.Beatmapset, error) {
	f.createCalls++
	if f.failCreate {
		return nil, errBoom
	}
	if _, ok := f.rows[s.BeatmapsetID]; ok {
		return nil, database.ErrAlreadyExists
	}
	row := *s
	row.CreatedAt = f.now
	row.UpdatedAt = f.now
	f.rows[row.BeatmapsetID] = &row
	return &row, nil
}

func (f *fakeBeatmapsetStore) GetBeatmapset(_ context.Context, beatmapsetID int) (*models.Beatmapset, error) {
	row, ok := f.rows[beatmapsetID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return row, nil
}

func (f *fakeBeatmapsetStore) ListBeatmapsets(_ context.Context, _ *models.BeatmapsetFilter, _, _ int) ([]*models.Beatmapset, error) {
	var out []*models.Beatmapset
	for _, row := range f.rows {
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeBeatmapsetStore) UpdateBeatmapset(_ context.Context, beatmapsetID int, update *models.BeatmapsetUpdate) (*models.Beatmapset, error) {
	row, ok := f.rows[beatmapsetID]
	if !ok {
		return nil, database.ErrNotFound
	}
	if update.FavouriteCount != nil {
		row.FavouriteCount = *update.FavouriteCount
	}
	row.UpdatedAt = f.now
	return row, nil
}

func (f *fakeBeatmapsetStore) SoftDeleteBeatmapset(_ context.Context, beatmapsetID int) (*models.Beatmapset, error) {
	row, ok := f.rows[beatmapsetID]
	if !ok {
		return nil, database.ErrNotFound
	}
	row.Status = models.StatusDeleted
	row.UpdatedAt = f.now
	return row, nil
}

func (f *fakeBeatmapsetStore) HardDeleteBeatmapset(_ context.Context, beatmapsetID int) error {
	f.hardDeleteCalls++
	if f.failHardDelete {
		return errBoom
	}
	delete(f.rows, beatmapsetID)
	return nil
}

// fakeBeatmapFetcher serves canned beatmaps and counts upstream calls.
type fakeBeatmapFetcher struct {
	beatmaps map[int]*models.Beatmap
	calls    int
	err      error
}

func (f *fakeBeatmapFetcher) GetBeatmap(_ context.Context, beatmapID int) (*models.Beatmap, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.beatmaps[beatmapID]
	if !ok {
		return nil, errBoom
	}
	cp := *b
	return &cp, nil
}

// fakeBeatmapsetFetcher serves one canned beatmapset with children.
type fakeBeatmapsetFetcher struct {
	set      *models.Beatmapset
	children []*models.Beatmap
	calls    int
	err      error
}

func (f *fakeBeatmapsetFetcher) GetBeatmapset(_ context.Context, _ int) (*models.Beatmapset, []*models.Beatmap, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	cp := *f.set
	children := make([]*models.Beatmap, len(f.children))
	for i, c := range f.children {
		cc := *c
		children[i] = &cc
	}
	return &cp, children, nil
}

func upstreamBeatmap(beatmapID, setID int) *models.Beatmap {
	return &models.Beatmap{
		BeatmapID:    beatmapID,
		MD5Hash:      "abc123",
		SetID:        setID,
		Mode:         "osu",
		Version:      "Insane",
		RankedStatus: models.RankedStatusRanked,
		Status:       models.StatusActive,
	}
}

func upstreamBeatmapset(beatmapsetID int) *models.Beatmapset {
	return &models.Beatmapset{
		BeatmapsetID: beatmapsetID,
		Artist:       "Artist",
		Creator:      "Creator",
		Title:        "Title",
		RankedStatus: models.RankedStatusRanked,
		Status:       models.StatusActive,
	}
}
