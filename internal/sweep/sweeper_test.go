// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package sweep

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osumirror/beatmapd/internal/usecase"
)

type fakeExpiredStore struct {
	mu sync.Mutex

	beatmapCutoffs    []time.Time
	beatmapsetCutoffs []time.Time
	beatmapErr        error
	beatmapsetErr     error
}

func (f *fakeExpiredStore) DeleteExpiredBeatmaps(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beatmapCutoffs = append(f.beatmapCutoffs, cutoff)
	if f.beatmapErr != nil {
		return 0, f.beatmapErr
	}
	return 3, nil
}

func (f *fakeExpiredStore) DeleteExpiredBeatmapsets(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beatmapsetCutoffs = append(f.beatmapsetCutoffs, cutoff)
	if f.beatmapsetErr != nil {
		return 0, f.beatmapsetErr
	}
	return 1, nil
}

func (f *fakeExpiredStore) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.beatmapCutoffs), len(f.beatmapsetCutoffs)
}

func TestSweep_CutoffIsFreshnessWindowAgo(t *testing.T) {
	store := &fakeExpiredStore{}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	s := NewSweeper(store, time.Hour)
	s.now = func() time.Time { return now }
	s.sweep(context.Background())

	require.Len(t, store.beatmapCutoffs, 1)
	require.Len(t, store.beatmapsetCutoffs, 1)
	want := now.Add(-usecase.FreshnessWindow)
	assert.Equal(t, want, store.beatmapCutoffs[0])
	assert.Equal(t, want, store.beatmapsetCutoffs[0])
}

func TestSweep_BeatmapFailureStillSweepsBeatmapsets(t *testing.T) {
	store := &fakeExpiredStore{beatmapErr: errors.New("locked")}

	s := NewSweeper(store, time.Hour)
	s.sweep(context.Background())

	beatmaps, beatmapsets := store.calls()
	assert.Equal(t, 1, beatmaps)
	assert.Equal(t, 1, beatmapsets)
}

func TestServe_SweepsOnStartupAndTicks(t *testing.T) {
	store := &fakeExpiredStore{}
	s := NewSweeper(store, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	require.Eventually(t, func() bool {
		beatmaps, _ := store.calls()
		return beatmaps >= 2
	}, time.Second, 5*time.Millisecond, "expected startup sweep plus at least one tick")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
