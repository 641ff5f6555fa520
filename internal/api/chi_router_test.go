// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osumirror/beatmapd/internal/models"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	beatmaps := &stubBeatmapService{
		lookupFn: func(_ context.Context, id int) (*models.Beatmap, error) {
			return sampleBeatmap(id), nil
		},
	}
	handler := newTestHandler(beatmaps, nil, nil)
	router := NewRouter(handler, NewChiMiddleware(DefaultChiMiddlewareConfig()))
	return router.SetupChi()
}

func TestRouter_Routes(t *testing.T) {
	srv := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"beatmap lookup", http.MethodGet, "/api/v1/beatmaps/1", http.StatusOK},
		{"beatmap list", http.MethodGet, "/api/v1/beatmaps", http.StatusOK},
		{"beatmapset lookup misses", http.MethodGet, "/api/v1/beatmapsets/1", http.StatusNotFound},
		{"health", http.MethodGet, "/api/v1/health", http.StatusOK},
		{"liveness", http.MethodGet, "/api/v1/health/live", http.StatusOK},
		{"readiness", http.MethodGet, "/api/v1/health/ready", http.StatusOK},
		{"prometheus scrape", http.MethodGet, "/metrics", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/scores", http.StatusNotFound},
		{"wrong method", http.MethodPut, "/api/v1/beatmaps/1", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	srv := newTestRouter(t)

	t.Run("generated when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/beatmaps/1", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("caller value echoed back", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/beatmaps/1", nil)
		req.Header.Set("X-Request-ID", "req-abc-123")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, "req-abc-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestRouter_RecovererAbsorbsPanics(t *testing.T) {
	beatmaps := &stubBeatmapService{
		lookupFn: func(_ context.Context, _ int) (*models.Beatmap, error) {
			panic("boom")
		},
	}
	handler := newTestHandler(beatmaps, nil, nil)
	router := NewRouter(handler, NewChiMiddleware(DefaultChiMiddlewareConfig()))
	srv := router.SetupChi()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/beatmaps/1", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
