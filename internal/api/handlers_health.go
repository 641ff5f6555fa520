// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package api

import (
	"net/http"
	"time"

	"github.com/osumirror/beatmapd/internal/models"
)

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Database      string `json:"database,omitempty"`
}

// HealthLive handles GET /api/v1/health/live. Always healthy while the
// process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, &healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}, time.Now())
}

// HealthReady handles GET /api/v1/health/ready. Ready means the store
// answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.db.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, errorHealthEnvelope("database unreachable"))
		return
	}

	respondData(w, http.StatusOK, &healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Database:      "ok",
	}, start)
}

// Health handles GET /api/v1/health, combining liveness and readiness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.HealthReady(w, r)
}

func errorHealthEnvelope(message string) *models.APIResponse {
	return &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    "NOT_READY",
			Message: message,
		},
	}
}
