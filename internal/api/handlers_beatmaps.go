// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/osumirror/beatmapd/internal/models"
)

// createBeatmapRequest carries a direct beatmap create. Audit
// timestamps are not accepted from the caller.
type createBeatmapRequest struct {
	BeatmapID        int     `json:"beatmap_id" validate:"required,gt=0"`
	MD5Hash          string  `json:"md5_hash" validate:"required"`
	SetID            int     `json:"set_id" validate:"required,gt=0"`
	Convert          bool    `json:"convert"`
	Mode             string  `json:"mode" validate:"required,oneof=osu taiko fruits mania"`
	OD               float64 `json:"od" validate:"gte=0,lte=10"`
	AR               float64 `json:"ar" validate:"gte=0,lte=10"`
	CS               float64 `json:"cs" validate:"gte=0,lte=10"`
	HP               float64 `json:"hp" validate:"gte=0,lte=10"`
	BPM              float64 `json:"bpm" validate:"gte=0"`
	HitLength        int     `json:"hit_length" validate:"gte=0"`
	TotalLength      int     `json:"total_length" validate:"gte=0"`
	CountCircles     int     `json:"count_circles" validate:"gte=0"`
	CountSliders     int     `json:"count_sliders" validate:"gte=0"`
	CountSpinners    int     `json:"count_spinners" validate:"gte=0"`
	DifficultyRating float64 `json:"difficulty_rating" validate:"gte=0"`
	IsScoreable      bool    `json:"is_scoreable"`
	PassCount        int     `json:"pass_count" validate:"gte=0"`
	PlayCount        int     `json:"play_count" validate:"gte=0"`
	Version          string  `json:"version" validate:"required"`
	CreatedBy        int     `json:"created_by" validate:"gte=0"`
	RankedStatus     int     `json:"ranked_status" validate:"gte=-2,lte=4"`
}

func (req *createBeatmapRequest) toModel() *models.Beatmap {
	return &models.Beatmap{
		BeatmapID:        req.BeatmapID,
		MD5Hash:          req.MD5Hash,
		SetID:            req.SetID,
		Convert:          req.Convert,
		Mode:             req.Mode,
		OD:               req.OD,
		AR:               req.AR,
		CS:               req.CS,
		HP:               req.HP,
		BPM:              req.BPM,
		HitLength:        req.HitLength,
		TotalLength:      req.TotalLength,
		CountCircles:     req.CountCircles,
		CountSliders:     req.CountSliders,
		CountSpinners:    req.CountSpinners,
		DifficultyRating: req.DifficultyRating,
		IsScoreable:      req.IsScoreable,
		PassCount:        req.PassCount,
		PlayCount:        req.PlayCount,
		Version:          req.Version,
		CreatedBy:        req.CreatedBy,
		RankedStatus:     models.RankedStatus(req.RankedStatus),
		Status:           models.StatusActive,
	}
}

// CreateBeatmap handles POST /api/v1/beatmaps.
func (h *Handler) CreateBeatmap(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req createBeatmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	created, err := h.beatmaps.Create(r.Context(), req.toModel())
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created, start)
}

// GetBeatmap handles GET /api/v1/beatmaps/{id} — the read-through
// path. A miss or stale row transparently refreshes from upstream.
func (h *Handler) GetBeatmap(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return
	}

	beatmap, err := h.beatmaps.Lookup(r.Context(), id)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondData(w, http.StatusOK, beatmap, start)
}

// ListBeatmaps handles GET /api/v1/beatmaps with optional equality
// filters (set_id, md5_hash, mode, ranked_status, status) and paging.
func (h *Handler) ListBeatmaps(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	var filter models.BeatmapFilter
	if v := q.Get("set_id"); v != "" {
		setID := getIntParam(r, "set_id", 0)
		if setID <= 0 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "set_id must be a positive integer", nil)
			return
		}
		filter.SetID = &setID
	}
	if v := q.Get("md5_hash"); v != "" {
		filter.MD5Hash = &v
	}
	if v := q.Get("mode"); v != "" {
		filter.Mode = &v
	}
	if v := q.Get("ranked_status"); v != "" {
		ranked, err := models.ParseRankedStatus(getIntParam(r, "ranked_status", 99))
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown ranked_status", nil)
			return
		}
		filter.RankedStatus = &ranked
	}
	if v := q.Get("status"); v != "" {
		status, err := models.ParseStatus(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be active or deleted", nil)
			return
		}
		filter.Status = &status
	}

	page, pageSize := h.pagination(r)

	beatmaps, err := h.beatmaps.List(r.Context(), &filter, page, pageSize)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	if beatmaps == nil {
		beatmaps = []*models.Beatmap{}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   beatmaps,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Page:        page,
			PageSize:    pageSize,
		},
	})
}

// UpdateBeatmap handles PATCH /api/v1/beatmaps/{id}. Exactly the
// supplied fields change; an empty patch is rejected.
func (h *Handler) UpdateBeatmap(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return
	}

	var update models.BeatmapUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", err)
		return
	}
	if update.IsEmpty() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "update must include at least one field", nil)
		return
	}
	if update.RankedStatus != nil && !update.RankedStatus.Valid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown ranked_status", nil)
		return
	}
	if update.Status != nil && !update.Status.Valid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be active or deleted", nil)
		return
	}

	updated, err := h.beatmaps.Update(r.Context(), id, &update)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated, start)
}

// DeleteBeatmap handles DELETE /api/v1/beatmaps/{id} — a hard delete
// returning the removed row.
func (h *Handler) DeleteBeatmap(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return
	}

	deleted, err := h.beatmaps.Delete(r.Context(), id)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondData(w, http.StatusOK, deleted, start)
}
