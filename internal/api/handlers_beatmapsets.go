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

// createBeatmapsetRequest carries a direct beatmapset create.
type createBeatmapsetRequest struct {
	BeatmapsetID            int               `json:"beatmapset_id" validate:"required,gt=0"`
	Artist                  string            `json:"artist" validate:"required"`
	ArtistUnicode           string            `json:"artist_unicode"`
	Covers                  map[string]string `json:"covers"`
	Creator                 string            `json:"creator" validate:"required"`
	FavouriteCount          int               `json:"favourite_count" validate:"gte=0"`
	NSFW                    bool              `json:"nsfw"`
	OsuPlayCount            int               `json:"osu_play_count" validate:"gte=0"`
	PreviewURL              string            `json:"preview_url"`
	Source                  string            `json:"source"`
	Title                   string            `json:"title" validate:"required"`
	TitleUnicode            string            `json:"title_unicode"`
	CreatedBy               int               `json:"created_by" validate:"gte=0"`
	Video                   bool              `json:"video"`
	DownloadDisabled        bool              `json:"download_disabled"`
	AvailabilityInformation *string           `json:"availability_information"`
	BPM                     float64           `json:"bpm" validate:"gte=0"`
	CanBeHyped              bool              `json:"can_be_hyped"`
	DiscussionLocked        bool              `json:"discussion_locked"`
	CurrentHype             int               `json:"current_hype" validate:"gte=0"`
	RequiredHype            int               `json:"required_hype" validate:"gte=0"`
	IsScoreable             bool              `json:"is_scoreable"`
	LegacyThreadURL         string            `json:"legacy_thread_url"`
	CurrentNominations      int               `json:"current_nominations" validate:"gte=0"`
	RequiredNominations     int               `json:"required_nominations" validate:"gte=0"`
	RankedStatus            int               `json:"ranked_status" validate:"gte=-2,lte=4"`
	Storyboard              bool              `json:"storyboard"`
	Tags                    string            `json:"tags"`
	OsuSubmittedAt          time.Time         `json:"osu_submitted_at"`
	OsuUpdatedAt            time.Time         `json:"osu_updated_at"`
	OsuRankedAt             *time.Time        `json:"osu_ranked_at"`
}

func (req *createBeatmapsetRequest) toModel() *models.Beatmapset {
	return &models.Beatmapset{
		BeatmapsetID:            req.BeatmapsetID,
		Artist:                  req.Artist,
		ArtistUnicode:           req.ArtistUnicode,
		Covers:                  req.Covers,
		Creator:                 req.Creator,
		FavouriteCount:          req.FavouriteCount,
		NSFW:                    req.NSFW,
		OsuPlayCount:            req.OsuPlayCount,
		PreviewURL:              req.PreviewURL,
		Source:                  req.Source,
		Title:                   req.Title,
		TitleUnicode:            req.TitleUnicode,
		CreatedBy:               req.CreatedBy,
		Video:                   req.Video,
		DownloadDisabled:        req.DownloadDisabled,
		AvailabilityInformation: req.AvailabilityInformation,
		BPM:                     req.BPM,
		CanBeHyped:              req.CanBeHyped,
		DiscussionLocked:        req.DiscussionLocked,
		CurrentHype:             req.CurrentHype,
		RequiredHype:            req.RequiredHype,
		IsScoreable:             req.IsScoreable,
		LegacyThreadURL:         req.LegacyThreadURL,
		CurrentNominations:      req.CurrentNominations,
		RequiredNominations:     req.RequiredNominations,
		RankedStatus:            models.RankedStatus(req.RankedStatus),
		Storyboard:              req.Storyboard,
		Tags:                    req.Tags,
		OsuSubmittedAt:          req.OsuSubmittedAt,
		OsuUpdatedAt:            req.OsuUpdatedAt,
		OsuRankedAt:             req.OsuRankedAt,
		Status:                  models.StatusActive,
	}
}

// CreateBeatmapset handles POST /api/v1/beatmapsets.
func (h *Handler) CreateBeatmapset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req createBeatmapsetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	created, err := h.beatmapsets.Create(r.Context(), req.toModel())
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created, start)
}

// GetBeatmapset handles GET /api/v1/beatmapsets/{id} — the
// read-through path. A cache-fill also refreshes the set's child
// beatmaps as a best-effort side effect.
func (h *Handler) GetBeatmapset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return
	}

	set, err := h.beatmapsets.Lookup(r.Context(), id)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondData(w, http.StatusOK, set, start)
}

// ListBeatmapsets handles GET /api/v1/beatmapsets with optional
// equality filters (artist, creator, title, nsfw, ranked_status,
// status) and paging. Soft-deleted tombstones are included.
func (h *Handler) ListBeatmapsets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	var filter models.BeatmapsetFilter
	if v := q.Get("artist"); v != "" {
		filter.Artist = &v
	}
	if v := q.Get("creator"); v != "" {
		filter.Creator = &v
	}
	if v := q.Get("title"); v != "" {
		filter.Title = &v
	}
	if v := q.Get("nsfw"); v != "" {
		if v != "true" && v != "false" {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "nsfw must be true or false", nil)
			return
		}
		nsfw := v == "true"
		filter.NSFW = &nsfw
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

	sets, err := h.beatmapsets.List(r.Context(), &filter, page, pageSize)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	if sets == nil {
		sets = []*models.Beatmapset{}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   sets,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Page:        page,
			PageSize:    pageSize,
		},
	})
}

// UpdateBeatmapset handles PATCH /api/v1/beatmapsets/{id}.
func (h *Handler) UpdateBeatmapset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return
	}

	var update models.BeatmapsetUpdate
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

	updated, err := h.beatmapsets.Update(r.Context(), id, &update)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated, start)
}

// DeleteBeatmapset handles DELETE /api/v1/beatmapsets/{id} — a soft
// delete; the tombstone row is returned and stays readable.
func (h *Handler) DeleteBeatmapset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return
	}

	deleted, err := h.beatmapsets.Delete(r.Context(), id)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondData(w, http.StatusOK, deleted, start)
}
