// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

/*
models.go - osu! API v2 Wire Types

This file declares the response shapes of the osu! API v2 endpoints we
consume and maps them onto the canonical storage models. The upstream
naming differs from ours in several places:

  - accuracy   -> od          (overall difficulty)
  - drain      -> hp          (HP drain rate)
  - checksum   -> md5_hash
  - passcount  -> pass_count
  - playcount  -> play_count
  - user_id    -> created_by
  - ranked     -> ranked_status

Upstream timestamps arrive as RFC 3339 strings; they are normalized to
UTC here so nothing downstream has to care about offsets.
*/
package osuapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/osumirror/beatmapd/internal/models"
)

// apiBeatmap mirrors the osu! API v2 beatmap object.
type apiBeatmap struct {
	ID               int     `json:"id"`
	BeatmapsetID     int     `json:"beatmapset_id"`
	Checksum         string  `json:"checksum"`
	Convert          bool    `json:"convert"`
	Mode             string  `json:"mode"`
	Accuracy         float64 `json:"accuracy"`
	AR               float64 `json:"ar"`
	CS               float64 `json:"cs"`
	Drain            float64 `json:"drain"`
	BPM              float64 `json:"bpm"`
	HitLength        int     `json:"hit_length"`
	TotalLength      int     `json:"total_length"`
	CountCircles     int     `json:"count_circles"`
	CountSliders     int     `json:"count_sliders"`
	CountSpinners    int     `json:"count_spinners"`
	DifficultyRating float64 `json:"difficulty_rating"`
	IsScoreable      bool    `json:"is_scoreable"`
	Passcount        int     `json:"passcount"`
	Playcount        int     `json:"playcount"`
	Version          string  `json:"version"`
	UserID           int     `json:"user_id"`
	Ranked           int     `json:"ranked"`
}

// apiBeatmapset mirrors the osu! API v2 beatmapset object, including the
// child beatmaps embedded in single-set responses.
type apiBeatmapset struct {
	ID             int               `json:"id"`
	Artist         string            `json:"artist"`
	ArtistUnicode  string            `json:"artist_unicode"`
	Covers         map[string]string `json:"covers"`
	Creator        string            `json:"creator"`
	FavouriteCount int               `json:"favourite_count"`
	NSFW           bool              `json:"nsfw"`
	PlayCount      int               `json:"play_count"`
	PreviewURL     string            `json:"preview_url"`
	Source         string            `json:"source"`
	Title          string            `json:"title"`
	TitleUnicode   string            `json:"title_unicode"`
	UserID         int               `json:"user_id"`
	Video          bool              `json:"video"`

	Availability struct {
		DownloadDisabled bool    `json:"download_disabled"`
		MoreInformation  *string `json:"more_information"`
	} `json:"availability"`

	BPM              float64 `json:"bpm"`
	CanBeHyped       bool    `json:"can_be_hyped"`
	DiscussionLocked bool    `json:"discussion_locked"`

	Hype *struct {
		Current  int `json:"current"`
		Required int `json:"required"`
	} `json:"hype"`

	IsScoreable     bool   `json:"is_scoreable"`
	LegacyThreadURL string `json:"legacy_thread_url"`

	NominationsSummary struct {
		Current  int `json:"current"`
		Required int `json:"required"`
	} `json:"nominations_summary"`

	Ranked        int     `json:"ranked"`
	RankedDate    *string `json:"ranked_date"`
	Storyboard    bool    `json:"storyboard"`
	SubmittedDate string  `json:"submitted_date"`
	LastUpdated   string  `json:"last_updated"`
	Tags          string  `json:"tags"`

	Beatmaps []apiBeatmap `json:"beatmaps"`
}

// parseTimestamp normalizes an upstream timestamp to UTC. The API emits
// RFC 3339 with either a Z or a numeric offset; some mirrors drop the
// zone entirely.
func parseTimestamp(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", strings.TrimSuffix(v, "Z"))
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable timestamp %q: %w", v, err)
	}
	return t.UTC(), nil
}

// toBeatmap converts an upstream beatmap to the canonical model. The
// audit timestamps are left zero; the store owns those.
func (b *apiBeatmap) toBeatmap() (*models.Beatmap, error) {
	ranked, err := models.ParseRankedStatus(b.Ranked)
	if err != nil {
		return nil, fmt.Errorf("beatmap %d: %w", b.ID, err)
	}

	return &models.Beatmap{
		BeatmapID:        b.ID,
		MD5Hash:          b.Checksum,
		SetID:            b.BeatmapsetID,
		Convert:          b.Convert,
		Mode:             b.Mode,
		OD:               b.Accuracy,
		AR:               b.AR,
		CS:               b.CS,
		HP:               b.Drain,
		BPM:              b.BPM,
		HitLength:        b.HitLength,
		TotalLength:      b.TotalLength,
		CountCircles:     b.CountCircles,
		CountSliders:     b.CountSliders,
		CountSpinners:    b.CountSpinners,
		DifficultyRating: b.DifficultyRating,
		IsScoreable:      b.IsScoreable,
		PassCount:        b.Passcount,
		PlayCount:        b.Playcount,
		Version:          b.Version,
		CreatedBy:        b.UserID,
		RankedStatus:     ranked,
		Status:           models.StatusActive,
	}, nil
}

// toBeatmapset converts an upstream beatmapset to the canonical model.
// Hype counts only mean anything while a set can still be hyped, so they
// are forced to zero otherwise.
func (s *apiBeatmapset) toBeatmapset() (*models.Beatmapset, error) {
	ranked, err := models.ParseRankedStatus(s.Ranked)
	if err != nil {
		return nil, fmt.Errorf("beatmapset %d: %w", s.ID, err)
	}

	submittedAt, err := parseTimestamp(s.SubmittedDate)
	if err != nil {
		return nil, fmt.Errorf("beatmapset %d submitted_date: %w", s.ID, err)
	}
	updatedAt, err := parseTimestamp(s.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("beatmapset %d last_updated: %w", s.ID, err)
	}

	var rankedAt *time.Time
	if s.RankedDate != nil && *s.RankedDate != "" {
		t, err := parseTimestamp(*s.RankedDate)
		if err != nil {
			return nil, fmt.Errorf("beatmapset %d ranked_date: %w", s.ID, err)
		}
		rankedAt = &t
	}

	var currentHype, requiredHype int
	if s.CanBeHyped && s.Hype != nil {
		currentHype = s.Hype.Current
		requiredHype = s.Hype.Required
	}

	return &models.Beatmapset{
		BeatmapsetID:            s.ID,
		Artist:                  s.Artist,
		ArtistUnicode:           s.ArtistUnicode,
		Covers:                  s.Covers,
		Creator:                 s.Creator,
		FavouriteCount:          s.FavouriteCount,
		NSFW:                    s.NSFW,
		OsuPlayCount:            s.PlayCount,
		PreviewURL:              s.PreviewURL,
		Source:                  s.Source,
		Title:                   s.Title,
		TitleUnicode:            s.TitleUnicode,
		CreatedBy:               s.UserID,
		Video:                   s.Video,
		DownloadDisabled:        s.Availability.DownloadDisabled,
		AvailabilityInformation: s.Availability.MoreInformation,
		BPM:                     s.BPM,
		CanBeHyped:              s.CanBeHyped,
		DiscussionLocked:        s.DiscussionLocked,
		CurrentHype:             currentHype,
		RequiredHype:            requiredHype,
		IsScoreable:             s.IsScoreable,
		LegacyThreadURL:         s.LegacyThreadURL,
		CurrentNominations:      s.NominationsSummary.Current,
		RequiredNominations:     s.NominationsSummary.Required,
		RankedStatus:            ranked,
		Storyboard:              s.Storyboard,
		Tags:                    s.Tags,
		OsuSubmittedAt:          submittedAt,
		OsuUpdatedAt:            updatedAt,
		OsuRankedAt:             rankedAt,
		Status:                  models.StatusActive,
	}, nil
}
