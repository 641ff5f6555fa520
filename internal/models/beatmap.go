// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

// Package models defines the canonical entity shapes stored and served by
// beatmapd, plus the standard API response envelope.
package models

import "time"

// Beatmap is a single playable chart within a beatmapset, in canonical
// (local) shape. IDs are assigned by osu! and never generated locally.
// CreatedAt/UpdatedAt are audit timestamps set by the store; UpdatedAt is
// the staleness clock for the read-through cache.
type Beatmap struct {
	BeatmapID        int          `json:"beatmap_id"`
	MD5Hash          string       `json:"md5_hash"`
	SetID            int          `json:"set_id"`
	Convert          bool         `json:"convert"`
	Mode             string       `json:"mode"`
	OD               float64      `json:"od"`
	AR               float64      `json:"ar"`
	CS               float64      `json:"cs"`
	HP               float64      `json:"hp"`
	BPM              float64      `json:"bpm"`
	HitLength        int          `json:"hit_length"`
	TotalLength      int          `json:"total_length"`
	CountCircles     int          `json:"count_circles"`
	CountSliders     int          `json:"count_sliders"`
	CountSpinners    int          `json:"count_spinners"`
	DifficultyRating float64      `json:"difficulty_rating"`
	IsScoreable      bool         `json:"is_scoreable"`
	PassCount        int          `json:"pass_count"`
	PlayCount        int          `json:"play_count"`
	Version          string       `json:"version"`
	CreatedBy        int          `json:"created_by"`
	RankedStatus     RankedStatus `json:"ranked_status"`
	Status           Status       `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// BeatmapFilter is a sparse set of optional equality predicates for list
// queries. A nil field matches all rows.
type BeatmapFilter struct {
	SetID        *int
	MD5Hash      *string
	Mode         *string
	RankedStatus *RankedStatus
	Status       *Status
}

// BeatmapUpdate holds the fields of a partial update. Nil fields are left
// untouched. An empty update is rejected by the usecase layer before it
// reaches the store.
type BeatmapUpdate struct {
	MD5Hash          *string       `json:"md5_hash,omitempty"`
	SetID            *int          `json:"set_id,omitempty"`
	Convert          *bool         `json:"convert,omitempty"`
	Mode             *string       `json:"mode,omitempty"`
	OD               *float64      `json:"od,omitempty"`
	AR               *float64      `json:"ar,omitempty"`
	CS               *float64      `json:"cs,omitempty"`
	HP               *float64      `json:"hp,omitempty"`
	BPM              *float64      `json:"bpm,omitempty"`
	HitLength        *int          `json:"hit_length,omitempty"`
	TotalLength      *int          `json:"total_length,omitempty"`
	CountCircles     *int          `json:"count_circles,omitempty"`
	CountSliders     *int          `json:"count_sliders,omitempty"`
	CountSpinners    *int          `json:"count_spinners,omitempty"`
	DifficultyRating *float64      `json:"difficulty_rating,omitempty"`
	IsScoreable      *bool         `json:"is_scoreable,omitempty"`
	PassCount        *int          `json:"pass_count,omitempty"`
	PlayCount        *int          `json:"play_count,omitempty"`
	Version          *string       `json:"version,omitempty"`
	CreatedBy        *int          `json:"created_by,omitempty"`
	RankedStatus     *RankedStatus `json:"ranked_status,omitempty"`
	Status           *Status       `json:"status,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u *BeatmapUpdate) IsEmpty() bool {
	return u.MD5Hash == nil && u.SetID == nil && u.Convert == nil && u.Mode == nil &&
		u.OD == nil && u.AR == nil && u.CS == nil && u.HP == nil && u.BPM == nil &&
		u.HitLength == nil && u.TotalLength == nil && u.CountCircles == nil &&
		u.CountSliders == nil && u.CountSpinners == nil && u.DifficultyRating == nil &&
		u.IsScoreable == nil && u.PassCount == nil && u.PlayCount == nil &&
		u.Version == nil && u.CreatedBy == nil && u.RankedStatus == nil && u.Status == nil
}
