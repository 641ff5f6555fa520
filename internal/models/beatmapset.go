// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package models

import "time"

// Beatmapset is a release grouping one or more beatmaps sharing metadata.
// Child beatmaps are cached independently; the cache enforces no foreign-key
// cascade between a set and its beatmaps.
//
// OsuSubmittedAt/OsuUpdatedAt/OsuRankedAt originate upstream (OsuRankedAt is
// nil for unranked sets); CreatedAt/UpdatedAt are local audit timestamps set
// by the store, and UpdatedAt is the staleness clock.
type Beatmapset struct {
	BeatmapsetID             int               `json:"beatmapset_id"`
	Artist                   string            `json:"artist"`
	ArtistUnicode            string            `json:"artist_unicode"`
	Covers                   map[string]string `json:"covers"`
	Creator                  string            `json:"creator"`
	FavouriteCount           int               `json:"favourite_count"`
	NSFW                     bool              `json:"nsfw"`
	OsuPlayCount             int               `json:"osu_play_count"`
	PreviewURL               string            `json:"preview_url"`
	Source                   string            `json:"source"`
	Title                    string            `json:"title"`
	TitleUnicode             string            `json:"title_unicode"`
	CreatedBy                int               `json:"created_by"`
	Video                    bool              `json:"video"`
	DownloadDisabled         bool              `json:"download_disabled"`
	AvailabilityInformation  *string           `json:"availability_information"`
	BPM                      float64           `json:"bpm"`
	CanBeHyped               bool              `json:"can_be_hyped"`
	DiscussionLocked         bool              `json:"discussion_locked"`
	CurrentHype              int               `json:"current_hype"`
	RequiredHype             int               `json:"required_hype"`
	IsScoreable              bool              `json:"is_scoreable"`
	LegacyThreadURL          string            `json:"legacy_thread_url"`
	CurrentNominations       int               `json:"current_nominations"`
	RequiredNominations      int               `json:"required_nominations"`
	RankedStatus             RankedStatus      `json:"ranked_status"`
	Storyboard               bool              `json:"storyboard"`
	Tags                     string            `json:"tags"`
	OsuSubmittedAt           time.Time         `json:"osu_submitted_at"`
	OsuUpdatedAt             time.Time         `json:"osu_updated_at"`
	OsuRankedAt              *time.Time        `json:"osu_ranked_at"`
	Status                   Status            `json:"status"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
}

// BeatmapsetFilter is a sparse set of optional equality predicates for list
// queries. A nil field matches all rows.
type BeatmapsetFilter struct {
	Artist       *string
	Creator      *string
	Title        *string
	NSFW         *bool
	RankedStatus *RankedStatus
	Status       *Status
}

// BeatmapsetUpdate holds the fields of a partial update. Nil fields are
// left untouched.
type BeatmapsetUpdate struct {
	Artist                  *string       `json:"artist,omitempty"`
	ArtistUnicode           *string       `json:"artist_unicode,omitempty"`
	Creator                 *string       `json:"creator,omitempty"`
	FavouriteCount          *int          `json:"favourite_count,omitempty"`
	NSFW                    *bool         `json:"nsfw,omitempty"`
	OsuPlayCount            *int          `json:"osu_play_count,omitempty"`
	PreviewURL              *string       `json:"preview_url,omitempty"`
	Source                  *string       `json:"source,omitempty"`
	Title                   *string       `json:"title,omitempty"`
	TitleUnicode            *string       `json:"title_unicode,omitempty"`
	Video                   *bool         `json:"video,omitempty"`
	DownloadDisabled        *bool         `json:"download_disabled,omitempty"`
	AvailabilityInformation *string       `json:"availability_information,omitempty"`
	BPM                     *float64      `json:"bpm,omitempty"`
	CanBeHyped              *bool         `json:"can_be_hyped,omitempty"`
	DiscussionLocked        *bool         `json:"discussion_locked,omitempty"`
	CurrentHype             *int          `json:"current_hype,omitempty"`
	RequiredHype            *int          `json:"required_hype,omitempty"`
	IsScoreable             *bool         `json:"is_scoreable,omitempty"`
	LegacyThreadURL         *string       `json:"legacy_thread_url,omitempty"`
	CurrentNominations      *int          `json:"current_nominations,omitempty"`
	RequiredNominations     *int          `json:"required_nominations,omitempty"`
	RankedStatus            *RankedStatus `json:"ranked_status,omitempty"`
	Storyboard              *bool         `json:"storyboard,omitempty"`
	Tags                    *string       `json:"tags,omitempty"`
	Status                  *Status       `json:"status,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u *BeatmapsetUpdate) IsEmpty() bool {
	return u.Artist == nil && u.ArtistUnicode == nil && u.Creator == nil &&
		u.FavouriteCount == nil && u.NSFW == nil && u.OsuPlayCount == nil &&
		u.PreviewURL == nil && u.Source == nil && u.Title == nil &&
		u.TitleUnicode == nil && u.Video == nil && u.DownloadDisabled == nil &&
		u.AvailabilityInformation == nil && u.BPM == nil && u.CanBeHyped == nil &&
		u.DiscussionLocked == nil && u.CurrentHype == nil && u.RequiredHype == nil &&
		u.IsScoreable == nil && u.LegacyThreadURL == nil && u.CurrentNominations == nil &&
		u.RequiredNominations == nil && u.RankedStatus == nil && u.Storyboard == nil &&
		u.Tags == nil && u.Status == nil
}
