// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/osumirror/beatmapd/internal/metrics"
	"github.com/osumirror/beatmapd/internal/models"
)

// beatmapsetColumns is the column list shared by all beatmapset SELECTs.
const beatmapsetColumns = `beatmapset_id, artist, artist_unicode, covers, creator,
	favourite_count, nsfw, osu_play_count, preview_url, source, title, title_unicode,
	created_by, video, download_disabled, availability_information, bpm,
	can_be_hyped, discussion_locked, current_hype, required_hype, is_scoreable,
	legacy_thread_url, current_nominations, required_nominations, ranked_status,
	storyboard, tags, osu_submitted_at, osu_updated_at, osu_ranked_at,
	status, created_at, updated_at`

// scanBeatmapset scans a single beatmapset row.
func scanBeatmapset(row interface{ Scan(...interface{}) error }) (*models.Beatmapset, error) {
	var (
		s            models.Beatmapset
		covers       string
		availability sql.NullString
		rankedAt     sql.NullTime
	)
	err := row.Scan(
		&s.BeatmapsetID, &s.Artist, &s.ArtistUnicode, &covers, &s.Creator,
		&s.FavouriteCount, &s.NSFW, &s.OsuPlayCount, &s.PreviewURL, &s.Source,
		&s.Title, &s.TitleUnicode, &s.CreatedBy, &s.Video, &s.DownloadDisabled,
		&availability, &s.BPM, &s.CanBeHyped, &s.DiscussionLocked,
		&s.CurrentHype, &s.RequiredHype, &s.IsScoreable, &s.LegacyThreadURL,
		&s.CurrentNominations, &s.RequiredNominations, &s.RankedStatus,
		&s.Storyboard, &s.Tags, &s.OsuSubmittedAt, &s.OsuUpdatedAt, &rankedAt,
		&s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan beatmapset: %w", err)
	}

	if covers != "" {
		if err := json.Unmarshal([]byte(covers), &s.Covers); err != nil {
			return nil, fmt.Errorf("failed to decode covers for beatmapset %d: %w", s.BeatmapsetID, err)
		}
	}
	if availability.Valid {
		s.AvailabilityInformation = &availability.String
	}
	if rankedAt.Valid {
		t := rankedAt.Time
		s.OsuRankedAt = &t
	}

	return &s, nil
}

// CreateBeatmapset inserts a new beatmapset row and returns the stored row.
// The audit timestamps are set here, never by the caller. Returns
// ErrAlreadyExists when a row with the same beatmapset_id is present.
func (db *DB) CreateBeatmapset(ctx context.Context, s *models.Beatmapset) (*models.Beatmapset, error) {
	start := time.Now()

	covers, err := json.Marshal(s.Covers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode covers for beatmapset %d: %w", s.BeatmapsetID, err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO beatmapsets (
		beatmapset_id, artist, artist_unicode, covers, creator,
		favourite_count, nsfw, osu_play_count, preview_url, source, title, title_unicode,
		created_by, video, download_disabled, availability_information, bpm,
		can_be_hyped, discussion_locked, current_hype, required_hype, is_scoreable,
		legacy_thread_url, current_nominations, required_nominations, ranked_status,
		storyboard, tags, osu_submitted_at, osu_updated_at, osu_ranked_at,
		status, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var availability interface{}
	if s.AvailabilityInformation != nil {
		availability = *s.AvailabilityInformation
	}
	var rankedAt interface{}
	if s.OsuRankedAt != nil {
		rankedAt = *s.OsuRankedAt
	}

	_, err = db.conn.ExecContext(ctx, query,
		s.BeatmapsetID, s.Artist, s.ArtistUnicode, string(covers), s.Creator,
		s.FavouriteCount, s.NSFW, s.OsuPlayCount, s.PreviewURL, s.Source,
		s.Title, s.TitleUnicode, s.CreatedBy, s.Video, s.DownloadDisabled,
		availability, s.BPM, s.CanBeHyped, s.DiscussionLocked,
		s.CurrentHype, s.RequiredHype, s.IsScoreable, s.LegacyThreadURL,
		s.CurrentNominations, s.RequiredNominations, int(s.RankedStatus),
		s.Storyboard, s.Tags, s.OsuSubmittedAt, s.OsuUpdatedAt, rankedAt,
		string(s.Status), now, now,
	)
	metrics.ObserveDBQuery("insert", "beatmapsets", start, err)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert beatmapset %d: %w", s.BeatmapsetID, err)
	}

	return db.GetBeatmapset(ctx, s.BeatmapsetID)
}

// GetBeatmapset retrieves a beatmapset by id. Soft-deleted rows are still
// returned (tombstones remain visible to reads). Returns ErrNotFound on a
// miss.
func (db *DB) GetBeatmapset(ctx context.Context, beatmapsetID int) (*models.Beatmapset, error) {
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM beatmapsets WHERE beatmapset_id = ?`, beatmapsetColumns)
	row := db.conn.QueryRowContext(ctx, query, beatmapsetID)

	s, err := scanBeatmapset(row)
	metrics.ObserveDBQuery("select", "beatmapsets", start, ignoreNotFound(err))
	return s, err
}

// ListBeatmapsets retrieves beatmapsets matching the filter, paged.
// Page numbers are 1-indexed; ordering by beatmapset_id keeps pages stable
// across calls absent intervening writes.
func (db *DB) ListBeatmapsets(ctx context.Context, filter *models.BeatmapsetFilter, page, pageSize int) ([]*models.Beatmapset, error) {
	start := time.Now()

	var conditions []string
	var args []interface{}

	if filter != nil {
		if filter.Artist != nil {
			conditions = append(conditions, "artist = ?")
			args = append(args, *filter.Artist)
		}
		if filter.Creator != nil {
			conditions = append(conditions, "creator = ?")
			args = append(args, *filter.Creator)
		}
		if filter.Title != nil {
			conditions = append(conditions, "title = ?")
			args = append(args, *filter.Title)
		}
		if filter.NSFW != nil {
			conditions = append(conditions, "nsfw = ?")
			args = append(args, *filter.NSFW)
		}
		if filter.RankedStatus != nil {
			conditions = append(conditions, "ranked_status = ?")
			args = append(args, int(*filter.RankedStatus))
		}
		if filter.Status != nil {
			conditions = append(conditions, "status = ?")
			args = append(args, string(*filter.Status))
		}
	}

	query := fmt.Sprintf(`SELECT %s FROM beatmapsets`, beatmapsetColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY beatmapset_id LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.ObserveDBQuery("select", "beatmapsets", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list beatmapsets: %w", err)
	}
	defer closeQuietly(rows)

	var sets []*models.Beatmapset
	for rows.Next() {
		s, err := scanBeatmapset(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate beatmapsets: %w", err)
	}

	return sets, nil
}

// UpdateBeatmapset applies a partial update and returns the updated row.
// Exactly the non-nil fields are written; updated_at is always refreshed.
// Returns ErrNotFound when no row matches.
func (db *DB) UpdateBeatmapset(ctx context.Context, beatmapsetID int, update *models.BeatmapsetUpdate) (*models.Beatmapset, error) {
	start := time.Now()

	var sets []string
	var args []interface{}

	addSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if update.Artist != nil {
		addSet("artist", *update.Artist)
	}
	if update.ArtistUnicode != nil {
		addSet("artist_unicode", *update.ArtistUnicode)
	}
	if update.Creator != nil {
		addSet("creator", *update.Creator)
	}
	if update.FavouriteCount != nil {
		addSet("favourite_count", *update.FavouriteCount)
	}
	if update.NSFW != nil {
		addSet("nsfw", *update.NSFW)
	}
	if update.OsuPlayCount != nil {
		addSet("osu_play_count", *update.OsuPlayCount)
	}
	if update.PreviewURL != nil {
		addSet("preview_url", *update.PreviewURL)
	}
	if update.Source != nil {
		addSet("source", *update.Source)
	}
	if update.Title != nil {
		addSet("title", *update.Title)
	}
	if update.TitleUnicode != nil {
		addSet("title_unicode", *update.TitleUnicode)
	}
	if update.Video != nil {
		addSet("video", *update.Video)
	}
	if update.DownloadDisabled != nil {
		addSet("download_disabled", *update.DownloadDisabled)
	}
	if update.AvailabilityInformation != nil {
		addSet("availability_information", *update.AvailabilityInformation)
	}
	if update.BPM != nil {
		addSet("bpm", *update.BPM)
	}
	if update.CanBeHyped != nil {
		addSet("can_be_hyped", *update.CanBeHyped)
	}
	if update.DiscussionLocked != nil {
		addSet("discussion_locked", *update.DiscussionLocked)
	}
	if update.CurrentHype != nil {
		addSet("current_hype", *update.CurrentHype)
	}
	if update.RequiredHype != nil {
		addSet("required_hype", *update.RequiredHype)
	}
	if update.IsScoreable != nil {
		addSet("is_scoreable", *update.IsScoreable)
	}
	if update.LegacyThreadURL != nil {
		addSet("legacy_thread_url", *update.LegacyThreadURL)
	}
	if update.CurrentNominations != nil {
		addSet("current_nominations", *update.CurrentNominations)
	}
	if update.RequiredNominations != nil {
		addSet("required_nominations", *update.RequiredNominations)
	}
	if update.RankedStatus != nil {
		addSet("ranked_status", int(*update.RankedStatus))
	}
	if update.Storyboard != nil {
		addSet("storyboard", *update.Storyboard)
	}
	if update.Tags != nil {
		addSet("tags", *update.Tags)
	}
	if update.Status != nil {
		addSet("status", string(*update.Status))
	}

	addSet("updated_at", time.Now().UTC())

	query := fmt.Sprintf(`UPDATE beatmapsets SET %s WHERE beatmapset_id = ?`, strings.Join(sets, ", "))
	args = append(args, beatmapsetID)

	result, err := db.conn.ExecContext(ctx, query, args...)
	metrics.ObserveDBQuery("update", "beatmapsets", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to update beatmapset %d: %w", beatmapsetID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrNotFound
	}

	return db.GetBeatmapset(ctx, beatmapsetID)
}

// SoftDeleteBeatmapset flips a beatmapset's status to deleted and refreshes
// updated_at, returning the tombstone row. The row itself survives so set
// history is preserved; this is deliberately asymmetric with beatmap
// deletes. Returns ErrNotFound when no row matches.
func (db *DB) SoftDeleteBeatmapset(ctx context.Context, beatmapsetID int) (*models.Beatmapset, error) {
	start := time.Now()

	query := `UPDATE beatmapsets SET status = ?, updated_at = ? WHERE beatmapset_id = ?`
	result, err := db.conn.ExecContext(ctx, query, string(models.StatusDeleted), time.Now().UTC(), beatmapsetID)
	metrics.ObserveDBQuery("update", "beatmapsets", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to soft-delete beatmapset %d: %w", beatmapsetID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrNotFound
	}

	return db.GetBeatmapset(ctx, beatmapsetID)
}

// HardDeleteBeatmapset removes a beatmapset row entirely. Used only by
// cache invalidation before a refetch, so the re-insert cannot hit a
// duplicate-key conflict, and by the expiry sweeper.
func (db *DB) HardDeleteBeatmapset(ctx context.Context, beatmapsetID int) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `DELETE FROM beatmapsets WHERE beatmapset_id = ?`, beatmapsetID)
	metrics.ObserveDBQuery("delete", "beatmapsets", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete beatmapset %d: %w", beatmapsetID, err)
	}
	return nil
}

// DeleteExpiredBeatmapsets hard-deletes active beatmapsets whose
// updated_at is at or before the cutoff. Used by the background sweeper.
// Tombstones are kept: a soft delete records an operator action, and
// only a stale read's invalidation may reclaim that row.
func (db *DB) DeleteExpiredBeatmapsets(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()
	result, err := db.conn.ExecContext(ctx, `DELETE FROM beatmapsets WHERE updated_at <= ? AND status != 'deleted'`, cutoff)
	metrics.ObserveDBQuery("delete", "beatmapsets", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired beatmapsets: %w", err)
	}
	return result.RowsAffected()
}
