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

	"github.com/osumirror/beatmapd/internal/metrics"
	"github.com/osumirror/beatmapd/internal/models"
)

// beatmapColumns is the column list shared by all beatmap SELECTs.
const beatmapColumns = `beatmap_id, md5_hash, set_id, convert, mode, od, ar, cs, hp, bpm,
	hit_length, total_length, count_circles, count_sliders, count_spinners,
	difficulty_rating, is_scoreable, pass_count, play_count, version,
	created_by, ranked_status, status, created_at, updated_at`

// scanBeatmap scans a single beatmap row.
func scanBeatmap(row interface{ Scan(...interface{}) error }) (*models.Beatmap, error) {
	var b models.Beatmap
	err := row.Scan(
		&b.BeatmapID, &b.MD5Hash, &b.SetID, &b.Convert, &b.Mode,
		&b.OD, &b.AR, &b.CS, &b.HP, &b.BPM,
		&b.HitLength, &b.TotalLength, &b.CountCircles, &b.CountSliders, &b.CountSpinners,
		&b.DifficultyRating, &b.IsScoreable, &b.PassCount, &b.PlayCount, &b.Version,
		&b.CreatedBy, &b.RankedStatus, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan beatmap: %w", err)
	}
	return &b, nil
}

// CreateBeatmap inserts a new beatmap row and returns the stored row.
// The audit timestamps are set here, never by the caller. Returns
// ErrAlreadyExists when a row with the same beatmap_id is present.
func (db *DB) CreateBeatmap(ctx context.Context, b *models.Beatmap) (*models.Beatmap, error) {
	start := time.Now()

	now := time.Now().UTC()
	query := `INSERT INTO beatmaps (
		beatmap_id, md5_hash, set_id, convert, mode, od, ar, cs, hp, bpm,
		hit_length, total_length, count_circles, count_sliders, count_spinners,
		difficulty_rating, is_scoreable, pass_count, play_count, version,
		created_by, ranked_status, status, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		b.BeatmapID, b.MD5Hash, b.SetID, b.Convert, b.Mode,
		b.OD, b.AR, b.CS, b.HP, b.BPM,
		b.HitLength, b.TotalLength, b.CountCircles, b.CountSliders, b.CountSpinners,
		b.DifficultyRating, b.IsScoreable, b.PassCount, b.PlayCount, b.Version,
		b.CreatedBy, int(b.RankedStatus), string(b.Status), now, now,
	)
	metrics.ObserveDBQuery("insert", "beatmaps", start, err)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert beatmap %d: %w", b.BeatmapID, err)
	}

	return db.GetBeatmap(ctx, b.BeatmapID)
}

// GetBeatmap retrieves a beatmap by id. Returns ErrNotFound on a miss.
func (db *DB) GetBeatmap(ctx context.Context, beatmapID int) (*models.Beatmap, error) {
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM beatmaps WHERE beatmap_id = ?`, beatmapColumns)
	row := db.conn.QueryRowContext(ctx, query, beatmapID)

	b, err := scanBeatmap(row)
	metrics.ObserveDBQuery("select", "beatmaps", start, ignoreNotFound(err))
	return b, err
}

// ListBeatmaps retrieves beatmaps matching the filter, paged. Page numbers
// are 1-indexed; ordering by beatmap_id keeps pages stable across calls
// absent intervening writes.
func (db *DB) ListBeatmaps(ctx context.Context, filter *models.BeatmapFilter, page, pageSize int) ([]*models.Beatmap, error) {
	start := time.Now()

	var conditions []string
	var args []interface{}

	if filter != nil {
		if filter.SetID != nil {
			conditions = append(conditions, "set_id = ?")
			args = append(args, *filter.SetID)
		}
		if filter.MD5Hash != nil {
			conditions = append(conditions, "md5_hash = ?")
			args = append(args, *filter.MD5Hash)
		}
		if filter.Mode != nil {
			conditions = append(conditions, "mode = ?")
			args = append(args, *filter.Mode)
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

	query := fmt.Sprintf(`SELECT %s FROM beatmaps`, beatmapColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY beatmap_id LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.ObserveDBQuery("select", "beatmaps", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list beatmaps: %w", err)
	}
	defer closeQuietly(rows)

	var beatmaps []*models.Beatmap
	for rows.Next() {
		b, err := scanBeatmap(rows)
		if err != nil {
			return nil, err
		}
		beatmaps = append(beatmaps, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate beatmaps: %w", err)
	}

	return beatmaps, nil
}

// UpdateBeatmap applies a partial update and returns the updated row.
// Exactly the non-nil fields are written; updated_at is always refreshed.
// Returns ErrNotFound when no row matches.
func (db *DB) UpdateBeatmap(ctx context.Context, beatmapID int, update *models.BeatmapUpdate) (*models.Beatmap, error) {
	start := time.Now()

	var sets []string
	var args []interface{}

	addSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if update.MD5Hash != nil {
		addSet("md5_hash", *update.MD5Hash)
	}
	if update.SetID != nil {
		addSet("set_id", *update.SetID)
	}
	if update.Convert != nil {
		addSet("convert", *update.Convert)
	}
	if update.Mode != nil {
		addSet("mode", *update.Mode)
	}
	if update.OD != nil {
		addSet("od", *update.OD)
	}
	if update.AR != nil {
		addSet("ar", *update.AR)
	}
	if update.CS != nil {
		addSet("cs", *update.CS)
	}
	if update.HP != nil {
		addSet("hp", *update.HP)
	}
	if update.BPM != nil {
		addSet("bpm", *update.BPM)
	}
	if update.HitLength != nil {
		addSet("hit_length", *update.HitLength)
	}
	if update.TotalLength != nil {
		addSet("total_length", *update.TotalLength)
	}
	if update.CountCircles != nil {
		addSet("count_circles", *update.CountCircles)
	}
	if update.CountSliders != nil {
		addSet("count_sliders", *update.CountSliders)
	}
	if update.CountSpinners != nil {
		addSet("count_spinners", *update.CountSpinners)
	}
	if update.DifficultyRating != nil {
		addSet("difficulty_rating", *update.DifficultyRating)
	}
	if update.IsScoreable != nil {
		addSet("is_scoreable", *update.IsScoreable)
	}
	if update.PassCount != nil {
		addSet("pass_count", *update.PassCount)
	}
	if update.PlayCount != nil {
		addSet("play_count", *update.PlayCount)
	}
	if update.Version != nil {
		addSet("version", *update.Version)
	}
	if update.CreatedBy != nil {
		addSet("created_by", *update.CreatedBy)
	}
	if update.RankedStatus != nil {
		addSet("ranked_status", int(*update.RankedStatus))
	}
	if update.Status != nil {
		addSet("status", string(*update.Status))
	}

	addSet("updated_at", time.Now().UTC())

	query := fmt.Sprintf(`UPDATE beatmaps SET %s WHERE beatmap_id = ?`, strings.Join(sets, ", "))
	args = append(args, beatmapID)

	result, err := db.conn.ExecContext(ctx, query, args...)
	metrics.ObserveDBQuery("update", "beatmaps", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to update beatmap %d: %w", beatmapID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrNotFound
	}

	return db.GetBeatmap(ctx, beatmapID)
}

// DeleteBeatmap removes a beatmap row and returns the pre-delete row.
// Beatmap deletes are hard: no tombstone survives. Returns ErrNotFound
// when no row matches.
func (db *DB) DeleteBeatmap(ctx context.Context, beatmapID int) (*models.Beatmap, error) {
	b, err := db.GetBeatmap(ctx, beatmapID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `DELETE FROM beatmaps WHERE beatmap_id = ?`, beatmapID)
	metrics.ObserveDBQuery("delete", "beatmaps", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to delete beatmap %d: %w", beatmapID, err)
	}

	return b, nil
}

// DeleteExpiredBeatmaps hard-deletes beatmaps whose updated_at is at or
// before the cutoff. Used by the background sweeper; a deleted row is a
// miss on the next read and will be refetched.
func (db *DB) DeleteExpiredBeatmaps(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()
	result, err := db.conn.ExecContext(ctx, `DELETE FROM beatmaps WHERE updated_at <= ?`, cutoff)
	metrics.ObserveDBQuery("delete", "beatmaps", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired beatmaps: %w", err)
	}
	return result.RowsAffected()
}

// ignoreNotFound strips ErrNotFound so misses are not counted as query
// errors in metrics.
func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
