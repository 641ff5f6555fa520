// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the beatmaps and beatmapsets tables plus indexes.
// All columns are defined in the initial CREATE TABLE statements; there are
// no migrations yet.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS beatmaps (
			beatmap_id        BIGINT PRIMARY KEY,
			md5_hash          VARCHAR NOT NULL,
			set_id            BIGINT NOT NULL,
			convert           BOOLEAN NOT NULL,
			mode              VARCHAR NOT NULL,
			od                DOUBLE NOT NULL,
			ar                DOUBLE NOT NULL,
			cs                DOUBLE NOT NULL,
			hp                DOUBLE NOT NULL,
			bpm               DOUBLE NOT NULL,
			hit_length        INTEGER NOT NULL,
			total_length      INTEGER NOT NULL,
			count_circles     INTEGER NOT NULL,
			count_sliders     INTEGER NOT NULL,
			count_spinners    INTEGER NOT NULL,
			difficulty_rating DOUBLE NOT NULL,
			is_scoreable      BOOLEAN NOT NULL,
			pass_count        BIGINT NOT NULL,
			play_count        BIGINT NOT NULL,
			version           VARCHAR NOT NULL,
			created_by        BIGINT NOT NULL,
			ranked_status     INTEGER NOT NULL,
			status            VARCHAR NOT NULL,
			created_at        TIMESTAMP NOT NULL,
			updated_at        TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS beatmapsets (
			beatmapset_id            BIGINT PRIMARY KEY,
			artist                   VARCHAR NOT NULL,
			artist_unicode           VARCHAR NOT NULL,
			covers                   VARCHAR NOT NULL,
			creator                  VARCHAR NOT NULL,
			favourite_count          BIGINT NOT NULL,
			nsfw                     BOOLEAN NOT NULL,
			osu_play_count           BIGINT NOT NULL,
			preview_url              VARCHAR NOT NULL,
			source                   VARCHAR NOT NULL,
			title                    VARCHAR NOT NULL,
			title_unicode            VARCHAR NOT NULL,
			created_by               BIGINT NOT NULL,
			video                    BOOLEAN NOT NULL,
			download_disabled        BOOLEAN NOT NULL,
			availability_information VARCHAR,
			bpm                      DOUBLE NOT NULL,
			can_be_hyped             BOOLEAN NOT NULL,
			discussion_locked        BOOLEAN NOT NULL,
			current_hype             INTEGER NOT NULL,
			required_hype            INTEGER NOT NULL,
			is_scoreable             BOOLEAN NOT NULL,
			legacy_thread_url        VARCHAR NOT NULL,
			current_nominations      INTEGER NOT NULL,
			required_nominations     INTEGER NOT NULL,
			ranked_status            INTEGER NOT NULL,
			storyboard               BOOLEAN NOT NULL,
			tags                     VARCHAR NOT NULL,
			osu_submitted_at         TIMESTAMP NOT NULL,
			osu_updated_at           TIMESTAMP NOT NULL,
			osu_ranked_at            TIMESTAMP,
			status                   VARCHAR NOT NULL,
			created_at               TIMESTAMP NOT NULL,
			updated_at               TIMESTAMP NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return db.createIndexes(ctx)
}

// createIndexes creates indexes for frequently filtered columns.
func (db *DB) createIndexes(ctx context.Context) error {
	queries := []string{
		`CREATE INDEX IF NOT EXISTS idx_beatmaps_set_id ON beatmaps(set_id)`,
		`CREATE INDEX IF NOT EXISTS idx_beatmaps_md5_hash ON beatmaps(md5_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_beatmaps_updated_at ON beatmaps(updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_beatmapsets_artist ON beatmapsets(artist)`,
		`CREATE INDEX IF NOT EXISTS idx_beatmapsets_creator ON beatmapsets(creator)`,
		`CREATE INDEX IF NOT EXISTS idx_beatmapsets_updated_at ON beatmapsets(updated_at)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
