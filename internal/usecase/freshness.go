// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package usecase

import "time"

// FreshnessWindow is how long a cached row is trusted before a read
// triggers a refetch from the authority.
const FreshnessWindow = 24 * time.Hour

// IsExpired reports whether a record last updated at updatedAt is stale
// as of now. A record exactly at the threshold counts as expired. An
// updated_at in the future (clock skew) yields a negative age and is
// never expired.
func IsExpired(updatedAt, now time.Time) bool {
	return now.Sub(updatedAt) >= FreshnessWindow
}
