// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package models

import "fmt"

// RankedStatus is the editorial lifecycle stage of content on osu!.
// The integer values match the osu! API "ranked" field and are ordered
// from graveyard through loved.
type RankedStatus int

const (
	RankedStatusGraveyard RankedStatus = -2
	RankedStatusWIP       RankedStatus = -1
	RankedStatusPending   RankedStatus = 0
	RankedStatusRanked    RankedStatus = 1
	RankedStatusApproved  RankedStatus = 2
	RankedStatusQualified RankedStatus = 3
	RankedStatusLoved     RankedStatus = 4
)

// Valid reports whether s is one of the seven known ranked statuses.
func (s RankedStatus) Valid() bool {
	return s >= RankedStatusGraveyard && s <= RankedStatusLoved
}

// String returns the canonical lowercase name of the status.
func (s RankedStatus) String() string {
	switch s {
	case RankedStatusGraveyard:
		return "graveyard"
	case RankedStatusWIP:
		return "wip"
	case RankedStatusPending:
		return "pending"
	case RankedStatusRanked:
		return "ranked"
	case RankedStatusApproved:
		return "approved"
	case RankedStatusQualified:
		return "qualified"
	case RankedStatusLoved:
		return "loved"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseRankedStatus converts a raw integer from the API boundary into a
// RankedStatus, rejecting values outside the closed enumeration.
func ParseRankedStatus(v int) (RankedStatus, error) {
	s := RankedStatus(v)
	if !s.Valid() {
		return 0, fmt.Errorf("invalid ranked status %d", v)
	}
	return s, nil
}

// Status is the local cache-record lifecycle status, independent of
// RankedStatus. Beatmapset deletes are soft: the row stays with
// StatusDeleted as a tombstone.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDeleted
}

// ParseStatus converts a raw string into a Status, rejecting unknown values.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q", v)
	}
	return s, nil
}
