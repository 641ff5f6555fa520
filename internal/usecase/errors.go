// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package usecase

import "errors"

// Sentinel conditions surfaced by the orchestration layer. The router
// maps these onto HTTP responses; nothing below this package speaks
// HTTP status codes.
//
// On the read-through path, upstream failures and failed cache-fill
// inserts both collapse to ErrNotFound: the cache does not tell callers
// apart "the authority is down" from "the entity does not exist".
// ErrCannotCreate is reserved for the direct create path.
var (
	ErrNotFound     = errors.New("not found")
	ErrCannotCreate = errors.New("cannot create")
	ErrCannotUpdate = errors.New("cannot update")
	ErrCannotDelete = errors.New("cannot delete")

	// ErrStorage marks adapter I/O failures unrelated to absence.
	ErrStorage = errors.New("storage failure")
)
