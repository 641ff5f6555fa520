// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints.
//
// Status is "success" or "error"; Error is populated only on error.
//
//	{
//	  "status": "success",
//	  "data": {"beatmap_id": 129891, ...},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z", "query_time_ms": 4}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms"`
	Page        int       `json:"page,omitempty"`
	PageSize    int       `json:"page_size,omitempty"`
}

// APIError carries a machine-readable code plus a human-readable message.
//
// Codes used by beatmapd:
//   - NOT_FOUND: entity absent locally and upstream fetch failed
//   - CANNOT_CREATE: the store rejected a direct create
//   - CANNOT_UPDATE / CANNOT_DELETE: update/delete failed
//   - VALIDATION_ERROR: malformed request input
//   - INTERNAL_ERROR: unexpected storage or server failure
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
