// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package database

import (
	"errors"
	"io"
	"strings"
)

// Store adapter errors. Callers distinguish absence (ErrNotFound) and
// insert rejection (ErrAlreadyExists) from generic storage failures, which
// are returned wrapped with query context.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// isUniqueConstraintError reports whether err is a DuckDB unique/primary
// key violation. DuckDB constraint error messages contain
// "unique constraint" or "Duplicate key".
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") || strings.Contains(errMsg, "duplicate key")
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
