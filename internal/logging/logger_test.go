// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapLogger installs a capture logger for the duration of a test.
func swapLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := Logger()
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { SetLogger(previous) })
	return &buf
}

func TestGlobalLogger(t *testing.T) {
	buf := swapLogger(t)

	Info().Str("entity", "beatmap").Int("beatmap_id", 129891).Msg("cache fill")

	out := buf.String()
	assert.Contains(t, out, `"entity":"beatmap"`)
	assert.Contains(t, out, `"beatmap_id":129891`)
	assert.Contains(t, out, `"message":"cache fill"`)
}

func TestCtx_RequestIDStamped(t *testing.T) {
	buf := swapLogger(t)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	Ctx(ctx).Info().Msg("lookup")

	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
}

func TestCtx_NoRequestID(t *testing.T) {
	buf := swapLogger(t)

	Ctx(context.Background()).Info().Msg("lookup")

	out := buf.String()
	assert.Contains(t, out, `"message":"lookup"`)
	assert.NotContains(t, out, "request_id")
}

func TestContextWithLogger(t *testing.T) {
	swapLogger(t)

	var buf bytes.Buffer
	scoped := NewTestLogger(&buf).With().Str("component", "api").Logger()

	ctx := ContextWithLogger(context.Background(), scoped)
	ctx = ContextWithRequestID(ctx, "req-456")
	Ctx(ctx).Info().Msg("handled")

	out := buf.String()
	assert.Contains(t, out, `"component":"api"`)
	assert.Contains(t, out, `"request_id":"req-456"`)
}

func TestLoggerFromContext_FallsBackToGlobal(t *testing.T) {
	buf := swapLogger(t)

	logger := LoggerFromContext(context.Background())
	logger.Info().Msg("fallback")

	assert.Contains(t, buf.String(), `"message":"fallback"`)
}

func TestWithComponent(t *testing.T) {
	buf := swapLogger(t)

	logger := WithComponent("sweeper")
	logger.Info().Msg("pass complete")

	assert.Contains(t, buf.String(), `"component":"sweeper"`)
}

func TestGenerateRequestID_Unique(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	require.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
