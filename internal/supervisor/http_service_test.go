// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServer simulates an http.Server whose ListenAndServe blocks until
// Shutdown is called.
type stubServer struct {
	listenErr    error
	shutdownErr  error
	shutdownDone atomic.Bool

	stop chan struct{}
}

func newStubServer() *stubServer {
	return &stubServer{stop: make(chan struct{})}
}

func (s *stubServer) ListenAndServe() error {
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(_ context.Context) error {
	s.shutdownDone.Store(true)
	close(s.stop)
	return s.shutdownErr
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	srv := newStubServer()
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Give the listen goroutine time to start, then request shutdown.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, srv.shutdownDone.Load())
	case <-time.After(time.Second):
		t.Fatal("service did not stop")
	}
}

func TestHTTPServerService_ListenFailure(t *testing.T) {
	srv := newStubServer()
	srv.listenErr = errors.New("address already in use")
	svc := NewHTTPServerService(srv, time.Second)

	err := svc.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
}

func TestHTTPServerService_ShutdownFailure(t *testing.T) {
	srv := newStubServer()
	srv.shutdownErr = errors.New("connections still active")
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shutdown failed")
	case <-time.After(time.Second):
		t.Fatal("service did not stop")
	}
}
