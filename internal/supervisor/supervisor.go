// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

// Package supervisor wraps suture so the long-running pieces of beatmapd
// (HTTP server, expiry sweeper) restart with backoff after a crash
// instead of taking the process down.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Config holds supervisor restart and shutdown parameters.
type Config struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	FailureDecay float64

	// FailureBackoff is the duration to wait when the threshold is exceeded.
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig matches suture's documented defaults.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Supervisor is a flat suture supervisor with slog-bridged event logging.
type Supervisor struct {
	root   *suture.Supervisor
	config Config
}

// New creates a supervisor logging lifecycle events through the given
// slog logger. Zero config values fall back to defaults.
func New(logger *slog.Logger, config Config) *Supervisor {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5.0
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = 30.0
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = 15 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	// sutureslog's hook constructor has a pointer receiver.
	handler := &sutureslog.Handler{Logger: logger}

	root := suture.New("beatmapd", suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	})

	return &Supervisor{
		root:   root,
		config: config,
	}
}

// Add registers a service with the supervisor.
func (s *Supervisor) Add(svc suture.Service) suture.ServiceToken {
	return s.root.Add(svc)
}

// Serve starts all services and blocks until the context is canceled.
func (s *Supervisor) Serve(ctx context.Context) error {
	return s.root.Serve(ctx)
}

// ServeBackground starts the supervisor in a goroutine and returns a
// channel receiving the terminal error.
func (s *Supervisor) ServeBackground(ctx context.Context) <-chan error {
	return s.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (s *Supervisor) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return s.root.UnstoppedServiceReport()
}
