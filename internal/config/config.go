// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

// Package config loads and validates beatmapd configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, then an optional
// YAML config file, then environment variables (highest priority). Config is
// immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Osu      OsuConfig      `koanf:"osu"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Sweep    SweepConfig    `koanf:"sweep"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// OsuConfig holds osu! API v2 connection settings.
//
// The API uses the OAuth2 client-credentials flow; register a client at
// https://osu.ppy.sh/home/account/edit to obtain an id and secret.
//
// Environment Variables:
//   - OSU_CLIENT_ID, OSU_CLIENT_SECRET (required)
//   - OSU_API_URL, OSU_TOKEN_URL (defaults point at osu.ppy.sh)
//   - OSU_REQUESTS_PER_MINUTE: client-side rate limit (default: 60)
type OsuConfig struct {
	APIURL            string        `koanf:"api_url"`
	TokenURL          string        `koanf:"token_url"`
	ClientID          int           `koanf:"client_id"`
	ClientSecret      string        `koanf:"client_secret"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
}

// DatabaseConfig holds DuckDB configuration.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development" or "production"
}

// APIConfig holds pagination limits for list endpoints.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SweepConfig holds settings for the background expiry sweeper, which
// deletes rows older than the freshness window so cold data does not
// linger in the store. A deleted row is equivalent to a miss on the next
// read, so sweeping is always safe.
type SweepConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for missing or malformed values.
func (c *Config) Validate() error {
	if err := c.validateOsu(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateSweep()
}

func (c *Config) validateOsu() error {
	if c.Osu.ClientID <= 0 {
		return fmt.Errorf("OSU_CLIENT_ID is required and must be positive, got %d", c.Osu.ClientID)
	}
	if c.Osu.ClientSecret == "" {
		return fmt.Errorf("OSU_CLIENT_SECRET is required")
	}
	if c.Osu.APIURL == "" {
		return fmt.Errorf("osu api_url must not be empty")
	}
	if c.Osu.TokenURL == "" {
		return fmt.Errorf("osu token_url must not be empty")
	}
	if c.Osu.RequestsPerMinute <= 0 {
		return fmt.Errorf("osu requests_per_minute must be positive, got %d", c.Osu.RequestsPerMinute)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in range 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("server environment must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api max_page_size (%d) must be >= default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

func (c *Config) validateSweep() error {
	if c.Sweep.Enabled && c.Sweep.Interval < time.Minute {
		return fmt.Errorf("sweep interval must be at least 1m when enabled, got %s", c.Sweep.Interval)
	}
	return nil
}
