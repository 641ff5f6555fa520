// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/beatmapd/config.yaml",
	"/etc/beatmapd/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Osu: OsuConfig{
			APIURL:            "https://osu.ppy.sh/api/v2",
			TokenURL:          "https://osu.ppy.sh/oauth/token",
			ClientID:          0, // required
			ClientSecret:      "",
			Timeout:           30 * time.Second,
			RequestsPerMinute: 60, // osu! API guideline: stay at or below 60 rpm
		},
		Database: DatabaseConfig{
			Path:      "/data/beatmapd.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize: 50,
			MaxPageSize:     100,
		},
		Sweep: SweepConfig{
			Enabled:  false,
			Interval: time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values from defaultConfig()
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// BEATMAPD_OSU_CLIENT_ID -> osu.client_id, SERVER_PORT -> server.port, etc.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file, honoring CONFIG_PATH first.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// EnvPrefix namespaces beatmapd's environment variables, so e.g.
// BEATMAPD_SERVER_PORT cannot collide with another service's
// SERVER_PORT. The unprefixed names are accepted too.
const EnvPrefix = "BEATMAPD_"

// envTransformFunc maps environment variable names to koanf config paths.
// Unknown variables map to the empty string and are ignored, so unrelated
// environment noise cannot leak into the config.
func envTransformFunc(key string) string {
	mappings := map[string]string{
		"OSU_API_URL":             "osu.api_url",
		"OSU_TOKEN_URL":           "osu.token_url",
		"OSU_CLIENT_ID":           "osu.client_id",
		"OSU_CLIENT_SECRET":       "osu.client_secret",
		"OSU_TIMEOUT":             "osu.timeout",
		"OSU_REQUESTS_PER_MINUTE": "osu.requests_per_minute",

		"DATABASE_PATH":       "database.path",
		"DATABASE_MAX_MEMORY": "database.max_memory",
		"DATABASE_THREADS":    "database.threads",

		"SERVER_HOST":    "server.host",
		"SERVER_PORT":    "server.port",
		"SERVER_TIMEOUT": "server.timeout",
		"ENVIRONMENT":    "server.environment",

		"API_DEFAULT_PAGE_SIZE": "api.default_page_size",
		"API_MAX_PAGE_SIZE":     "api.max_page_size",

		"SWEEP_ENABLED":  "sweep.enabled",
		"SWEEP_INTERVAL": "sweep.interval",

		"LOG_LEVEL":  "logging.level",
		"LOG_FORMAT": "logging.format",
		"LOG_CALLER": "logging.caller",
	}

	name := strings.TrimPrefix(strings.ToUpper(key), EnvPrefix)
	if path, ok := mappings[name]; ok {
		return path
	}
	return ""
}
