// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

// Package metrics defines the Prometheus collectors for beatmapd.
//
// The cache counters make the read-through behavior observable: operators
// can see hit/miss/stale ratios per entity and, importantly, the write
// amplification caused by fan-out refreshes on the read path.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cache behavior metrics. The "entity" label is "beatmap" or "beatmapset".
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatmapd_cache_hits_total",
			Help: "Reads served from the local store without an upstream call",
		},
		[]string{"entity"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatmapd_cache_misses_total",
			Help: "Reads where the entity was absent from the local store",
		},
		[]string{"entity"},
	)

	CacheStale = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatmapd_cache_stale_total",
			Help: "Reads where the stored entity had exceeded the freshness window",
		},
		[]string{"entity"},
	)

	CacheFills = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatmapd_cache_fills_total",
			Help: "Rows written to the local store from upstream data",
		},
		[]string{"entity"},
	)

	// Fan-out metrics: child beatmap refreshes triggered by a beatmapset
	// cache fill. "outcome" is "refreshed", "fresh" (skipped), or "failed".
	FanoutChildren = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatmapd_fanout_children_total",
			Help: "Child beatmap refresh outcomes during beatmapset fan-out",
		},
		[]string{"outcome"},
	)

	// Upstream osu! API metrics
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatmapd_upstream_requests_total",
			Help: "Requests issued to the osu! API",
		},
		[]string{"endpoint", "status_code"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beatmapd_upstream_request_duration_seconds",
			Help:    "osu! API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "beatmapd_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatmapd_circuit_breaker_requests_total",
			Help: "Circuit breaker request outcomes",
		},
		[]string{"name", "result"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatmapd_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beatmapd_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatmapd_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatmapd_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beatmapd_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Sweeper metrics
	SweepDeletedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatmapd_sweep_deleted_rows_total",
			Help: "Expired rows deleted by the background sweeper",
		},
		[]string{"entity"},
	)

	SweepRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "beatmapd_sweep_runs_total",
			Help: "Completed sweeper passes",
		},
	)
)

// ObserveDBQuery records a database query duration and, if err is non-nil,
// an error for the given operation/table pair.
func ObserveDBQuery(operation, table string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// ObserveAPIRequest records an API request with its response status.
func ObserveAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObserveUpstreamRequest records an osu! API request with its response status.
func ObserveUpstreamRequest(endpoint string, statusCode int, duration time.Duration) {
	UpstreamRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
