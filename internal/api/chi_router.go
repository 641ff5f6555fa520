// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osumirror/beatmapd/internal/middleware"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router around the given handler and middleware
// factory.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
	}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health endpoints carry a permissive rate limit so monitoring can
	// poll without eating the API budget.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/beatmaps", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/", router.handler.CreateBeatmap)
		r.Get("/", router.handler.ListBeatmaps)
		r.Get("/{id}", router.handler.GetBeatmap)
		r.Patch("/{id}", router.handler.UpdateBeatmap)
		r.Delete("/{id}", router.handler.DeleteBeatmap)
	})

	r.Route("/api/v1/beatmapsets", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/", router.handler.CreateBeatmapset)
		r.Get("/", router.handler.ListBeatmapsets)
		r.Get("/{id}", router.handler.GetBeatmapset)
		r.Patch("/{id}", router.handler.UpdateBeatmapset)
		r.Delete("/{id}", router.handler.DeleteBeatmapset)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
