// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

/*
client.go - osu! API v2 Client

Read-only client for the two endpoints the cache mirrors:

  GET /beatmaps/{id}
  GET /beatmapsets/{id}

Authentication uses the OAuth2 client-credentials flow against the osu!
token endpoint; tokens are cached until shortly before expiry. Outbound
traffic is throttled client-side with a token bucket and HTTP 429
responses are retried with exponential backoff, honoring Retry-After.
*/
package osuapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/osumirror/beatmapd/internal/config"
	"github.com/osumirror/beatmapd/internal/logging"
	"github.com/osumirror/beatmapd/internal/metrics"
	"github.com/osumirror/beatmapd/internal/models"
)

// tokenExpirySlack refreshes tokens a little early so an in-flight
// request never carries a token that expires mid-request.
const tokenExpirySlack = 30 * time.Second

// Fetcher is the upstream surface the rest of the service depends on.
// GetBeatmapset returns the set together with its embedded child
// beatmaps, already converted to canonical models.
type Fetcher interface {
	GetBeatmap(ctx context.Context, beatmapID int) (*models.Beatmap, error)
	GetBeatmapset(ctx context.Context, beatmapsetID int) (*models.Beatmapset, []*models.Beatmap, error)
}

// RequestError is returned for non-2xx upstream responses.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("osu! api: %s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}

// Client talks to the osu! API v2.
type Client struct {
	apiURL       string
	tokenURL     string
	clientID     int
	clientSecret string
	httpClient   *http.Client
	limiter      *rate.Limiter

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient builds a client from configuration. The rate limiter spreads
// the per-minute budget evenly but allows short bursts.
func NewClient(cfg *config.OsuConfig) *Client {
	burst := cfg.RequestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Client{
		apiURL:       cfg.APIURL,
		tokenURL:     cfg.TokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), burst),
	}
}

// GetBeatmap fetches a single beatmap by id.
func (c *Client) GetBeatmap(ctx context.Context, beatmapID int) (*models.Beatmap, error) {
	var raw apiBeatmap
	if err := c.getJSON(ctx, fmt.Sprintf("/beatmaps/%d", beatmapID), &raw); err != nil {
		return nil, err
	}
	return raw.toBeatmap()
}

// GetBeatmapset fetches a beatmapset by id. The second return value
// holds the set's child beatmaps, which the API embeds in the response.
func (c *Client) GetBeatmapset(ctx context.Context, beatmapsetID int) (*models.Beatmapset, []*models.Beatmap, error) {
	var raw apiBeatmapset
	if err := c.getJSON(ctx, fmt.Sprintf("/beatmapsets/%d", beatmapsetID), &raw); err != nil {
		return nil, nil, err
	}

	set, err := raw.toBeatmapset()
	if err != nil {
		return nil, nil, err
	}

	children := make([]*models.Beatmap, 0, len(raw.Beatmaps))
	for i := range raw.Beatmaps {
		child, err := raw.Beatmaps[i].toBeatmap()
		if err != nil {
			return nil, nil, err
		}
		children = append(children, child)
	}

	return set, children, nil
}

// getJSON executes an authenticated GET and decodes the response body.
func (c *Client) getJSON(ctx context.Context, path string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.doRequestWithRateLimit(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	metrics.ObserveUpstreamRequest(path, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return &RequestError{StatusCode: resp.StatusCode, Message: "request failed"}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doRequestWithRateLimit executes a request, retrying HTTP 429 with
// exponential backoff (1s, 2s, 4s, 8s, 16s) and honoring a Retry-After
// header when present.
func (c *Client) doRequestWithRateLimit(req *http.Request) (*http.Response, error) {
	const maxRetries = 5
	baseDelay := 1 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		resp.Body.Close()

		if attempt == maxRetries {
			return nil, &RequestError{StatusCode: http.StatusTooManyRequests, Message: fmt.Sprintf("rate limit exceeded after %d retries", maxRetries)}
		}

		retryDelay := baseDelay * (1 << attempt)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				retryDelay = seconds
			}
		}

		logging.Warn().Dur("retry_delay", retryDelay).Int("attempt", attempt+1).Int("max_retries", maxRetries).Msg("osu! API rate limited (HTTP 429), retrying")

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("unreachable code: retry loop should return or error")
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached access token, fetching a fresh one when the
// cached token is absent or close to expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpirySlack)) {
		return c.accessToken, nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"grant_type":    "client_credentials",
		"scope":         "public",
	})
	if err != nil {
		return "", fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &RequestError{StatusCode: resp.StatusCode, Message: "token request failed"}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.accessToken = tr.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)

	logging.Debug().Time("expires_at", c.tokenExpiry).Msg("obtained osu! API access token")

	return c.accessToken, nil
}
