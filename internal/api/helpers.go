// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/osumirror/beatmapd/internal/logging"
	"github.com/osumirror/beatmapd/internal/models"
	"github.com/osumirror/beatmapd/internal/usecase"
	"github.com/osumirror/beatmapd/internal/validation"
)

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData wraps a payload in the success envelope.
func respondData(w http.ResponseWriter, status int, data interface{}, started time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	})
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondUsecaseError maps orchestrator sentinel errors onto HTTP
// responses. Everything unrecognized is an internal error.
func respondUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	case errors.Is(err, usecase.ErrCannotCreate):
		respondError(w, http.StatusConflict, "CANNOT_CREATE", "resource could not be created", err)
	case errors.Is(err, usecase.ErrCannotUpdate):
		respondError(w, http.StatusInternalServerError, "CANNOT_UPDATE", "resource could not be updated", err)
	case errors.Is(err, usecase.ErrCannotDelete):
		respondError(w, http.StatusInternalServerError, "CANNOT_DELETE", "resource could not be deleted", err)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err)
	}
}

// validateRequest validates a struct, returning an API error on failure.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	details := make(map[string]string, len(apiErr.Details))
	for k, v := range apiErr.Details {
		if s, ok := v.(string); ok {
			details[k] = s
		}
	}
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: details,
	}
}

// idParam extracts the {id} route parameter as a positive integer.
func idParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// pagination extracts page/page_size, clamped to the configured limits.
func (h *Handler) pagination(r *http.Request) (page, pageSize int) {
	page = getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}

	pageSize = getIntParam(r, "page_size", h.config.API.DefaultPageSize)
	if pageSize < 1 {
		pageSize = h.config.API.DefaultPageSize
	}
	if pageSize > h.config.API.MaxPageSize {
		pageSize = h.config.API.MaxPageSize
	}
	return page, pageSize
}
