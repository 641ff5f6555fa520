// beatmapd - osu! Beatmap Metadata Cache
// Copyright 2026 beatmapd contributors
// SPDX-License-Identifier: MIT
// https://github.com/osumirror/beatmapd

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Mode     string `validate:"required,oneof=osu taiko fruits mania"`
	Page     int    `validate:"gte=1"`
	PageSize int    `validate:"gte=1,lte=100"`
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Mode: "osu", Page: 1, PageSize: 50})
	assert.Nil(t, err)
}

func TestValidateStruct_SingleError(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Mode: "osu", Page: 0, PageSize: 50})
	require.NotNil(t, err)
	require.Len(t, err.Errors(), 1)

	apiErr := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "Page")
	assert.Equal(t, "Page", apiErr.Details["field"])
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Mode: "", Page: 0, PageSize: 500})
	require.NotNil(t, err)
	assert.Len(t, err.Errors(), 3)

	apiErr := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Details, "fields")
}

func TestTranslateError_Oneof(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Mode: "invalid", Page: 1, PageSize: 10})
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}
