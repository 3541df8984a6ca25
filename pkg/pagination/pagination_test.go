// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmasanja/elimu/pkg/pagination"
)

func TestFromRequest_Defaults(t *testing.T) {
	request := httptest.NewRequest("GET", "/books", nil)

	params := pagination.FromRequest(request)

	assert.Equal(t, pagination.DefaultPage, params.Page)
	assert.Equal(t, pagination.DefaultLimit, params.Limit)
}

func TestFromRequest_Clamping(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"explicit values", "page=3&limit=50", 3, 50},
		{"zero page", "page=0&limit=10", pagination.DefaultPage, 10},
		{"negative page", "page=-2", pagination.DefaultPage, pagination.DefaultLimit},
		{"limit above max", "limit=5000", pagination.DefaultPage, pagination.DefaultLimit},
		{"garbage input", "page=abc&limit=xyz", pagination.DefaultPage, pagination.DefaultLimit},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/books?"+testCase.query, nil)

			params := pagination.FromRequest(request)

			assert.Equal(t, testCase.wantPage, params.Page)
			assert.Equal(t, testCase.wantLimit, params.Limit)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, pagination.Params{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 90, pagination.Params{Page: 10, Limit: 10}.Offset())
	// Page zero never produces a negative offset.
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
}

func TestNewMeta_TotalPagesRoundsUp(t *testing.T) {
	meta := pagination.NewMeta(1, 20, 41)

	assert.Equal(t, 41, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	empty := pagination.NewMeta(1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
}
