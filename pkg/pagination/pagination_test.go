// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trananhvu/vidora/pkg/pagination"
)

/*
TestParams_Normalize verifies that out-of-range values fall back to defaults.
*/
func TestParams_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        pagination.Params
		wantPage  int
		wantLimit int
	}{
		{"zero_page", pagination.Params{Page: 0, Limit: 10}, 1, 10},
		{"negative_limit", pagination.Params{Page: 2, Limit: -5}, 2, pagination.DefaultLimit},
		{"both_invalid", pagination.Params{Page: 0, Limit: -5}, 1, pagination.DefaultLimit},
		{"limit_over_max", pagination.Params{Page: 3, Limit: 500}, 3, pagination.DefaultLimit},
		{"already_valid", pagination.Params{Page: 4, Limit: 50}, 4, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

/*
TestParams_Offset checks the SQL OFFSET derivation.
*/
func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, pagination.Params{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 90, pagination.Params{Page: 10, Limit: 10}.Offset())
}

/*
TestFromRequest verifies query string parsing and clamping.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/videos", 1, 20},
		{"explicit", "/videos?page=3&limit=15", 3, 15},
		{"zero_page", "/videos?page=0", 1, 20},
		{"negative_limit", "/videos?limit=-5", 1, 20},
		{"non_numeric", "/videos?page=abc&limit=xyz", 1, 20},
		{"over_max", "/videos?limit=9999", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := pagination.FromRequest(r)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

/*
TestNewMeta checks total page calculation edge cases.
*/
func TestNewMeta(t *testing.T) {
	m := pagination.NewMeta(2, 20, 45)
	assert.Equal(t, 3, m.TotalPages)

	m = pagination.NewMeta(1, 20, 0)
	assert.Equal(t, 0, m.TotalPages)

	m = pagination.NewMeta(1, 0, 10)
	assert.Equal(t, 0, m.TotalPages)
}
