// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package video

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/pipeline"
)

const testOwnerID = "01923456-7890-7abc-def0-123456789abc"

// kindsOf projects a pipeline onto its stage kinds for order assertions.
func kindsOf(p pipeline.Pipeline) []pipeline.Kind {
	stages := p.Stages()
	kinds := make([]pipeline.Kind, len(stages))
	for i, stage := range stages {
		kinds[i] = stage.Kind
	}
	return kinds
}

/*
TestBuildListPipeline_StageOrder pins the stage order for a fully loaded
request: search first, then filters, then ordering, then enrichment.
*/
func TestBuildListPipeline_StageOrder(t *testing.T) {
	listing, err := BuildListPipeline(ListParams{
		Query:   "lofi beats",
		OwnerID: testOwnerID,
		SortBy:  "views",
	})
	require.NoError(t, err)

	assert.Equal(t, []pipeline.Kind{
		pipeline.KindSearch,
		pipeline.KindMatch, // owner
		pipeline.KindMatch, // not deleted
		pipeline.KindMatch, // published only
		pipeline.KindSort,
		pipeline.KindSort, // ID tie-break
		pipeline.KindLookup,
	}, kindsOf(listing))
}

/*
TestBuildListPipeline_Defaults checks the minimal request: no search, no
owner filter, newest-first ordering, published-only visibility.
*/
func TestBuildListPipeline_Defaults(t *testing.T) {
	listing, err := BuildListPipeline(ListParams{})
	require.NoError(t, err)

	kinds := kindsOf(listing)
	assert.Equal(t, []pipeline.Kind{
		pipeline.KindMatch,
		pipeline.KindMatch,
		pipeline.KindSort,
		pipeline.KindSort,
		pipeline.KindLookup,
	}, kinds)

	stages := listing.Stages()
	assert.Contains(t, stages[2].OrderBy, "createdat")
	assert.True(t, strings.HasSuffix(stages[2].OrderBy, " DESC"))
}

/*
TestBuildListPipeline_OwnerBypass verifies the draft-visibility bypass drops
the published-only stage without disturbing the rest.
*/
func TestBuildListPipeline_OwnerBypass(t *testing.T) {
	listing, err := BuildListPipeline(ListParams{
		OwnerID:            testOwnerID,
		IncludeUnpublished: true,
	})
	require.NoError(t, err)

	for _, stage := range listing.Stages() {
		assert.NotContains(t, stage.Expr, "ispublished")
	}
}

/*
TestBuildListPipeline_BadOwnerID rejects a malformed owner filter before any
SQL is compiled.
*/
func TestBuildListPipeline_BadOwnerID(t *testing.T) {
	_, err := BuildListPipeline(ListParams{OwnerID: "not-a-uuid"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}

/*
TestBuildListPipeline_UnknownSort rejects sort fields outside the allow-list
and directions other than asc/desc.
*/
func TestBuildListPipeline_UnknownSort(t *testing.T) {
	_, err := BuildListPipeline(ListParams{SortBy: "cleverness"})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)

	_, err = BuildListPipeline(ListParams{SortBy: "views", SortDir: "sideways"})
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}

/*
TestBuildListPipeline_SortKeys walks the (field, direction) grid and checks
each combination maps to its ORDER BY clause, including the descending
default when no direction is given.
*/
func TestBuildListPipeline_SortKeys(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortDir   string
		wantOrder string
	}{
		{name: "default_latest", sortBy: "", sortDir: "", wantOrder: "v.createdat DESC"},
		{name: "oldest", sortBy: "created_at", sortDir: "asc", wantOrder: "v.createdat ASC"},
		{name: "popular", sortBy: "views", sortDir: "desc", wantOrder: "v.views DESC"},
		{name: "least_viewed", sortBy: "views", sortDir: "asc", wantOrder: "v.views ASC"},
		{name: "title_az", sortBy: "title", sortDir: "asc", wantOrder: "v.title ASC"},
		{name: "title_za", sortBy: "title", sortDir: "desc", wantOrder: "v.title DESC"},
		{name: "longest", sortBy: "duration", sortDir: "DESC", wantOrder: "v.duration DESC"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			listing, err := BuildListPipeline(ListParams{SortBy: tc.sortBy, SortDir: tc.sortDir})
			require.NoError(t, err)

			var orders []string
			for _, stage := range listing.Stages() {
				if stage.Kind == pipeline.KindSort {
					orders = append(orders, stage.OrderBy)
				}
			}
			require.NotEmpty(t, orders)
			assert.Equal(t, tc.wantOrder, orders[0])
		})
	}
}

/*
TestBuildListPipeline_Purity makes sure two calls never share stage storage.
*/
func TestBuildListPipeline_Purity(t *testing.T) {
	first, err := BuildListPipeline(ListParams{Query: "jazz"})
	require.NoError(t, err)

	second, err := BuildListPipeline(ListParams{})
	require.NoError(t, err)

	assert.NotEqual(t, first.Len(), second.Len())

	// Extending one must not leak into a copy taken earlier.
	snapshot := first.Len()
	_ = first.Match("v.duration > ?", 60)
	assert.Equal(t, snapshot, first.Len())
}
