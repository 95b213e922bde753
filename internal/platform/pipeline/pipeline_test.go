// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trananhvu/vidora/internal/platform/pipeline"
)

/*
TestPipeline_Immutability ensures builder methods never mutate the receiver.
*/
func TestPipeline_Immutability(t *testing.T) {
	base := pipeline.New().Match("v.ispublished = ?", true)

	withSearch := base.Search("v.searchvector", "cats")
	withSort := base.Sort("v.createdat", true)

	assert.Equal(t, 1, base.Len(), "base pipeline must stay untouched")
	assert.Equal(t, 2, withSearch.Len())
	assert.Equal(t, 2, withSort.Len())

	// The two derivatives must not see each other's stages.
	assert.Equal(t, pipeline.KindSearch, withSearch.Stages()[1].Kind)
	assert.Equal(t, pipeline.KindSort, withSort.Stages()[1].Kind)
}

/*
TestPipeline_StageOrder verifies stages are preserved in append order.
*/
func TestPipeline_StageOrder(t *testing.T) {
	p := pipeline.New().
		Search("v.searchvector", "go tutorials").
		Match("v.ispublished = ?", true).
		Sort("v.createdat", true).
		Lookup("(SELECT COUNT(*) FROM social.like l WHERE l.videoid = v.id)", "likecount")

	kinds := make([]pipeline.Kind, 0, p.Len())
	for _, stage := range p.Stages() {
		kinds = append(kinds, stage.Kind)
	}

	assert.Equal(t, []pipeline.Kind{
		pipeline.KindSearch,
		pipeline.KindMatch,
		pipeline.KindSort,
		pipeline.KindLookup,
	}, kinds)
}

/*
TestPipeline_Select checks SQL compilation and placeholder numbering.
*/
func TestPipeline_Select(t *testing.T) {
	p := pipeline.New().
		Search("v.searchvector", "space").
		Match("v.ownerid = ?", "owner-1").
		Match("v.ispublished = ?", true).
		Sort("v.createdat", true).
		Lookup("(SELECT COUNT(*) FROM social.like l WHERE l.videoid = v.id)", "likecount")

	compiled := p.Select("core.video v", []string{"v.id", "v.title"}, 20, 40)

	assert.Equal(t,
		"SELECT v.id, v.title, "+
			"(SELECT COUNT(*) FROM social.like l WHERE l.videoid = v.id) AS likecount "+
			"FROM core.video v "+
			"WHERE v.searchvector @@ websearch_to_tsquery('simple', $1) "+
			"AND v.ownerid = $2 AND v.ispublished = $3 "+
			"ORDER BY v.createdat DESC "+
			"LIMIT $4 OFFSET $5",
		compiled.SQL,
	)
	assert.Equal(t, []any{"space", "owner-1", true, 20, 40}, compiled.Args)
}

/*
TestPipeline_Select_Empty compiles an empty pipeline into a bare page fetch.
*/
func TestPipeline_Select_Empty(t *testing.T) {
	compiled := pipeline.New().Select("core.video v", []string{"v.id"}, 10, 0)

	assert.Equal(t, "SELECT v.id FROM core.video v LIMIT $1 OFFSET $2", compiled.SQL)
	assert.Equal(t, []any{10, 0}, compiled.Args)
}

/*
TestPipeline_Count skips sort and lookup stages and renumbers placeholders.
*/
func TestPipeline_Count(t *testing.T) {
	p := pipeline.New().
		Sort("v.createdat", true).
		Match("v.ispublished = ?", true).
		Lookup("1", "one").
		Match("v.ownerid = ?", "owner-1")

	compiled := p.Count("core.video v")

	assert.Equal(t,
		"SELECT COUNT(*) FROM core.video v WHERE v.ispublished = $1 AND v.ownerid = $2",
		compiled.SQL,
	)
	assert.Equal(t, []any{true, "owner-1"}, compiled.Args)
}

/*
TestPipeline_MultiPlaceholderMatch handles expressions with several binds.
*/
func TestPipeline_MultiPlaceholderMatch(t *testing.T) {
	p := pipeline.New().
		Match("v.duration BETWEEN ? AND ?", 60, 600)

	compiled := p.Count("core.video v")
	require.Equal(t, "SELECT COUNT(*) FROM core.video v WHERE v.duration BETWEEN $1 AND $2", compiled.SQL)
	assert.Equal(t, []any{60, 600}, compiled.Args)
}

/*
TestPipeline_SortAscending emits ASC ordering.
*/
func TestPipeline_SortAscending(t *testing.T) {
	p := pipeline.New().Sort("v.title", false)
	compiled := p.Select("core.video v", []string{"v.id"}, 5, 0)
	assert.Contains(t, compiled.SQL, "ORDER BY v.title ASC")
}
