// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package video

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/database/schema"
	"github.com/trananhvu/vidora/internal/platform/pipeline"
)

// # Listing Pipeline

// ListParams describes one discovery request.
type ListParams struct {
	// Query is the full-text search term; empty means no search stage.
	Query string
	// OwnerID restricts the listing to one channel; empty means all channels.
	OwnerID string
	// SortBy names an allow-listed sortable field; empty means created_at.
	SortBy string
	// SortDir is "asc" or "desc" (any case); empty means descending.
	SortDir string
	// IncludeUnpublished keeps drafts in the listing. Only set when the
	// caller is the channel owner.
	IncludeUnpublished bool
}

// sortColumns is the complete field allow-list. Anything else is a
// BadRequest; the API never orders by an arbitrary column name.
var sortColumns = map[string]string{
	"created_at": "v." + schema.CoreVideo.CreatedAt,
	"views":      "v." + schema.CoreVideo.Views,
	"title":      "v." + schema.CoreVideo.Title,
	"duration":   "v." + schema.CoreVideo.Duration,
}

// ownerLookupExpr is the correlated sub-query that attaches the owner's
// public fields to every listing row as a JSON object.
var ownerLookupExpr = fmt.Sprintf(
	`(SELECT json_build_object('id', a.%s, 'username', a.%s, 'full_name', a.%s, 'avatar_url', a.%s) FROM %s a WHERE a.%s = v.%s)`,
	schema.UserAccount.ID, schema.UserAccount.Username,
	schema.UserAccount.FullName, schema.UserAccount.AvatarURL,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.CoreVideo.OwnerID,
)

/*
BuildListPipeline translates discovery parameters into a query pipeline.

Description: Pure function; every call returns a fresh pipeline. Stages are
appended in a fixed order so tests and callers can rely on it:

 1. Search (only when Query is set; always first so the planner can lead
    with the GIN index).
 2. Owner match (validated UUID).
 3. Visibility match (published and not deleted; drafts stay visible to
    their owner via IncludeUnpublished).
 4. Sort (allow-listed, default newest first, ID tie-break).
 5. Owner lookup (public JSON projection).

Parameters:
  - params: ListParams

Returns:
  - pipeline.Pipeline: Ready for compilation
  - error: apperr.BadRequest for a malformed owner ID, unknown sort field,
    or unknown sort direction
*/
func BuildListPipeline(params ListParams) (pipeline.Pipeline, error) {
	listing := pipeline.New()

	if params.Query != "" {
		listing = listing.Search("v."+schema.CoreVideo.SearchVector, params.Query)
	}

	if params.OwnerID != "" {
		if _, err := uuid.Parse(params.OwnerID); err != nil {
			return pipeline.Pipeline{}, apperr.BadRequest("Owner ID must be a valid UUID")
		}
		listing = listing.Match("v."+schema.CoreVideo.OwnerID+" = ?", params.OwnerID)
	}

	listing = listing.Match("v." + schema.CoreVideo.DeletedAt + " IS NULL")
	if !params.IncludeUnpublished {
		listing = listing.Match("v." + schema.CoreVideo.IsPublished)
	}

	field := params.SortBy
	if field == "" {
		field = "created_at"
	}
	column, ok := sortColumns[field]
	if !ok {
		return pipeline.Pipeline{}, apperr.BadRequest("Unknown sort field: " + params.SortBy)
	}

	descending, err := sortDirection(params.SortDir)
	if err != nil {
		return pipeline.Pipeline{}, err
	}

	listing = listing.
		Sort(column, descending).
		Sort("v."+schema.CoreVideo.ID, true) // stable tie-break

	return listing.Lookup(ownerLookupExpr, "owner"), nil
}

// sortDirection parses an asc/desc token; the default order is descending
// so an unsorted catalogue reads newest first.
func sortDirection(dir string) (descending bool, err error) {
	switch strings.ToLower(dir) {
	case "", "desc":
		return true, nil
	case "asc":
		return false, nil
	default:
		return false, apperr.BadRequest("Sort direction must be asc or desc")
	}
}
