// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

/*
Package video implements the platform's video catalogue.

It covers the full lifecycle of a video: publishing, metadata updates,
visibility toggling, soft deletion, view recording, and the paginated
discovery listing that powers the home page, channel pages, and search.

# Architecture

  - Listing: A declarative query pipeline (search, visibility, sort, owner
    enrichment) compiled and executed by the platform pipeline package.
  - Detail: Single-row lookups enriched with like and comment counters.
  - Views: First watch per (user, video) increments the counter; re-watches
    only refresh the history timestamp.
*/
package video

import (
	"context"
	"time"

	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// # Domain Entities

// Owner is the public slice of a video's owner embedded in listings and
// detail payloads. It never carries private account fields.
type Owner struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// Video is the catalogue entity.
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Slug         string    `json:"slug"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Duration     int       `json:"duration"` // seconds
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Owner is populated by listing and detail queries.
	Owner *Owner `json:"owner,omitempty"`

	// LikeCount and CommentCount are populated on detail lookups only.
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
}

// # Field Name Constants

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldVideoURL    = "video_url"
	FieldThumbnail   = "thumbnail_url"
	FieldDuration    = "duration"
	FieldSort        = "sort"
	FieldOwnerID     = "owner_id"
)

// # Repository Contracts

// VideoRepository defines the persistence contract for the catalogue.
type VideoRepository interface {
	/*
		List returns one page of listing rows for a compiled pipeline.

		Parameters:
		  - context: context.Context
		  - listing: pipeline.Pipeline (built by BuildListPipeline)
		  - params: pagination.Params

		Returns:
		  - *pipeline.Page[*Video]: Items with owners attached, plus metadata
		  - error: Query failures
	*/
	List(context context.Context, listing pipeline.Pipeline, params pagination.Params) (*pipeline.Page[*Video], error)

	/*
		FindByID retrieves a video with owner and counters attached.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Video: Hydrated entity (including soft-deleted state checks)
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Video, error)

	/*
		FindBySlug is the slug variant of FindByID.
	*/
	FindBySlug(context context.Context, slug string) (*Video, error)

	/*
		Create persists a new video row.

		Returns:
		  - error: apperr.Conflict on slug collision, or storage failures
	*/
	Create(context context.Context, video *Video) error

	/*
		Update syncs the mutable metadata fields (title, description,
		thumbnail, published flag) and the search vector source columns.
	*/
	Update(context context.Context, video *Video) error

	/*
		SoftDelete flags the video as deleted. Listings and lookups skip it
		from that point on.
	*/
	SoftDelete(context context.Context, id string) error

	/*
		RecordView upserts the (user, video) watch-history row and bumps the
		view counter when this is the user's first watch.

		Returns:
		  - bool: True when the view counter was incremented
		  - error: Storage failures
	*/
	RecordView(context context.Context, userID, videoID string) (bool, error)
}
