// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package video

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/database/schema"
	"github.com/trananhvu/vidora/internal/platform/dberr"
	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/pkg/pagination"
	"github.com/trananhvu/vidora/pkg/uuidv7"
)

// # PostgreSQL Repository

// videoRepository implements [VideoRepository] using pgx.
//
// # Schema Table Mapping
//   - core.video: Catalogue rows with a generated tsvector search column.
//   - social.like / social.comment: Counter sources for detail lookups.
//   - library.watchhistory: One row per (user, video), upserted on watch.
type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository constructs a PostgreSQL backed video store.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

// listingFrom aliases the catalogue table for pipeline compilation.
var listingFrom = schema.CoreVideo.Table + " v"

// listingColumns is the base select-list for listing rows; lookup stages
// append their JSON projections after these.
var listingColumns = []string{
	"v." + schema.CoreVideo.ID,
	"v." + schema.CoreVideo.OwnerID,
	"v." + schema.CoreVideo.Title,
	"v." + schema.CoreVideo.Description,
	"v." + schema.CoreVideo.Slug,
	"v." + schema.CoreVideo.VideoURL,
	"v." + schema.CoreVideo.ThumbnailURL,
	"v." + schema.CoreVideo.Duration,
	"v." + schema.CoreVideo.Views,
	"v." + schema.CoreVideo.IsPublished,
	"v." + schema.CoreVideo.CreatedAt,
	"v." + schema.CoreVideo.UpdatedAt,
}

/*
List executes a discovery pipeline and returns one page of videos.

Parameters:
  - context: context.Context
  - listing: pipeline.Pipeline
  - params: pagination.Params

Returns:
  - *pipeline.Page[*Video]: Items with owners attached, plus metadata
  - error: Query or scan failures
*/
func (repository *videoRepository) List(context context.Context, listing pipeline.Pipeline, params pagination.Params) (*pipeline.Page[*Video], error) {
	return pipeline.Execute(context, repository.pool, listing, listingFrom, listingColumns, params,
		func(rows pgx.Rows) (*Video, error) {
			video := &Video{}
			owner := &Owner{}
			err := rows.Scan(
				&video.ID,
				&video.OwnerID,
				&video.Title,
				&video.Description,
				&video.Slug,
				&video.VideoURL,
				&video.ThumbnailURL,
				&video.Duration,
				&video.Views,
				&video.IsPublished,
				&video.CreatedAt,
				&video.UpdatedAt,
				owner,
			)
			video.Owner = owner
			return video, err
		})
}

// # Detail Lookups

/*
FindByID retrieves one video with its owner and engagement counters.

Description: The counters and the owner projection are correlated
sub-queries, so the full detail payload is a single round-trip.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Video: Hydrated entity
  - error: apperr.NotFound or execution failures
*/
func (repository *videoRepository) FindByID(context context.Context, id string) (*Video, error) {
	return repository.findOne(context, "v."+schema.CoreVideo.ID, id)
}

// FindBySlug is the slug variant of [videoRepository.FindByID].
func (repository *videoRepository) FindBySlug(context context.Context, slug string) (*Video, error) {
	return repository.findOne(context, "v."+schema.CoreVideo.Slug, slug)
}

func (repository *videoRepository) findOne(context context.Context, column, value string) (*Video, error) {
	query := fmt.Sprintf(`
		SELECT
			v.%s, v.%s, v.%s, v.%s, v.%s, v.%s,
			v.%s, v.%s, v.%s, v.%s, v.%s, v.%s,
			(SELECT COUNT(*) FROM %s l WHERE l.%s = v.%s) AS like_count,
			(SELECT COUNT(*) FROM %s c WHERE c.%s = v.%s AND NOT c.%s) AS comment_count,
			(SELECT json_build_object('id', a.%s, 'username', a.%s, 'full_name', a.%s, 'avatar_url', a.%s)
			 FROM %s a WHERE a.%s = v.%s) AS owner
		FROM %s v
		WHERE %s = $1 AND v.%s IS NULL`,
		schema.CoreVideo.ID, schema.CoreVideo.OwnerID, schema.CoreVideo.Title,
		schema.CoreVideo.Description, schema.CoreVideo.Slug, schema.CoreVideo.VideoURL,
		schema.CoreVideo.ThumbnailURL, schema.CoreVideo.Duration, schema.CoreVideo.Views,
		schema.CoreVideo.IsPublished, schema.CoreVideo.CreatedAt, schema.CoreVideo.UpdatedAt,
		schema.SocialLike.Table, schema.SocialLike.VideoID, schema.CoreVideo.ID,
		schema.SocialComment.Table, schema.SocialComment.VideoID, schema.CoreVideo.ID, schema.SocialComment.IsDeleted,
		schema.UserAccount.ID, schema.UserAccount.Username,
		schema.UserAccount.FullName, schema.UserAccount.AvatarURL,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.CoreVideo.OwnerID,
		schema.CoreVideo.Table,
		column, schema.CoreVideo.DeletedAt,
	)

	video := &Video{}
	owner := &Owner{}
	err := repository.pool.QueryRow(context, query, value).Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Description,
		&video.Slug,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.Duration,
		&video.Views,
		&video.IsPublished,
		&video.CreatedAt,
		&video.UpdatedAt,
		&video.LikeCount,
		&video.CommentCount,
		owner,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Video")
		}
		return nil, fmt.Errorf("postgres_video_repo_find_failed: %w", err)
	}

	video.Owner = owner
	return video, nil
}

// # Mutations

/*
Create persists a new video row.

Description: The search vector is a generated column fed by title and
description; the insert never touches it.

Parameters:
  - context: context.Context
  - video: *Video

Returns:
  - error: apperr.Conflict on slug collision, or execution failures
*/
func (repository *videoRepository) Create(context context.Context, video *Video) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		schema.CoreVideo.Table,
		schema.CoreVideo.ID, schema.CoreVideo.OwnerID, schema.CoreVideo.Title,
		schema.CoreVideo.Description, schema.CoreVideo.Slug, schema.CoreVideo.VideoURL,
		schema.CoreVideo.ThumbnailURL, schema.CoreVideo.Duration,
		schema.CoreVideo.IsPublished, schema.CoreVideo.CreatedAt, schema.CoreVideo.UpdatedAt,
	)

	now := time.Now()
	video.CreatedAt = now
	video.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.Slug,
		video.VideoURL,
		video.ThumbnailURL,
		video.Duration,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "video create")
	}

	return nil
}

/*
Update syncs the mutable metadata fields of an existing video.

Parameters:
  - context: context.Context
  - video: *Video

Returns:
  - error: apperr.NotFound when the row is gone, or execution failures
*/
func (repository *videoRepository) Update(context context.Context, video *Video) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6
		WHERE %s = $1 AND %s IS NULL`,
		schema.CoreVideo.Table,
		schema.CoreVideo.Title, schema.CoreVideo.Description,
		schema.CoreVideo.ThumbnailURL, schema.CoreVideo.IsPublished,
		schema.CoreVideo.UpdatedAt,
		schema.CoreVideo.ID, schema.CoreVideo.DeletedAt,
	)

	video.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		video.ID,
		video.Title,
		video.Description,
		video.ThumbnailURL,
		video.IsPublished,
		video.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "video update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Video")
	}

	return nil
}

/*
SoftDelete flags a video as logically removed. Idempotent.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *videoRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.CoreVideo.Table, schema.CoreVideo.DeletedAt,
		schema.CoreVideo.ID, schema.CoreVideo.DeletedAt)

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return fmt.Errorf("postgres_video_repo_soft_delete_failed: %w", err)
	}
	return nil
}

/*
RecordView upserts the watch-history row and bumps the view counter once.

Description: Runs inside a transaction. The upsert's RETURNING (xmax = 0)
reports whether the row was freshly inserted; only a first watch increments
core.video.views. Re-watches just refresh the history timestamp.

Parameters:
  - context: context.Context
  - userID: string
  - videoID: string

Returns:
  - bool: True when the view counter was incremented
  - error: Execution failures
*/
func (repository *videoRepository) RecordView(context context.Context, userID, videoID string) (bool, error) {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return false, fmt.Errorf("postgres_video_repo_record_view_begin_failed: %w", err)
	}
	defer tx.Rollback(context)

	upsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s, %s) DO UPDATE SET %s = NOW()
		RETURNING (xmax = 0)`,
		schema.LibraryWatchHistory.Table,
		schema.LibraryWatchHistory.ID, schema.LibraryWatchHistory.UserID,
		schema.LibraryWatchHistory.VideoID, schema.LibraryWatchHistory.WatchedAt,
		schema.LibraryWatchHistory.UserID, schema.LibraryWatchHistory.VideoID,
		schema.LibraryWatchHistory.WatchedAt,
	)

	var firstWatch bool
	if err := tx.QueryRow(context, upsert, uuidv7.New(), userID, videoID).Scan(&firstWatch); err != nil {
		return false, dberr.Wrap(err, "video record view")
	}

	if firstWatch {
		bump := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
			schema.CoreVideo.Table, schema.CoreVideo.Views,
			schema.CoreVideo.Views, schema.CoreVideo.ID)
		if _, err := tx.Exec(context, bump, videoID); err != nil {
			return false, fmt.Errorf("postgres_video_repo_bump_views_failed: %w", err)
		}
	}

	if err := tx.Commit(context); err != nil {
		return false, fmt.Errorf("postgres_video_repo_record_view_commit_failed: %w", err)
	}

	return firstWatch, nil
}
