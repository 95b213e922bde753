// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package comment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/database/schema"
	"github.com/trananhvu/vidora/internal/platform/dberr"
	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// # PostgreSQL Repository

// commentRepository implements [CommentRepository] using pgx.
type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository constructs a PostgreSQL backed comment store.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

// authorLookupExpr attaches the author's public fields as a JSON object.
var authorLookupExpr = fmt.Sprintf(
	`(SELECT json_build_object('id', a.%s, 'username', a.%s, 'avatar_url', a.%s) FROM %s a WHERE a.%s = c.%s)`,
	schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.AvatarURL,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.UserID,
)

/*
ListByVideo pages through a video's live comments, newest first.

Parameters:
  - context: context.Context
  - videoID: string
  - params: pagination.Params

Returns:
  - *pipeline.Page[*Comment]: Items with authors attached
  - error: Query or scan failures
*/
func (repository *commentRepository) ListByVideo(context context.Context, videoID string, params pagination.Params) (*pipeline.Page[*Comment], error) {
	listing := pipeline.New().
		Match("c."+schema.SocialComment.VideoID+" = ?", videoID).
		Match("NOT c." + schema.SocialComment.IsDeleted).
		Sort("c."+schema.SocialComment.CreatedAt, true).
		Lookup(authorLookupExpr, "author")

	columns := []string{
		"c." + schema.SocialComment.ID,
		"c." + schema.SocialComment.VideoID,
		"c." + schema.SocialComment.UserID,
		"c." + schema.SocialComment.Content,
		"c." + schema.SocialComment.CreatedAt,
		"c." + schema.SocialComment.UpdatedAt,
	}

	return pipeline.Execute(context, repository.pool, listing, schema.SocialComment.Table+" c", columns, params,
		func(rows pgx.Rows) (*Comment, error) {
			comment := &Comment{}
			author := &Author{}
			err := rows.Scan(
				&comment.ID,
				&comment.VideoID,
				&comment.UserID,
				&comment.Content,
				&comment.CreatedAt,
				&comment.UpdatedAt,
				author,
			)
			comment.Author = author
			return comment, err
		})
}

/*
FindByID retrieves a single live comment.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Comment: The entity
  - error: apperr.NotFound or execution failures
*/
func (repository *commentRepository) FindByID(context context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND NOT %s`,
		schema.SocialComment.ID, schema.SocialComment.VideoID, schema.SocialComment.UserID,
		schema.SocialComment.Content, schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
		schema.SocialComment.Table,
		schema.SocialComment.ID, schema.SocialComment.IsDeleted,
	)

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_repo_find_failed: %w", err)
	}

	return comment, nil
}

/*
Create persists a new comment row.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Mapped constraint violations or execution failures
*/
func (repository *commentRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s, %s`,
		schema.SocialComment.Table,
		schema.SocialComment.ID, schema.SocialComment.VideoID, schema.SocialComment.UserID,
		schema.SocialComment.Content, schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
		schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		comment.ID,
		comment.VideoID,
		comment.UserID,
		comment.Content,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "comment create")
	}

	return nil
}

/*
UpdateContent replaces a comment's body.

Parameters:
  - context: context.Context
  - id: string
  - content: string

Returns:
  - error: apperr.NotFound when the comment is gone, or execution failures
*/
func (repository *commentRepository) UpdateContent(context context.Context, id, content string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1 AND NOT %s`,
		schema.SocialComment.Table,
		schema.SocialComment.Content, schema.SocialComment.UpdatedAt,
		schema.SocialComment.ID, schema.SocialComment.IsDeleted,
	)

	tag, err := repository.pool.Exec(context, query, id, content)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

/*
SoftDelete flags a comment as deleted. Idempotent.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *commentRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		schema.SocialComment.Table,
		schema.SocialComment.IsDeleted, schema.SocialComment.UpdatedAt,
		schema.SocialComment.ID,
	)

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return fmt.Errorf("postgres_comment_repo_soft_delete_failed: %w", err)
	}
	return nil
}
