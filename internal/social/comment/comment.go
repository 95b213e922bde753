// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

/*
Package comment implements threadless video comments.

Comments are flat per video, listed newest first with the author's public
profile attached. Deletion is logical (isdeleted flag) so counters and
moderation trails stay intact.
*/
package comment

import (
	"context"
	"time"

	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// # Domain Entities

// Author is the public slice of a comment's author.
type Author struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// Comment is one comment on a video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author is populated by listing queries.
	Author *Author `json:"author,omitempty"`
}

// FieldContent names the content field in validation errors.
const FieldContent = "content"

// MaxContentLength caps a single comment.
const MaxContentLength = 2000

// # Repository Contract

// CommentRepository defines the persistence contract for comments.
type CommentRepository interface {
	/*
		ListByVideo returns one page of live comments, newest first, with
		authors attached.

		Parameters:
		  - context: context.Context
		  - videoID: string
		  - params: pagination.Params

		Returns:
		  - *pipeline.Page[*Comment]: Items plus metadata
		  - error: Query failures
	*/
	ListByVideo(context context.Context, videoID string, params pagination.Params) (*pipeline.Page[*Comment], error)

	/*
		FindByID retrieves a single live comment.

		Returns:
		  - *Comment: The entity (no author attached)
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Comment, error)

	/*
		Create persists a new comment.

		Returns:
		  - error: apperr.ValidationError when the video is gone (FK), or
		    storage failures
	*/
	Create(context context.Context, comment *Comment) error

	/*
		UpdateContent replaces the comment body and bumps updatedat.
	*/
	UpdateContent(context context.Context, id, content string) error

	/*
		SoftDelete flags the comment as deleted. Idempotent.
	*/
	SoftDelete(context context.Context, id string) error
}
