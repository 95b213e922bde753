// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package comment

import (
	"context"
	"log/slog"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/internal/platform/validate"
	"github.com/trananhvu/vidora/pkg/pagination"
	"github.com/trananhvu/vidora/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates comment business logic.
type Service struct {
	commentRepository CommentRepository
	logger            *slog.Logger
}

// NewService constructs a new comment [Service].
func NewService(commentRepo CommentRepository, logger *slog.Logger) *Service {
	return &Service{
		commentRepository: commentRepo,
		logger:            logger,
	}
}

/*
List returns one page of a video's comments, newest first.

Parameters:
  - context: context.Context
  - videoID: string
  - params: pagination.Params

Returns:
  - *pipeline.Page[*Comment]: Author-enriched items plus metadata
  - error: Repository failures
*/
func (service *Service) List(context context.Context, videoID string, params pagination.Params) (*pipeline.Page[*Comment], error) {
	return service.commentRepository.ListByVideo(context, videoID, params)
}

/*
Add posts a new comment on a video.

Description: Validates the body and persists. A comment on a missing video
fails on the foreign key, which the storage bridge surfaces as a validation
error.

Parameters:
  - context: context.Context
  - videoID: string
  - userID: string
  - content: string

Returns:
  - *Comment: The created comment
  - error: Validation or storage failures
*/
func (service *Service) Add(context context.Context, videoID, userID, content string) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required(FieldContent, content).MaxLen(FieldContent, content, MaxContentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:      uuidv7.New(),
		VideoID: videoID,
		UserID:  userID,
		Content: content,
	}

	if err := service.commentRepository.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_added",
		slog.String("comment_id", comment.ID),
		slog.String("video_id", videoID),
	)

	return comment, nil
}

/*
Update replaces the body of the caller's own comment.

Parameters:
  - context: context.Context
  - commentID: string
  - userID: string (Must match the comment's author)
  - content: string

Returns:
  - *Comment: The updated comment
  - error: apperr.NotFound, apperr.Forbidden, validation, or storage failures
*/
func (service *Service) Update(context context.Context, commentID, userID, content string) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required(FieldContent, content).MaxLen(FieldContent, content, MaxContentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment, err := service.ownedComment(context, commentID, userID)
	if err != nil {
		return nil, err
	}

	if err := service.commentRepository.UpdateContent(context, commentID, content); err != nil {
		return nil, err
	}

	comment.Content = content
	return comment, nil
}

/*
Delete soft-deletes the caller's own comment.

Parameters:
  - context: context.Context
  - commentID: string
  - userID: string

Returns:
  - error: apperr.NotFound, apperr.Forbidden, or storage failures
*/
func (service *Service) Delete(context context.Context, commentID, userID string) error {
	if _, err := service.ownedComment(context, commentID, userID); err != nil {
		return err
	}

	if err := service.commentRepository.SoftDelete(context, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted", slog.String("comment_id", commentID))

	return nil
}

// ownedComment loads a comment and enforces the author guard.
func (service *Service) ownedComment(context context.Context, commentID, userID string) (*Comment, error) {
	comment, err := service.commentRepository.FindByID(context, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, apperr.Forbidden("You do not own this comment")
	}
	return comment, nil
}
