// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package video

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/internal/platform/validate"
	"github.com/trananhvu/vidora/pkg/pagination"
	"github.com/trananhvu/vidora/pkg/pointer"
	"github.com/trananhvu/vidora/pkg/slug"
	"github.com/trananhvu/vidora/pkg/uuidv7"
)

// # Service Layer

// MediaResolver turns an object-storage key into its public URL.
type MediaResolver interface {
	PublicURL(storageKey string) string
}

// Service orchestrates the business logic for the video catalogue.
type Service struct {
	videoRepository VideoRepository
	mediaResolver   MediaResolver
	logger          *slog.Logger
}

// NewService constructs a new video [Service].
func NewService(videoRepo VideoRepository, media MediaResolver, logger *slog.Logger) *Service {
	return &Service{
		videoRepository: videoRepo,
		mediaResolver:   media,
		logger:          logger,
	}
}

// # Discovery

// ListInput carries the raw discovery filters from the transport layer.
type ListInput struct {
	Query   string
	OwnerID string
	SortBy  string
	SortDir string
}

/*
List retrieves one page of the catalogue.

Description: Builds the listing pipeline from the input and the viewer.
Drafts are included only when the listing is scoped to the viewer's own
channel; every other combination sees published videos exclusively.

Parameters:
  - context: context.Context
  - input: ListInput
  - viewerID: string (Empty for anonymous viewers)
  - params: pagination.Params

Returns:
  - *pipeline.Page[*Video]: One page plus metadata
  - error: apperr.BadRequest for invalid filters, or repository failures
*/
func (service *Service) List(context context.Context, input ListInput, viewerID string, params pagination.Params) (*pipeline.Page[*Video], error) {
	listing, err := BuildListPipeline(ListParams{
		Query:              input.Query,
		OwnerID:            input.OwnerID,
		SortBy:             input.SortBy,
		SortDir:            input.SortDir,
		IncludeUnpublished: input.OwnerID != "" && input.OwnerID == viewerID,
	})
	if err != nil {
		return nil, err
	}

	return service.videoRepository.List(context, listing, params)
}

/*
Get fetches a single video by UUID or SEO slug.

Description: Unpublished videos are visible to their owner only; everyone
else gets the same 404 as for a missing video, so drafts are not
discoverable by probing.

Parameters:
  - context: context.Context
  - identifier: string (UUID or slug)
  - viewerID: string

Returns:
  - *Video: Hydrated entity with counters and owner
  - error: apperr.NotFound or repository failures
*/
func (service *Service) Get(context context.Context, identifier, viewerID string) (*Video, error) {
	var (
		video *Video
		err   error
	)

	// Identity format detection
	if _, parseErr := uuid.Parse(identifier); parseErr == nil {
		video, err = service.videoRepository.FindByID(context, identifier)
	} else {
		video, err = service.videoRepository.FindBySlug(context, identifier)
	}
	if err != nil {
		return nil, err
	}

	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, apperr.NotFound("Video")
	}

	return video, nil
}

// # Publishing

// PublishInput holds the data required to publish a new video.
// Storage keys reference objects already uploaded through the media endpoint.
type PublishInput struct {
	Title               string
	Description         string
	VideoStorageKey     string
	ThumbnailStorageKey string
	Duration            int
	Publish             bool
}

/*
Publish creates a new catalogue entry for the owner.

Description: Validates the metadata, mints a UUIDv7 identity, derives a
unique SEO slug from the title, resolves the storage keys to public URLs,
and persists the row. The entry goes live immediately when Publish is set;
otherwise it stays a draft visible to the owner only.

Parameters:
  - context: context.Context
  - ownerID: string
  - input: PublishInput

Returns:
  - *Video: The created entity
  - error: Validation, conflict, or storage failures
*/
func (service *Service) Publish(context context.Context, ownerID string, input PublishInput) (*Video, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 200)
	validator.MaxLen(FieldDescription, input.Description, 5000)
	validator.Required(FieldVideoURL, input.VideoStorageKey)
	validator.Custom(FieldDuration, input.Duration < 0, "must not be negative")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	id := uuidv7.New()

	video := &Video{
		ID:          id,
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		// Slug suffix keeps same-title uploads from colliding.
		Slug:         slug.From(input.Title) + "-" + id[:8],
		VideoURL:     service.mediaResolver.PublicURL(input.VideoStorageKey),
		Duration:     input.Duration,
		IsPublished:  input.Publish,
	}
	if input.ThumbnailStorageKey != "" {
		video.ThumbnailURL = service.mediaResolver.PublicURL(input.ThumbnailStorageKey)
	}

	if err := service.videoRepository.Create(context, video); err != nil {
		return nil, err
	}

	service.logger.Info("video_published",
		slog.String("video_id", video.ID),
		slog.String("owner_id", ownerID),
		slog.Bool("live", video.IsPublished),
	)

	return video, nil
}

// UpdateInput defines the mutable subset of video metadata.
// Nil fields are left untouched.
type UpdateInput struct {
	Title               *string
	Description         *string
	ThumbnailStorageKey *string
}

/*
Update applies partial metadata changes to an owned video.

Parameters:
  - context: context.Context
  - videoID: string
  - ownerID: string (Must match the video's owner)
  - input: UpdateInput

Returns:
  - *Video: The updated entity
  - error: apperr.NotFound, apperr.Forbidden, validation, or storage failures
*/
func (service *Service) Update(context context.Context, videoID, ownerID string, input UpdateInput) (*Video, error) {
	video, err := service.ownedVideo(context, videoID, ownerID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 200)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, 5000)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	video.Title = pointer.Fallback(input.Title, video.Title)
	video.Description = pointer.Fallback(input.Description, video.Description)
	if input.ThumbnailStorageKey != nil {
		video.ThumbnailURL = service.mediaResolver.PublicURL(*input.ThumbnailStorageKey)
	}

	if err := service.videoRepository.Update(context, video); err != nil {
		return nil, err
	}

	return video, nil
}

/*
TogglePublish flips a video between draft and live.

Parameters:
  - context: context.Context
  - videoID: string
  - ownerID: string

Returns:
  - *Video: The entity with its new state
  - error: apperr.NotFound, apperr.Forbidden, or storage failures
*/
func (service *Service) TogglePublish(context context.Context, videoID, ownerID string) (*Video, error) {
	video, err := service.ownedVideo(context, videoID, ownerID)
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := service.videoRepository.Update(context, video); err != nil {
		return nil, err
	}

	service.logger.Info("video_publish_toggled",
		slog.String("video_id", videoID),
		slog.Bool("live", video.IsPublished),
	)

	return video, nil
}

/*
Delete soft-deletes an owned video.

Parameters:
  - context: context.Context
  - videoID: string
  - ownerID: string

Returns:
  - error: apperr.NotFound, apperr.Forbidden, or storage failures
*/
func (service *Service) Delete(context context.Context, videoID, ownerID string) error {
	if _, err := service.ownedVideo(context, videoID, ownerID); err != nil {
		return err
	}

	if err := service.videoRepository.SoftDelete(context, videoID); err != nil {
		return err
	}

	service.logger.Warn("video_deleted",
		slog.String("video_id", videoID),
		slog.String("owner_id", ownerID),
	)

	return nil
}

// ownedVideo loads a video and enforces the author guard.
func (service *Service) ownedVideo(context context.Context, videoID, ownerID string) (*Video, error) {
	video, err := service.videoRepository.FindByID(context, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != ownerID {
		return nil, apperr.Forbidden("You do not own this video")
	}
	return video, nil
}

// # View Recording

/*
RecordView registers a watch event for the viewer.

Description: The view counter moves only on the viewer's first watch of the
video; later watches just refresh the watch-history timestamp. Drafts accept
views from their owner only (preview playback).

Parameters:
  - context: context.Context
  - videoID: string
  - viewerID: string

Returns:
  - bool: True when the view counter was incremented
  - error: apperr.NotFound or storage failures
*/
func (service *Service) RecordView(context context.Context, videoID, viewerID string) (bool, error) {
	video, err := service.videoRepository.FindByID(context, videoID)
	if err != nil {
		return false, err
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return false, apperr.NotFound("Video")
	}

	return service.videoRepository.RecordView(context, viewerID, video.ID)
}
