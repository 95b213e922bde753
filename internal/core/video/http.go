// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package video

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trananhvu/vidora/internal/platform/middleware"
	requestutil "github.com/trananhvu/vidora/internal/platform/request"
	"github.com/trananhvu/vidora/internal/platform/respond"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// Handler implements the HTTP layer for the video catalogue.
type Handler struct {
	videoService *Service
}

// NewHandler constructs a new video [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{videoService: service}
}

// Routes returns a [chi.Router] configured with the catalogue endpoints.
//
// # Endpoints
//   - GET    /            : Paginated discovery listing (search, channel, sort).
//   - GET    /{id}        : Detail by UUID or slug, with counters.
//   - POST   /            : Publish a new video.
//   - PATCH  /{id}        : Partial metadata update (owner only).
//   - DELETE /{id}        : Soft delete (owner only).
//   - POST   /{id}/publish: Toggle draft/live (owner only).
//   - POST   /{id}/view   : Record a watch event.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public catalogue surface
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	// Creator surface
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.publish)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
		r.Post("/{id}/publish", handler.togglePublish)
		r.Post("/{id}/view", handler.recordView)
	})

	return router
}

// # Request Payloads

type publishRequest struct {
	Title               string `json:"title"`
	Description         string `json:"description"`
	VideoStorageKey     string `json:"video_storage_key"`
	ThumbnailStorageKey string `json:"thumbnail_storage_key"`
	Duration            int    `json:"duration"`
	Publish             bool   `json:"publish"`
}

type updateRequest struct {
	Title               *string `json:"title"`
	Description         *string `json:"description"`
	ThumbnailStorageKey *string `json:"thumbnail_storage_key"`
}

// # Discovery Endpoints

/*
GET /api/v1/videos.

Description: Paginated discovery listing. Anonymous callers see published
videos; a channel owner listing their own channel also sees drafts.

Request:
  - query: q (search), owner_id (channel filter),
    sort_by (created_at|views|title|duration), sort_dir (asc|desc),
    page, limit

Response:
  - 200: Paginated []Video with owners attached
  - 400: ErrBadRequest: Malformed owner_id, sort_by, or sort_dir
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	input := ListInput{
		Query:   request.URL.Query().Get("q"),
		OwnerID: request.URL.Query().Get("owner_id"),
		SortBy:  request.URL.Query().Get("sort_by"),
		SortDir: request.URL.Query().Get("sort_dir"),
	}

	page, err := handler.videoService.List(request.Context(), input, viewerID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Items, page.Meta)
}

/*
GET /api/v1/videos/{id}.

Description: Detail lookup by UUID or slug, with like and comment counters
and the owner's public profile. Drafts resolve for their owner only.

Response:
  - 200: Video: Hydrated entity
  - 404: ErrNotFound: Missing, deleted, or draft video
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	video, err := handler.videoService.Get(request.Context(), chi.URLParam(request, "id"), viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

// # Creator Endpoints

/*
POST /api/v1/videos.

Description: Publishes a new video. The blob and thumbnail must already be
uploaded through the media endpoint; the payload references their keys.

Request:
  - body: publishRequest

Response:
  - 201: Video: The created entity
  - 400: Validation: Invalid metadata
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: Slug collision
*/
func (handler *Handler) publish(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input publishRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.videoService.Publish(request.Context(), userID, PublishInput{
		Title:               input.Title,
		Description:         input.Description,
		VideoStorageKey:     input.VideoStorageKey,
		ThumbnailStorageKey: input.ThumbnailStorageKey,
		Duration:            input.Duration,
		Publish:             input.Publish,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, video)
}

/*
PATCH /api/v1/videos/{id}.

Description: Applies partial metadata changes to an owned video.

Request:
  - body: updateRequest (Partial JSON)

Response:
  - 200: Video: The updated entity
  - 403: ErrForbidden: Caller does not own the video
  - 404: ErrNotFound: No such video
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.videoService.Update(request.Context(), chi.URLParam(request, "id"), userID, UpdateInput{
		Title:               input.Title,
		Description:         input.Description,
		ThumbnailStorageKey: input.ThumbnailStorageKey,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

/*
DELETE /api/v1/videos/{id}.

Description: Soft-deletes an owned video.

Response:
  - 204: No Content
  - 403: ErrForbidden: Caller does not own the video
  - 404: ErrNotFound: No such video
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.videoService.Delete(request.Context(), chi.URLParam(request, "id"), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/videos/{id}/publish.

Description: Toggles an owned video between draft and live.

Response:
  - 200: Video: The entity with its new publish state
  - 403: ErrForbidden: Caller does not own the video
  - 404: ErrNotFound: No such video
*/
func (handler *Handler) togglePublish(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.videoService.TogglePublish(request.Context(), chi.URLParam(request, "id"), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

/*
POST /api/v1/videos/{id}/view.

Description: Records a watch event for the caller. The first watch of a
video bumps its view counter; re-watches refresh the history timestamp.

Response:
  - 200: {counted: bool}: Whether the view counter moved
  - 404: ErrNotFound: No such video
*/
func (handler *Handler) recordView(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	counted, err := handler.videoService.RecordView(request.Context(), chi.URLParam(request, "id"), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"counted": counted})
}
