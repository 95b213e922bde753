// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trananhvu/vidora/internal/platform/middleware"
	requestutil "github.com/trananhvu/vidora/internal/platform/request"
	"github.com/trananhvu/vidora/internal/platform/respond"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// Handler implements the HTTP layer for video comments.
//
// The router is mounted under /videos/{id}/comments, so the video ID comes
// from the parent route's "id" parameter.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// Routes returns a [chi.Router] for the comment endpoints.
//
// # Endpoints
//   - GET    /             : Paginated comment listing for the video.
//   - POST   /             : Post a comment.
//   - PATCH  /{commentID}  : Edit own comment.
//   - DELETE /{commentID}  : Delete own comment.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.add)
		r.Patch("/{commentID}", handler.update)
		r.Delete("/{commentID}", handler.delete)
	})

	return router
}

// # Request Payloads

type commentRequest struct {
	Content string `json:"content"`
}

// # Endpoints

/*
GET /api/v1/videos/{id}/comments.

Description: Pages through a video's live comments, newest first, with each
author's public profile attached.

Request:
  - query: page, limit

Response:
  - 200: Paginated []Comment
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	videoID := chi.URLParam(request, "id")

	page, err := handler.commentService.List(request.Context(), videoID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Items, page.Meta)
}

/*
POST /api/v1/videos/{id}/comments.

Description: Posts a comment on the video as the authenticated caller.

Request:
  - body: commentRequest {content}

Response:
  - 201: Comment: The created comment
  - 400: Validation: Empty or oversized content, or missing video
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) add(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Add(request.Context(), chi.URLParam(request, "id"), userID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
PATCH /api/v1/videos/{id}/comments/{commentID}.

Description: Replaces the body of the caller's own comment.

Response:
  - 200: Comment: The updated comment
  - 403: ErrForbidden: Caller is not the author
  - 404: ErrNotFound: No such comment
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Update(request.Context(), chi.URLParam(request, "commentID"), userID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
DELETE /api/v1/videos/{id}/comments/{commentID}.

Description: Soft-deletes the caller's own comment.

Response:
  - 204: No Content
  - 403: ErrForbidden: Caller is not the author
  - 404: ErrNotFound: No such comment
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.commentService.Delete(request.Context(), chi.URLParam(request, "commentID"), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
