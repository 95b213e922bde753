// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trananhvu/vidora/internal/platform/middleware"
	requestutil "github.com/trananhvu/vidora/internal/platform/request"
	"github.com/trananhvu/vidora/internal/platform/respond"
	"github.com/trananhvu/vidora/internal/platform/validate"
	"github.com/trananhvu/vidora/internal/users/auth"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// Handler implements the HTTP layer for profiles, channels, and history.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
//
// # Endpoints
//   - GET   /channel/{handle} : Public channel page.
//   - GET   /me               : Private profile of the caller.
//   - PATCH /me               : Partial profile update.
//   - PATCH /me/avatar        : Swap the avatar image.
//   - PATCH /me/cover         : Swap the channel cover image.
//   - GET   /me/history       : Paginated watch history.
//   - DELETE /me              : Soft-delete the account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public channel discovery (the flag in the payload reflects the viewer
	// when a valid token is present).
	router.Get("/channel/{handle}", handler.getChannel)

	// Private account surface
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
		r.Patch("/me/avatar", handler.updateAvatar)
		r.Patch("/me/cover", handler.updateCover)
		r.Get("/me/history", handler.listHistory)
		r.Delete("/me", handler.deleteMe)
	})

	return router
}

// # Request Payloads

type updateMeRequest struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
}

type updateImageRequest struct {
	StorageKey string `json:"storage_key"`
}

// # Profile Endpoints

/*
GET /api/v1/users/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/me.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.FullName != nil {
		v.MaxLen("full_name", *input.FullName, 100)
	}
	if input.Bio != nil {
		v.MaxLen("bio", *input.Bio, 1000)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		FullName: input.FullName,
		Bio:      input.Bio,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/me/avatar.

Description: Points the avatar at an object already uploaded through the
media endpoint.

Request:
  - body: updateImageRequest {storage_key}

Response:
  - 200: User: The updated profile
  - 400: Validation: Missing storage key
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.updateImage(writer, request, handler.accountService.UpdateAvatar)
}

/*
PATCH /api/v1/users/me/cover.

Description: Points the channel cover at an uploaded object. Same contract
as the avatar endpoint.
*/
func (handler *Handler) updateCover(writer http.ResponseWriter, request *http.Request) {
	handler.updateImage(writer, request, handler.accountService.UpdateCover)
}

// updateImage is the shared body of the avatar and cover endpoints.
func (handler *Handler) updateImage(
	writer http.ResponseWriter,
	request *http.Request,
	apply func(ctx context.Context, userID, storageKey string) (*auth.User, error),
) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateImageRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("storage_key", input.StorageKey).MaxLen("storage_key", input.StorageKey, 512)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := apply(request.Context(), userID, input.StorageKey)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/me.

Description: Performs a soft-deletion of the authenticated user's account
and ends the active session.

Response:
  - 204: No Content: Account deleted successfully
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Channel Endpoints

/*
GET /api/v1/users/channel/{handle}.

Description: Retrieves the public channel page for a handle, including
subscriber, subscription, and video counters. When the request carries a
valid token, is_subscribed reflects the viewer.

Request:
  - handle: string (Channel username)

Response:
  - 200: ChannelProfile: Public channel page
  - 404: ErrNotFound: No such channel
*/
func (handler *Handler) getChannel(writer http.ResponseWriter, request *http.Request) {
	handle := chi.URLParam(request, "handle")

	// Anonymous viewers simply get is_subscribed = false.
	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	profile, err := handler.accountService.GetChannelProfile(request.Context(), handle, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// # Watch History Endpoints

/*
GET /api/v1/users/me/history.

Description: Pages through the caller's watch history, newest first. Each
entry embeds the video and its owner's public fields.

Request:
  - query: page, limit

Response:
  - 200: Paginated []WatchEntry
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.accountService.ListWatchHistory(request.Context(), userID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Items, page.Meta)
}
