// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trananhvu/vidora/internal/platform/middleware"
	requestutil "github.com/trananhvu/vidora/internal/platform/request"
	"github.com/trananhvu/vidora/internal/platform/respond"
	"github.com/trananhvu/vidora/internal/platform/validate"
)

// Handler implements the HTTP layer for upload grants.
type Handler struct {
	mediaService *Service
}

// NewHandler constructs a new media [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{mediaService: service}
}

// Routes returns a [chi.Router] for the media endpoints.
//
// # Endpoints
//   - POST /uploads : Grant a presigned upload slot.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)
	router.Post("/uploads", handler.grantUpload)

	return router
}

type uploadRequest struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
}

/*
POST /api/v1/media/uploads.

Description: Grants a presigned PUT slot. The client uploads the blob to
upload_url and then submits storage_key to the endpoint that owns the blob.

Request:
  - body: uploadRequest {kind: video|thumbnail|avatar|cover, filename}

Response:
  - 200: Upload: {storage_key, upload_url, expires_at}
  - 400: ErrBadRequest: Unknown kind
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) grantUpload(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredUserID(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input uploadRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("kind", input.Kind).MaxLen("filename", input.Filename, 255)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	upload, err := handler.mediaService.GrantUpload(request.Context(), input.Kind, input.Filename)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, upload)
}
