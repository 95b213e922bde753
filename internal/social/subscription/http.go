// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package subscription

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trananhvu/vidora/internal/platform/middleware"
	requestutil "github.com/trananhvu/vidora/internal/platform/request"
	"github.com/trananhvu/vidora/internal/platform/respond"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// Handler implements the HTTP layer for the follow graph.
type Handler struct {
	subscriptionService *Service
}

// NewHandler constructs a new subscription [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{subscriptionService: service}
}

// Routes returns a [chi.Router] for the subscription endpoints.
//
// # Endpoints
//   - GET  /            : The caller's subscribed channels.
//   - POST /{channelID} : Toggle the follow state for a channel.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)
	router.Get("/", handler.list)
	router.Post("/{channelID}", handler.toggle)

	return router
}

/*
GET /api/v1/subscriptions.

Description: Pages through the caller's subscribed channels, newest first.

Response:
  - 200: Paginated []Subscription
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.subscriptionService.List(request.Context(), userID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Items, page.Meta)
}

/*
POST /api/v1/subscriptions/{channelID}.

Description: Toggles the caller's subscription to a channel and returns the
new state.

Response:
  - 200: {subscribed: bool}
  - 400: ErrBadRequest: Self-subscription
  - 404: ErrNotFound: No such channel
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) toggle(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	subscribed, err := handler.subscriptionService.Toggle(request.Context(), userID, chi.URLParam(request, "channelID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"subscribed": subscribed})
}
