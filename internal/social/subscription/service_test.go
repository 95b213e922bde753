// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package subscription

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/internal/users/auth"
	"github.com/trananhvu/vidora/pkg/pagination"
)

const (
	subscriberID = "01923456-7890-7abc-def0-000000000001"
	channelID    = "01923456-7890-7abc-def0-000000000002"
)

// fakeSubscriptionRepo is an in-memory follow-edge store.
type fakeSubscriptionRepo struct {
	edges map[string]bool // subscriberID/channelID
}

func key(subscriberID, channelID string) string { return subscriberID + "/" + channelID }

func (r *fakeSubscriptionRepo) Create(_ context.Context, subscriberID, channelID string) (bool, error) {
	k := key(subscriberID, channelID)
	if r.edges[k] {
		return false, nil
	}
	r.edges[k] = true
	return true, nil
}

func (r *fakeSubscriptionRepo) Delete(_ context.Context, subscriberID, channelID string) (bool, error) {
	k := key(subscriberID, channelID)
	if !r.edges[k] {
		return false, nil
	}
	delete(r.edges, k)
	return true, nil
}

func (r *fakeSubscriptionRepo) List(_ context.Context, _ string, params pagination.Params) (*pipeline.Page[*Subscription], error) {
	params = params.Normalize()
	return &pipeline.Page[*Subscription]{
		Items: []*Subscription{},
		Meta:  pagination.NewMeta(params.Page, params.Limit, 0),
	}, nil
}

// fakeChannelResolver knows a fixed set of channels.
type fakeChannelResolver struct {
	known map[string]bool
}

func (r *fakeChannelResolver) FindByID(_ context.Context, id string) (*auth.User, error) {
	if r.known[id] {
		return &auth.User{ID: id}, nil
	}
	return nil, apperr.NotFound("User")
}

func newTestService(repo *fakeSubscriptionRepo) *Service {
	resolver := &fakeChannelResolver{known: map[string]bool{channelID: true, subscriberID: true}}
	return NewService(repo, resolver, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestToggle_RoundTrip subscribes, unsubscribes, and resubscribes.
*/
func TestToggle_RoundTrip(t *testing.T) {
	repo := &fakeSubscriptionRepo{edges: map[string]bool{}}
	service := newTestService(repo)

	subscribed, err := service.Toggle(context.Background(), subscriberID, channelID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribed, err = service.Toggle(context.Background(), subscriberID, channelID)
	require.NoError(t, err)
	assert.False(t, subscribed)
	assert.Empty(t, repo.edges)

	subscribed, err = service.Toggle(context.Background(), subscriberID, channelID)
	require.NoError(t, err)
	assert.True(t, subscribed)
}

/*
TestToggle_SelfSubscription is a 400.
*/
func TestToggle_SelfSubscription(t *testing.T) {
	service := newTestService(&fakeSubscriptionRepo{edges: map[string]bool{}})

	_, err := service.Toggle(context.Background(), subscriberID, subscriberID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

/*
TestToggle_MissingChannel is a 404.
*/
func TestToggle_MissingChannel(t *testing.T) {
	service := newTestService(&fakeSubscriptionRepo{edges: map[string]bool{}})

	_, err := service.Toggle(context.Background(), subscriberID, "01923456-7890-7abc-def0-00000000dead")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}
