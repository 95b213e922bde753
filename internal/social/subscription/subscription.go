// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

/*
Package subscription implements the channel-follow graph.

A subscription is a directed edge from a subscriber to a channel. The
package exposes a single toggle operation plus the listings and counters
that back channel pages.
*/
package subscription

import (
	"context"
	"time"

	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// # Domain Entities

// Channel is the public slice of a subscribed channel in listings.
type Channel struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	AvatarURL  string `json:"avatar_url"`
	IsVerified bool   `json:"is_verified"`
}

// Subscription is one follow edge enriched with the channel's profile.
type Subscription struct {
	ChannelID string    `json:"channel_id"`
	CreatedAt time.Time `json:"created_at"`
	Channel   *Channel  `json:"channel,omitempty"`
}

// # Repository Contract

// SubscriptionRepository defines the persistence contract for follow edges.
type SubscriptionRepository interface {
	/*
		Create adds the edge. Adding an existing edge is a no-op.

		Returns:
		  - bool: True when a new edge was created
		  - error: apperr.ValidationError when the channel is gone (FK), or
		    storage failures
	*/
	Create(context context.Context, subscriberID, channelID string) (bool, error)

	/*
		Delete removes the edge. Removing a missing edge is a no-op.

		Returns:
		  - bool: True when an edge was removed
		  - error: Storage failures
	*/
	Delete(context context.Context, subscriberID, channelID string) (bool, error)

	/*
		List pages through the subscriber's channels, newest edge first.
	*/
	List(context context.Context, subscriberID string, params pagination.Params) (*pipeline.Page[*Subscription], error)
}
