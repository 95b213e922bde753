// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

/*
Package account handles user profile management, public channel pages, and
watch history.

It provides functionalities for users to view and update their private
identity data, swap their avatar and cover images, browse their watch
history, and for anyone to look up a channel's public profile.

# Architecture

  - Entities: ChannelProfile, WatchEntry (transport DTOs).
  - Domain: This package depends on the auth package for the User entity.
  - Enrichment: Channel counters and history listings are read-side
    aggregations; they never mutate state.
*/
package account

import (
	"context"
	"time"

	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/internal/users/auth"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// # Domain Entities

// ChannelProfile is the public view of a user's channel.
// It never carries the email, password hash, or refresh token.
type ChannelProfile struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	AvatarURL       string    `json:"avatar_url"`
	CoverURL        string    `json:"cover_url"`
	Bio             string    `json:"bio"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
	SubscriberCount int64     `json:"subscriber_count"`
	SubscribedCount int64     `json:"subscribed_count"`
	VideoCount      int64     `json:"video_count"`
	IsSubscribed    bool      `json:"is_subscribed"` // Always false for anonymous viewers
}

// WatchOwner is the public slice of a video owner embedded in history rows.
type WatchOwner struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// WatchEntry is one row of a user's watch history, enriched with the video
// and its owner. One entry per (user, video); re-watching moves WatchedAt.
type WatchEntry struct {
	VideoID      string     `json:"video_id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Duration     int        `json:"duration"`
	Owner        WatchOwner `json:"owner"`
	WatchedAt    time.Time  `json:"watched_at"`
}

// # Repository Contracts

// ProfileRepository is the persistence surface this package needs for user
// rows. The auth package's Postgres user repository satisfies it.
type ProfileRepository interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	FindByUsername(context context.Context, username string) (*auth.User, error)
	Update(context context.Context, user *auth.User) error
	SoftDelete(context context.Context, id string) error
}

// ChannelStatsRepository provides the aggregate counters behind a channel page.
type ChannelStatsRepository interface {
	/*
		CountSubscribers returns how many users subscribe to the channel.

		Parameters:
		  - context: context.Context
		  - channelID: string

		Returns:
		  - int64: Subscriber count
		  - error: Retrieval failures
	*/
	CountSubscribers(context context.Context, channelID string) (int64, error)

	/*
		CountSubscriptions returns how many channels the user subscribes to.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - int64: Subscription count
		  - error: Retrieval failures
	*/
	CountSubscriptions(context context.Context, userID string) (int64, error)

	/*
		CountPublishedVideos returns the channel's live video count.

		Parameters:
		  - context: context.Context
		  - channelID: string

		Returns:
		  - int64: Published, non-deleted video count
		  - error: Retrieval failures
	*/
	CountPublishedVideos(context context.Context, channelID string) (int64, error)

	/*
		IsSubscribed reports whether subscriberID currently follows channelID.

		Parameters:
		  - context: context.Context
		  - subscriberID: string
		  - channelID: string

		Returns:
		  - bool: Subscription existence
		  - error: Retrieval failures
	*/
	IsSubscribed(context context.Context, subscriberID, channelID string) (bool, error)
}

// WatchHistoryRepository lists a user's watch history, most recent first.
type WatchHistoryRepository interface {
	/*
		List returns one page of enriched history entries.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - params: pagination.Params (normalized by the executor)

		Returns:
		  - *pipeline.Page[WatchEntry]: Items plus pagination metadata
		  - error: Retrieval failures
	*/
	List(context context.Context, userID string, params pagination.Params) (*pipeline.Page[WatchEntry], error)
}
