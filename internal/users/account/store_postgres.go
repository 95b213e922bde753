// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trananhvu/vidora/internal/platform/database/schema"
	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// # Repository Implementations

// PostgresChannelStatsRepository implements [ChannelStatsRepository] using pgx.
//
// # Schema Table Mapping
//   - social.subscription: Subscriber edges (subscriberid -> channelid).
//   - core.video: Published video counts per owner.
type PostgresChannelStatsRepository struct {
	pool *pgxpool.Pool
}

// NewChannelStatsRepository creates a Postgres implementation for channel counters.
func NewChannelStatsRepository(pool *pgxpool.Pool) *PostgresChannelStatsRepository {
	return &PostgresChannelStatsRepository{pool: pool}
}

// PostgresWatchHistoryRepository implements [WatchHistoryRepository] using pgx.
type PostgresWatchHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewWatchHistoryRepository creates a Postgres implementation for history listings.
func NewWatchHistoryRepository(pool *pgxpool.Pool) *PostgresWatchHistoryRepository {
	return &PostgresWatchHistoryRepository{pool: pool}
}

// # ChannelStatsRepository Methods

/*
CountSubscribers counts the subscriber edges pointing at a channel.

Parameters:
  - context: context.Context
  - channelID: string

Returns:
  - int64: Subscriber count
  - error: Query failures
*/
func (repository *PostgresChannelStatsRepository) CountSubscribers(context context.Context, channelID string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.SocialSubscription.Table, schema.SocialSubscription.ChannelID)

	var count int64
	if err := repository.pool.QueryRow(context, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_channel_stats_count_subscribers_failed: %w", err)
	}
	return count, nil
}

/*
CountSubscriptions counts the channels a user follows.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - int64: Subscription count
  - error: Query failures
*/
func (repository *PostgresChannelStatsRepository) CountSubscriptions(context context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.SocialSubscription.Table, schema.SocialSubscription.SubscriberID)

	var count int64
	if err := repository.pool.QueryRow(context, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_channel_stats_count_subscriptions_failed: %w", err)
	}
	return count, nil
}

/*
CountPublishedVideos counts live, non-deleted videos owned by a channel.

Parameters:
  - context: context.Context
  - channelID: string

Returns:
  - int64: Published video count
  - error: Query failures
*/
func (repository *PostgresChannelStatsRepository) CountPublishedVideos(context context.Context, channelID string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s AND %s IS NULL`,
		schema.CoreVideo.Table, schema.CoreVideo.OwnerID,
		schema.CoreVideo.IsPublished, schema.CoreVideo.DeletedAt)

	var count int64
	if err := repository.pool.QueryRow(context, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_channel_stats_count_videos_failed: %w", err)
	}
	return count, nil
}

/*
IsSubscribed checks for a subscription edge between two users.

Parameters:
  - context: context.Context
  - subscriberID: string
  - channelID: string

Returns:
  - bool: True when the edge exists
  - error: Query failures
*/
func (repository *PostgresChannelStatsRepository) IsSubscribed(context context.Context, subscriberID, channelID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.SocialSubscription.Table,
		schema.SocialSubscription.SubscriberID, schema.SocialSubscription.ChannelID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, subscriberID, channelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_channel_stats_is_subscribed_failed: %w", err)
	}
	return exists, nil
}

// # WatchHistoryRepository Methods

/*
List pages through a user's watch history, newest first.

Description: Runs a pipeline over library.watchhistory joined to core.video,
filtering to the caller and to videos that still exist, and enriching each
row with the owner's public fields via a correlated JSON lookup.

Parameters:
  - context: context.Context
  - userID: string
  - params: pagination.Params

Returns:
  - *pipeline.Page[WatchEntry]: One page plus metadata
  - error: Query or scan failures
*/
func (repository *PostgresWatchHistoryRepository) List(context context.Context, userID string, params pagination.Params) (*pipeline.Page[WatchEntry], error) {
	from := fmt.Sprintf("%s h JOIN %s v ON v.%s = h.%s",
		schema.LibraryWatchHistory.Table, schema.CoreVideo.Table,
		schema.CoreVideo.ID, schema.LibraryWatchHistory.VideoID)

	ownerLookup := fmt.Sprintf(
		`(SELECT json_build_object('id', a.%s, 'username', a.%s, 'avatar_url', a.%s) FROM %s a WHERE a.%s = v.%s)`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.AvatarURL,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.CoreVideo.OwnerID,
	)

	listing := pipeline.New().
		Match("h."+schema.LibraryWatchHistory.UserID+" = ?", userID).
		Match("v." + schema.CoreVideo.DeletedAt + " IS NULL").
		Sort("h."+schema.LibraryWatchHistory.WatchedAt, true).
		Lookup(ownerLookup, "owner")

	columns := []string{
		"v." + schema.CoreVideo.ID,
		"v." + schema.CoreVideo.Title,
		"v." + schema.CoreVideo.Slug,
		"v." + schema.CoreVideo.ThumbnailURL,
		"v." + schema.CoreVideo.Duration,
		"h." + schema.LibraryWatchHistory.WatchedAt,
	}

	return pipeline.Execute(context, repository.pool, listing, from, columns, params,
		func(rows pgx.Rows) (WatchEntry, error) {
			var entry WatchEntry
			err := rows.Scan(
				&entry.VideoID,
				&entry.Title,
				&entry.Slug,
				&entry.ThumbnailURL,
				&entry.Duration,
				&entry.WatchedAt,
				&entry.Owner,
			)
			return entry, err
		})
}
