// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package subscription

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trananhvu/vidora/internal/platform/database/schema"
	"github.com/trananhvu/vidora/internal/platform/dberr"
	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/pkg/pagination"
	"github.com/trananhvu/vidora/pkg/uuidv7"
)

// # PostgreSQL Repository

// subscriptionRepository implements [SubscriptionRepository] using pgx.
type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository constructs a PostgreSQL backed subscription store.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

/*
Create inserts a follow edge if it does not exist yet.

Description: ON CONFLICT DO NOTHING makes concurrent double-taps safe; the
row count tells the caller whether anything changed.

Parameters:
  - context: context.Context
  - subscriberID: string
  - channelID: string

Returns:
  - bool: True when a new edge was created
  - error: Mapped constraint violations or execution failures
*/
func (repository *subscriptionRepository) Create(context context.Context, subscriberID, channelID string) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s, %s) DO NOTHING`,
		schema.SocialSubscription.Table,
		schema.SocialSubscription.ID, schema.SocialSubscription.SubscriberID,
		schema.SocialSubscription.ChannelID, schema.SocialSubscription.CreatedAt,
		schema.SocialSubscription.SubscriberID, schema.SocialSubscription.ChannelID,
	)

	tag, err := repository.pool.Exec(context, query, uuidv7.New(), subscriberID, channelID)
	if err != nil {
		return false, dberr.Wrap(err, "subscription create")
	}

	return tag.RowsAffected() > 0, nil
}

/*
Delete removes a follow edge. Idempotent.

Parameters:
  - context: context.Context
  - subscriberID: string
  - channelID: string

Returns:
  - bool: True when an edge was removed
  - error: Execution failures
*/
func (repository *subscriptionRepository) Delete(context context.Context, subscriberID, channelID string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialSubscription.Table,
		schema.SocialSubscription.SubscriberID, schema.SocialSubscription.ChannelID,
	)

	tag, err := repository.pool.Exec(context, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("postgres_subscription_repo_delete_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

/*
List pages through the subscriber's channels, newest edge first.

Parameters:
  - context: context.Context
  - subscriberID: string
  - params: pagination.Params

Returns:
  - *pipeline.Page[*Subscription]: Channel-enriched edges plus metadata
  - error: Query or scan failures
*/
func (repository *subscriptionRepository) List(context context.Context, subscriberID string, params pagination.Params) (*pipeline.Page[*Subscription], error) {
	channelLookup := fmt.Sprintf(
		`(SELECT json_build_object('id', a.%s, 'username', a.%s, 'full_name', a.%s, 'avatar_url', a.%s, 'is_verified', a.%s) FROM %s a WHERE a.%s = s.%s)`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.FullName,
		schema.UserAccount.AvatarURL, schema.UserAccount.IsVerified,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialSubscription.ChannelID,
	)

	listing := pipeline.New().
		Match("s."+schema.SocialSubscription.SubscriberID+" = ?", subscriberID).
		Sort("s."+schema.SocialSubscription.CreatedAt, true).
		Lookup(channelLookup, "channel")

	columns := []string{
		"s." + schema.SocialSubscription.ChannelID,
		"s." + schema.SocialSubscription.CreatedAt,
	}

	return pipeline.Execute(context, repository.pool, listing, schema.SocialSubscription.Table+" s", columns, params,
		func(rows pgx.Rows) (*Subscription, error) {
			subscription := &Subscription{}
			channel := &Channel{}
			err := rows.Scan(
				&subscription.ChannelID,
				&subscription.CreatedAt,
				channel,
			)
			subscription.Channel = channel
			return subscription, err
		})
}
