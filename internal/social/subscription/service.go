// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package subscription

import (
	"context"
	"log/slog"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/internal/users/auth"
	"github.com/trananhvu/vidora/pkg/pagination"
)

// # Service Layer

// ChannelResolver checks that a channel exists. The auth package's user
// repository satisfies it.
type ChannelResolver interface {
	FindByID(context context.Context, id string) (*auth.User, error)
}

// Service orchestrates the follow graph.
type Service struct {
	subscriptionRepository SubscriptionRepository
	channelResolver        ChannelResolver
	logger                 *slog.Logger
}

// NewService constructs a new subscription [Service].
func NewService(subscriptionRepo SubscriptionRepository, channels ChannelResolver, logger *slog.Logger) *Service {
	return &Service{
		subscriptionRepository: subscriptionRepo,
		channelResolver:        channels,
		logger:                 logger,
	}
}

/*
Toggle flips the subscriber's follow state for a channel.

Description: Subscribing to a missing channel is a 404; subscribing to
yourself is a 400. Otherwise the edge is created when absent and removed
when present, and the new state is returned.

Parameters:
  - context: context.Context
  - subscriberID: string
  - channelID: string

Returns:
  - bool: True when the caller is now subscribed
  - error: apperr.NotFound, apperr.BadRequest, or storage failures
*/
func (service *Service) Toggle(context context.Context, subscriberID, channelID string) (bool, error) {
	if subscriberID == channelID {
		return false, apperr.BadRequest("You cannot subscribe to your own channel")
	}

	if _, err := service.channelResolver.FindByID(context, channelID); err != nil {
		return false, err
	}

	created, err := service.subscriptionRepository.Create(context, subscriberID, channelID)
	if err != nil {
		return false, err
	}
	if created {
		service.logger.Info("channel_subscribed",
			slog.String("subscriber_id", subscriberID),
			slog.String("channel_id", channelID),
		)
		return true, nil
	}

	// Edge already existed: this toggle unsubscribes.
	if _, err := service.subscriptionRepository.Delete(context, subscriberID, channelID); err != nil {
		return false, err
	}

	service.logger.Info("channel_unsubscribed",
		slog.String("subscriber_id", subscriberID),
		slog.String("channel_id", channelID),
	)

	return false, nil
}

/*
List returns one page of the caller's subscribed channels.

Parameters:
  - context: context.Context
  - subscriberID: string
  - params: pagination.Params

Returns:
  - *pipeline.Page[*Subscription]: Channel-enriched edges
  - error: Repository failures
*/
func (service *Service) List(context context.Context, subscriberID string, params pagination.Params) (*pipeline.Page[*Subscription], error) {
	return service.subscriptionRepository.List(context, subscriberID, params)
}
