// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trananhvu/vidora/internal/platform/pipeline"
	"github.com/trananhvu/vidora/internal/users/auth"
	"github.com/trananhvu/vidora/pkg/pagination"
	"github.com/trananhvu/vidora/pkg/pointer"
)

// # Service Layer

// MediaResolver turns an object-storage key into its public URL.
// The media package's service satisfies it.
type MediaResolver interface {
	PublicURL(storageKey string) string
}

// SessionRevoker ends a user's active session. The auth package's refresh
// token store satisfies it.
type SessionRevoker interface {
	Clear(context context.Context, userID string) error
}

// Service orchestrates business logic for profiles, channels, and history.
type Service struct {
	profileRepository      ProfileRepository
	statsRepository        ChannelStatsRepository
	watchHistoryRepository WatchHistoryRepository
	sessionRevoker         SessionRevoker
	mediaResolver          MediaResolver
	logger                 *slog.Logger
}

// NewService constructs a new account [Service] with its dependencies.
func NewService(
	profileRepo ProfileRepository,
	statsRepo ChannelStatsRepository,
	historyRepo WatchHistoryRepository,
	revoker SessionRevoker,
	media MediaResolver,
	logger *slog.Logger,
) *Service {
	return &Service{
		profileRepository:      profileRepo,
		statsRepository:        statsRepo,
		watchHistoryRepository: historyRepo,
		sessionRevoker:         revoker,
		mediaResolver:          media,
		logger:                 logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.profileRepository.FindByID(context, userID)
}

// UpdateProfileInput defines the mutable subset of user profile fields.
// Nil fields are left untouched.
type UpdateProfileInput struct {
	FullName *string
	Bio      *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.profileRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	user.FullName = pointer.Fallback(input.FullName, user.FullName)
	user.Bio = pointer.Fallback(input.Bio, user.Bio)

	// Persist changes
	if err := service.profileRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

/*
UpdateAvatar swaps the user's avatar to an already-uploaded object.

Description: The client first uploads the image through the media upload
endpoint and then submits the storage key here; the service resolves the key
to its public URL and persists it.

Parameters:
  - context: context.Context
  - userID: string
  - storageKey: string

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateAvatar(context context.Context, userID, storageKey string) (*auth.User, error) {
	return service.updateImage(context, userID, storageKey, func(user *auth.User, url string) {
		user.AvatarURL = url
	})
}

/*
UpdateCover swaps the user's channel cover image. See [Service.UpdateAvatar]
for the upload contract.

Parameters:
  - context: context.Context
  - userID: string
  - storageKey: string

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateCover(context context.Context, userID, storageKey string) (*auth.User, error) {
	return service.updateImage(context, userID, storageKey, func(user *auth.User, url string) {
		user.CoverURL = url
	})
}

// updateImage resolves a storage key and applies it via assign.
func (service *Service) updateImage(context context.Context, userID, storageKey string, assign func(*auth.User, string)) (*auth.User, error) {
	user, err := service.profileRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	assign(user, service.mediaResolver.PublicURL(storageKey))

	if err := service.profileRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_image_failed: %w", err)
	}

	return user, nil
}

/*
DeleteAccount performs an idempotent soft-deletion of a user account.

Description: Flags the account as deleted and clears the stored refresh
token to force an immediate global sign-out.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	if err := service.profileRepository.SoftDelete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	// Force global revocation for the deleted account
	_ = service.sessionRevoker.Clear(context, userID)

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Channel Pages

/*
GetChannelProfile assembles the public channel page for a handle.

Description: Resolves the handle to a user (404 when absent), then attaches
the subscriber, subscription, and published-video counters. When viewerID is
non-empty the IsSubscribed flag reflects the viewer's own subscription; the
flag is best-effort and degrades to false on counter failures.

Parameters:
  - context: context.Context
  - handle: string (The channel's username)
  - viewerID: string (Empty for anonymous viewers)

Returns:
  - *ChannelProfile: Public channel page data
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetChannelProfile(context context.Context, handle, viewerID string) (*ChannelProfile, error) {
	user, err := service.profileRepository.FindByUsername(context, handle)
	if err != nil {
		return nil, err
	}

	profile := &ChannelProfile{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		AvatarURL:  user.AvatarURL,
		CoverURL:   user.CoverURL,
		Bio:        user.Bio,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}

	if profile.SubscriberCount, err = service.statsRepository.CountSubscribers(context, user.ID); err != nil {
		return nil, fmt.Errorf("account_service_channel_subscribers_failed: %w", err)
	}
	if profile.SubscribedCount, err = service.statsRepository.CountSubscriptions(context, user.ID); err != nil {
		return nil, fmt.Errorf("account_service_channel_subscriptions_failed: %w", err)
	}
	if profile.VideoCount, err = service.statsRepository.CountPublishedVideos(context, user.ID); err != nil {
		return nil, fmt.Errorf("account_service_channel_videos_failed: %w", err)
	}

	if viewerID != "" && viewerID != user.ID {
		subscribed, subErr := service.statsRepository.IsSubscribed(context, viewerID, user.ID)
		if subErr != nil {
			// Best effort: the page is still useful without the flag.
			service.logger.Warn("account_channel_is_subscribed_failed",
				slog.String("channel_id", user.ID),
				slog.String("error", subErr.Error()),
			)
		}
		profile.IsSubscribed = subscribed
	}

	return profile, nil
}

// # Watch History

/*
ListWatchHistory returns one page of the caller's watch history.

Parameters:
  - context: context.Context
  - userID: string
  - params: pagination.Params

Returns:
  - *pipeline.Page[WatchEntry]: Enriched entries, newest first
  - error: Retrieval failures
*/
func (service *Service) ListWatchHistory(context context.Context, userID string, params pagination.Params) (*pipeline.Page[WatchEntry], error) {
	page, err := service.watchHistoryRepository.List(context, userID, params)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_history_failed: %w", err)
	}
	return page, nil
}
