// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

/*
Package auth implements the core identity and access management (IAM) system.

It handles everything from user registration and secure password hashing to
session lifecycle management via paired JWTs (access + refresh).

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh, Recovery).
  - Repository: Abstracted interfaces for Postgres (Users, RefreshTokens) and
    Redis (volatile reset/verification tokens).
  - Security: Bcrypt password hashing and HS256 JWTs with separated secrets.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/ctxutil"
	"github.com/trananhvu/vidora/internal/platform/sec"
	"github.com/trananhvu/vidora/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for minting and verifying token pairs.
type TokenProvider interface {
	// Issue mints a matched access/refresh token pair for the given user.
	Issue(userID, username, role string) (sec.TokenPair, error)

	// Verify checks a token's signature, expiry, and kind.
	Verify(tokenString string, kind sec.TokenKind) (*sec.AuthClaims, error)

	// AccessTTL returns the access token lifetime, used for cookie expiry
	// and the expires_in payload field.
	AccessTTL() time.Duration

	// RefreshTTL returns the refresh token lifetime, used for cookie expiry.
	RefreshTTL() time.Duration
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository              UserRepository
	refreshTokenStore           RefreshTokenStore
	resetTokenRepository        ResetTokenRepository
	verificationTokenRepository VerificationTokenRepository
	tokenProvider               TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	refreshStore RefreshTokenStore,
	resetRepo ResetTokenRepository,
	verifyRepo VerificationTokenRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:              userRepo,
		refreshTokenStore:           refreshStore,
		resetTokenRepository:        resetRepo,
		verificationTokenRepository: verifyRepo,
		tokenProvider:               tokenProv,
	}
}

// AccessTokenTTL reports the configured access token lifetime. The transport
// layer derives cookie expiry and the expires_in payload from it so they can
// never drift from the lifetime actually embedded in the tokens.
func (service *Service) AccessTokenTTL() time.Duration {
	return service.tokenProvider.AccessTTL()
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member, handling password hashing and
initial verification token state.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: hashedPassword,
		Role:         sec.RoleMember,
		IsVerified:   false,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Generate and store a verification token in Redis as an async-ready side effect
	token, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err == nil {
		_ = service.verificationTokenRepository.Set(context, token, user.ID, VerificationTokenTTL)
		// TODO: Trigger email service with the verification link
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues a fresh token pair.

Description: Resolves the account (by email or username), performs a
constant-time password comparison, mints a new pair, and stores the refresh
token verbatim as the user's only valid session.

A missing account and a wrong password are reported distinctly: absent users
get a 404 while bad passwords get a 401, so clients can offer sign-up to
unknown identifiers.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: NotFound, Unauthorized, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Flexible login: look up by Email or Username
	user, err := service.userRepository.FindByEmail(context, input.Login)
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, input.Login)
	}

	// Unknown identifier is a distinct outcome from a wrong password.
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	// Verify password hash using bcrypt's constant-time comparison to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid user credentials")
	}

	// Mint a matched access/refresh pair
	pair, err := service.tokenProvider.Issue(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Store the refresh token verbatim; it supersedes any previous session.
	if err := service.refreshTokenStore.SetCurrent(context, user.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresAt: time.Now().Add(service.tokenProvider.RefreshTTL()),
		User:                  user,
	}, nil
}

/*
Logout ends the user's active session.

Description: Clears the stored refresh token so nothing issued before this
call can ever mint new pairs. Idempotent: logging out twice is not an error.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.refreshTokenStore.Clear(context, userID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Session Management

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: A presented refresh token is accepted only if it passes JWT
verification AND is byte-identical to the stored one. On success the stored
token is atomically swapped for a fresh one, so the presented token can never
be replayed.

Every failure surfaces to the client as a plain 401. Internally we still
distinguish a superseded token (structurally valid but no longer current,
likely a concurrent login from another device) from a forged or expired one,
and log the former for abuse monitoring.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *LoginSession: Rotated session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken string) (*LoginSession, error) {

	// Cryptographic check: signature, expiry, and kind.
	claims, err := service.tokenProvider.Verify(refreshToken, sec.TokenKindRefresh)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	// Resolve the account behind the token.
	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	// Equality check: only the CURRENT stored token is usable.
	stored, err := service.refreshTokenStore.GetCurrent(context, user.ID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}
	if stored == "" || stored != refreshToken {
		// Valid signature but superseded by a later login or rotation.
		ctxutil.GetLogger(context).WarnContext(context, "auth_refresh_superseded_token",
			slog.String("user_id", user.ID),
		)
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}

	// Mint the replacement pair.
	pair, err := service.tokenProvider.Issue(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_generation_failed: %w", err)
	}

	// Rotate with a compare-and-swap so concurrent refreshes cannot both win.
	replaced, err := service.refreshTokenStore.ReplaceIfCurrent(context, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_rotation_failed: %w", err)
	}
	if !replaced {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}

	return &LoginSession{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresAt: time.Now().Add(service.tokenProvider.RefreshTTL()),
		User:                  user,
	}, nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token and saves it to Redis.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Discovery token
  - err: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	// Look up user.
	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	// Generate reset token
	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	// Save to Redis
	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, updates the DB,
and clears the stored refresh token so every existing session is ended.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	// Retrieve the userID associated with the reset token from Redis
	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the user's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Security Cleanup: end the active session
	_ = service.refreshTokenStore.Clear(context, userID)

	// Delete the used token from Redis
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password before applying the new one.
A wrong current password is a 400 (the request is well-formed but its content
is wrong), not a 401: the caller IS authenticated.

The stored refresh token is intentionally left untouched: existing sessions,
including the caller's, stay valid after a password change. Users who suspect
credential theft should use the reset flow, which does end the session.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: BadRequest or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.BadRequest("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

/*
VerifyEmail confirms a user's email address using a secure token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - err: Database or resolution errors
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {

	// Retrieve the user ID associated with the verification token from Redis
	userID, err := service.verificationTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	// Update the user's status to verified in persistent storage
	if err := service.userRepository.MarkVerified(context, userID); err != nil {
		return fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}

	// Cleanup the used verification token from Redis
	_ = service.verificationTokenRepository.Delete(context, token)

	return nil
}
