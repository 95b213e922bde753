// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/sec"
	"github.com/trananhvu/vidora/internal/users/auth"
)

// # Test Fakes

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*auth.User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User")
}

// Lookups fold case like the Postgres repository's LOWER() predicates.
func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *auth.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	if u, ok := r.users[userID]; ok {
		u.PasswordHash = newHash
		return nil
	}
	return apperr.NotFound("User")
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, userID string) error {
	if u, ok := r.users[userID]; ok {
		u.IsVerified = true
		return nil
	}
	return apperr.NotFound("User")
}

// fakeRefreshStore is an in-memory RefreshTokenStore with CAS semantics.
type fakeRefreshStore struct {
	tokens map[string]string // userID -> current token
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{tokens: map[string]string{}}
}

func (s *fakeRefreshStore) SetCurrent(_ context.Context, userID, token string) error {
	s.tokens[userID] = token
	return nil
}

func (s *fakeRefreshStore) GetCurrent(_ context.Context, userID string) (string, error) {
	return s.tokens[userID], nil
}

func (s *fakeRefreshStore) ReplaceIfCurrent(_ context.Context, userID, oldToken, newToken string) (bool, error) {
	if s.tokens[userID] != oldToken {
		return false, nil
	}
	s.tokens[userID] = newToken
	return true, nil
}

func (s *fakeRefreshStore) Clear(_ context.Context, userID string) error {
	delete(s.tokens, userID)
	return nil
}

// fakeVolatileRepo covers both reset and verification token contracts.
type fakeVolatileRepo struct {
	entries map[string]string // token -> userID
}

func newFakeVolatileRepo() *fakeVolatileRepo {
	return &fakeVolatileRepo{entries: map[string]string{}}
}

func (r *fakeVolatileRepo) Set(_ context.Context, token, userID string, _ time.Duration) error {
	r.entries[token] = userID
	return nil
}

func (r *fakeVolatileRepo) Get(_ context.Context, token string) (string, error) {
	if userID, ok := r.entries[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Token")
}

func (r *fakeVolatileRepo) Delete(_ context.Context, token string) error {
	delete(r.entries, token)
	return nil
}

// # Harness

type authFixture struct {
	service      *auth.Service
	users        *fakeUserRepo
	refreshStore *fakeRefreshStore
	resetRepo    *fakeVolatileRepo
	issuer       *sec.TokenIssuer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	issuer, err := sec.NewTokenIssuer(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		15*time.Minute,
		10*24*time.Hour,
		"vidora.app",
	)
	require.NoError(t, err)

	users := newFakeUserRepo()
	refreshStore := newFakeRefreshStore()
	resetRepo := newFakeVolatileRepo()

	return &authFixture{
		service:      auth.NewService(users, refreshStore, resetRepo, newFakeVolatileRepo(), issuer),
		users:        users,
		refreshStore: refreshStore,
		resetRepo:    resetRepo,
		issuer:       issuer,
	}
}

/*
TestAccessTokenTTL_ComesFromIssuer pins the transport-visible access token
lifetime to the issuer configuration, so cookie expiry and the expires_in
payload track ACCESS_TOKEN_TTL overrides instead of a package constant.
*/
func TestAccessTokenTTL_ComesFromIssuer(t *testing.T) {
	issuer, err := sec.NewTokenIssuer(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		2*time.Minute,
		time.Hour,
		"vidora.app",
	)
	require.NoError(t, err)

	service := auth.NewService(
		newFakeUserRepo(), newFakeRefreshStore(),
		newFakeVolatileRepo(), newFakeVolatileRepo(), issuer,
	)

	assert.Equal(t, 2*time.Minute, service.AccessTokenTTL())
}

// seedUser registers a user through the service so the password is hashed
// exactly as production would hash it.
func (f *authFixture) seedUser(t *testing.T, username, email, password string) *auth.User {
	t.Helper()

	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		FullName: "Test User",
	})
	require.NoError(t, err)

	return user
}

// # Login

/*
TestLogin_UnknownUserIsNotFound distinguishes an absent account (404) from a
wrong password (401).
*/
func TestLogin_UnknownUserIsNotFound(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    "ghost@vidora.app",
		Password: "whatever-pass",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestLogin_WrongPasswordIsUnauthorized returns 401 for a bad password on an
existing account.
*/
func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "anhvu", "anhvu@vidora.app", "correct-horse-battery")

	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    "anhvu@vidora.app",
		Password: "wrong-password",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

/*
TestLogin_Success verifies the issued pair and that the refresh token is
stored verbatim as the user's only session.
*/
func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "anhvu", "anhvu@vidora.app", "correct-horse-battery")

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    "anhvu",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	require.NotNil(t, session)

	// The stored token must equal the returned one byte for byte.
	stored, _ := f.refreshStore.GetCurrent(context.Background(), user.ID)
	assert.Equal(t, session.RefreshToken, stored)

	// Each token must verify only under its own kind.
	claims, err := f.issuer.Verify(session.AccessToken, sec.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = f.issuer.Verify(session.AccessToken, sec.TokenKindRefresh)
	assert.Error(t, err)
}

/*
TestLogin_SupersedesPreviousSession checks that a second login replaces the
stored token, so the first session can no longer refresh.
*/
func TestLogin_SupersedesPreviousSession(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "anhvu", "anhvu@vidora.app", "correct-horse-battery")

	first, err := f.service.Login(context.Background(), auth.LoginInput{
		Login: "anhvu", Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	_, err = f.service.Login(context.Background(), auth.LoginInput{
		Login: "anhvu", Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	_, err = f.service.RefreshSession(context.Background(), first.RefreshToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

// # Refresh Rotation

/*
TestRefreshSession_RotationInvalidatesOldToken is the core rotation property:
after a successful refresh, the presented token must never work again.
*/
func TestRefreshSession_RotationInvalidatesOldToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "anhvu", "anhvu@vidora.app", "correct-horse-battery")

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login: "anhvu", Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	rotated, err := f.service.RefreshSession(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// The new token is now the stored one.
	stored, _ := f.refreshStore.GetCurrent(context.Background(), user.ID)
	assert.Equal(t, rotated.RefreshToken, stored)

	// Replaying the old token must fail with 401.
	_, err = f.service.RefreshSession(context.Background(), session.RefreshToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)

	// The new token still works.
	_, err = f.service.RefreshSession(context.Background(), rotated.RefreshToken)
	assert.NoError(t, err)
}

/*
TestRefreshSession_RejectsAccessToken ensures an access token can never be
used on the refresh endpoint.
*/
func TestRefreshSession_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "anhvu", "anhvu@vidora.app", "correct-horse-battery")

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login: "anhvu", Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	_, err = f.service.RefreshSession(context.Background(), session.AccessToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

/*
TestRefreshSession_Garbage rejects a structurally invalid token with 401.
*/
func TestRefreshSession_Garbage(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.RefreshSession(context.Background(), "definitely-not-a-jwt")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

// # Logout

/*
TestLogout_EndsSession verifies that a logged-out refresh token is dead even
though its signature is still valid.
*/
func TestLogout_EndsSession(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "anhvu", "anhvu@vidora.app", "correct-horse-battery")

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login: "anhvu", Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), user.ID))

	_, err = f.service.RefreshSession(context.Background(), session.RefreshToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)

	// Logout is idempotent.
	assert.NoError(t, f.service.Logout(context.Background(), user.ID))
}

// # Password Management

/*
TestChangePassword_WrongCurrentIsBadRequest returns 400 (not 401) when the
authenticated caller supplies a wrong current password.
*/
func TestChangePassword_WrongCurrentIsBadRequest(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "anhvu", "anhvu@vidora.app", "correct-horse-battery")

	err := f.service.ChangePassword(context.Background(), user.ID, "not-my-password", "a-new-password-123")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}

/*
TestChangePassword_KeepsSessionAlive documents the intentional behavior that
changing a password does not end the active session.
*/
func TestChangePassword_KeepsSessionAlive(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "anhvu", "anhvu@vidora.app", "correct-horse-battery")

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login: "anhvu", Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	err = f.service.ChangePassword(context.Background(), user.ID, "correct-horse-battery", "a-new-password-123")
	require.NoError(t, err)

	// Old password no longer logs in.
	_, err = f.service.Login(context.Background(), auth.LoginInput{
		Login: "anhvu", Password: "correct-horse-battery",
	})
	require.Error(t, err)

	// The existing refresh token still rotates.
	_, err = f.service.RefreshSession(context.Background(), session.RefreshToken)
	assert.NoError(t, err)
}

/*
TestResetPassword_EndsSession verifies the reset flow clears the stored
refresh token in addition to replacing the password.
*/
func TestResetPassword_EndsSession(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "anhvu", "anhvu@vidora.app", "correct-horse-battery")

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login: "anhvu", Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	token, err := f.service.RequestPasswordReset(context.Background(), "anhvu@vidora.app")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, f.service.ResetPassword(context.Background(), token, "a-new-password-123"))

	// Session is gone.
	_, err = f.service.RefreshSession(context.Background(), session.RefreshToken)
	require.Error(t, err)

	// Reset token is single-use.
	err = f.service.ResetPassword(context.Background(), token, "another-password-456")
	require.Error(t, err)

	// New password works.
	_, err = f.service.Login(context.Background(), auth.LoginInput{
		Login: "anhvu", Password: "a-new-password-123",
	})
	assert.NoError(t, err)
}

/*
TestRequestPasswordReset_UnknownEmail stays silent to prevent enumeration.
*/
func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	token, err := f.service.RequestPasswordReset(context.Background(), "ghost@vidora.app")
	assert.NoError(t, err)
	assert.Empty(t, token)
}

// # Registration

/*
TestRegister_Conflicts rejects duplicate emails and usernames with 409.
*/
func TestRegister_Conflicts(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "anhvu", "anhvu@vidora.app", "correct-horse-battery")

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: "someone-else",
		Email:    "anhvu@vidora.app",
		Password: "password-123",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)

	_, err = f.service.Register(context.Background(), auth.RegisterInput{
		Username: "anhvu",
		Email:    "new-email@vidora.app",
		Password: "password-123",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)
}

/*
TestRegister_CaseInsensitiveIdentity treats identities that differ only by
case as the same account: a re-registration conflicts and a login with a
differently-cased email still reaches the existing account.
*/
func TestRegister_CaseInsensitiveIdentity(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "anhvu", "anhvu@vidora.app", "correct-horse-battery")

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: "someone-else",
		Email:    "AnhVu@Vidora.App",
		Password: "password-123",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)

	_, err = f.service.Register(context.Background(), auth.RegisterInput{
		Username: "AnhVu",
		Email:    "new-email@vidora.app",
		Password: "password-123",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Login:    "AnhVu@Vidora.App",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.Equal(t, "anhvu", session.User.Username)
}
