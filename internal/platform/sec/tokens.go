// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trananhvu/vidora/pkg/uuidv7"
)

// TokenKind distinguishes the two JWT families issued by the platform.
type TokenKind string

const (
	// TokenKindAccess is the short-lived token presented on every API request.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long-lived token used only to mint new pairs.
	TokenKindRefresh TokenKind = "refresh"
)

// AuthClaims represents the payload embedded inside a Vidora JWT.
//
// # Why custom claims?
//
// By embedding the UserID, Username, and Role directly inside the JWT,
// the [middleware.Authenticate] can reconstruct the active user context
// WITHOUT querying the database on every single API request. This provides
// massive read-scalability.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string `json:"uid"`
	Username string `json:"unm"`
	Role     string `json:"rol"`

	// TokenType marks the claim set as "access" or "refresh" so one kind
	// can never be presented where the other is expected.
	TokenType string `json:"typ"`
}

// TokenPair bundles a freshly minted access and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenIssuer mints and verifies HS256 JWTs.
//
// # Key Separation
//
// Access and refresh tokens are signed with two distinct secrets. A refresh
// token therefore fails signature verification when presented as an access
// token (and vice versa) even before the TokenType claim is inspected.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewTokenIssuer creates a TokenIssuer from the two signing secrets.
//
// Returns:
//   - An error if either secret is empty or if both secrets are identical,
//     which would collapse the access/refresh key separation.
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer string) (*TokenIssuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("sec: token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}

	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (ti *TokenIssuer) AccessTTL() time.Duration { return ti.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (ti *TokenIssuer) RefreshTTL() time.Duration { return ti.refreshTTL }

// Issue mints a matched access/refresh token pair for a user.
func (ti *TokenIssuer) Issue(userID, username, role string) (TokenPair, error) {
	access, err := ti.sign(userID, username, role, TokenKindAccess)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := ti.sign(userID, username, role, TokenKindRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// sign builds and signs a single token of the given kind.
func (ti *TokenIssuer) sign(userID, username, role string, kind TokenKind) (string, error) {
	now := time.Now()

	ttl := ti.accessTTL
	secret := ti.accessSecret
	if kind == TokenKindRefresh {
		ttl = ti.refreshTTL
		secret = ti.refreshSecret
	}

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every issuance distinct. Timestamps alone are
			// second-truncated, and session rotation requires the replacement
			// token to differ from the one it supersedes.
			ID:        uuidv7.New(),
			Subject:   userID,
			Issuer:    ti.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		Username:  username,
		Role:      role,
		TokenType: string(kind),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign %s token: %w", kind, err)
	}

	return signed, nil
}

// Verify checks the signature, expiry, and kind of a JWT string.
//
// A structurally valid token of the wrong kind is rejected exactly like a
// forged one; callers cannot distinguish the two failure modes.
func (ti *TokenIssuer) Verify(tokenString string, kind TokenKind) (*AuthClaims, error) {
	secret := ti.accessSecret
	if kind == TokenKindRefresh {
		secret = ti.refreshSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}

	if claims.TokenType != string(kind) {
		return nil, fmt.Errorf("sec: token kind mismatch: want %s", kind)
	}

	return claims, nil
}
