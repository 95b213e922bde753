// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities and logic for authentication,
authorization, and account lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.

# Session Model

Vidora uses single-session refresh tokens: the currently valid refresh token
is stored verbatim on the user row. A presented refresh token is accepted only
if it is cryptographically valid AND byte-identical to the stored one, so each
rotation (and each logout) invalidates everything issued before it.
*/
package auth

import (
	"time"

	"github.com/trananhvu/vidora/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Vidora platform.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	FullName     string       `json:"full_name"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	RefreshToken string       `json:"-"` // Current session token. Omitted for security.
	AvatarURL    string       `json:"avatar_url,omitempty"`
	CoverURL     string       `json:"cover_url,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	Role         sec.UserRole `json:"role"`
	IsVerified   bool         `json:"is_verified"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFullName        = "full_name"
	FieldLogin           = "login"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldRefreshToken    = "refresh_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
