// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

// PostgreSQL implementations of the auth storage contracts.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, email, fullname, passwordhash, avatarurl, coverurl, bio, role, isverified, createdat, updatedat`

// scanUser hydrates one account row.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.CoverURL,
		&user.Bio,
		&user.Role,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, fullname, passwordhash, role, isverified, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	// Unique violations on username/email become client-safe Conflict errors
	// instead of opaque 500s. The case-insensitive partial indexes catch
	// collisions the service-level pre-checks cannot see.
	return dberr.Wrap(err, "user create")
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Performs a case-insensitive lookup on the account table, matching
the LOWER() unique index and filtering out soft-deleted users.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE LOWER(email) = LOWER($1) AND deletedat IS NULL`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Case-insensitive lookup by username for authentication and
profile resolution, matching the LOWER() unique index.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE LOWER(username) = LOWER($1) AND deletedat IS NULL`

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: Not found or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE id = $1 AND deletedat IS NULL`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
Update persists changes to a user's mutable profile fields.

Description: Synchronizes the in-memory user state with the database,
refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET fullname = $2, avatarurl = $3, coverurl = $4, bio = $5, updatedat = $6
		WHERE id = $1 AND deletedat IS NULL`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.FullName,
		user.AvatarURL,
		user.CoverURL,
		user.Bio,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
SoftDelete marks a user account as deleted using their ID.

Description: Retention-friendly deletion by setting deletedat.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Side-effect failures
*/
func (repository *PostgresUserRepository) SoftDelete(context context.Context, id string) error {
	const query = "UPDATE users.account SET deletedat = $2 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_soft_delete_failed: %w", err)
	}
	return nil
}

/*
MarkVerified updates the user's status to isverified = true.

Description: Post-verification cleanup to activate the account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Database errors
*/
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	const query = "UPDATE users.account SET isverified = TRUE, updatedat = $2 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_mark_verified_failed: %w", err)
	}
	return nil
}

// # Refresh Token Store

// PostgresRefreshTokenStore implements RefreshTokenStore on the
// users.account.refreshtoken column.
type PostgresRefreshTokenStore struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenStore creates a new PostgreSQL-backed RefreshTokenStore.
func NewRefreshTokenStore(pool *pgxpool.Pool) *PostgresRefreshTokenStore {
	return &PostgresRefreshTokenStore{pool: pool}
}

/*
SetCurrent stores the token as the user's only valid refresh token.

Parameters:
  - context: context.Context
  - userID: string
  - token: string

Returns:
  - error: apperr.NotFound if the user does not exist, or execution errors
*/
func (store *PostgresRefreshTokenStore) SetCurrent(context context.Context, userID, token string) error {
	const query = `
		UPDATE users.account
		SET refreshtoken = $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := store.pool.Exec(context, query, userID, token, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_refresh_token_set_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
GetCurrent returns the stored refresh token for the user.

Description: An empty string (not an error) signals that no session is active.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: The stored token or ""
  - error: apperr.NotFound if the user does not exist, or execution errors
*/
func (store *PostgresRefreshTokenStore) GetCurrent(context context.Context, userID string) (string, error) {
	const query = `
		SELECT COALESCE(refreshtoken, '')
		FROM users.account
		WHERE id = $1 AND deletedat IS NULL`

	var token string
	err := store.pool.QueryRow(context, query, userID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("User")
		}
		return "", fmt.Errorf("postgres_refresh_token_get_failed: %w", err)
	}

	return token, nil
}

/*
ReplaceIfCurrent atomically rotates the stored token.

Description: The WHERE clause pins the stored value to oldToken, so the UPDATE
is a compare-and-swap. If another request rotated first, zero rows are
affected and the caller learns it lost the race.

Parameters:
  - context: context.Context
  - userID: string
  - oldToken: string
  - newToken: string

Returns:
  - bool: true if this caller performed the rotation
  - error: Execution errors
*/
func (store *PostgresRefreshTokenStore) ReplaceIfCurrent(context context.Context, userID, oldToken, newToken string) (bool, error) {
	const query = `
		UPDATE users.account
		SET refreshtoken = $3, updatedat = $4
		WHERE id = $1 AND refreshtoken = $2 AND deletedat IS NULL`

	tag, err := store.pool.Exec(context, query, userID, oldToken, newToken, time.Now())
	if err != nil {
		return false, fmt.Errorf("postgres_refresh_token_replace_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

/*
Clear removes the user's stored refresh token.

Description: Idempotent; clearing an already-empty token is not an error.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (store *PostgresRefreshTokenStore) Clear(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET refreshtoken = NULL, updatedat = $2
		WHERE id = $1`

	_, err := store.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_refresh_token_clear_failed: %w", err)
	}

	return nil
}
