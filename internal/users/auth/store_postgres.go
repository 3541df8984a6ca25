// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

// PostgreSQL implementations of the auth repositories.
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

	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/dberr"
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

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, passwordhash, firstname, lastname, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Performs a lookup on the account table. Callers must pass the
email already lower-normalized.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, firstname, lastname, role, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
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
	const query = `
		SELECT id, email, passwordhash, firstname, lastname, role, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

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
		SET email = $2, firstname = $3, lastname = $4, role = $5, updatedat = $6
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

// # Refresh Token Repository

// PostgresRefreshTokenRepository implements the RefreshTokenRepository interface.
type PostgresRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository creates a new PostgreSQL implementation of RefreshTokenRepository.
func NewRefreshTokenRepository(pool *pgxpool.Pool) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{pool: pool}
}

/*
Create persists a new record into the users.refreshtoken ledger.

Description: Records a freshly minted refresh token in persistent storage.

Parameters:
  - context: context.Context
  - record: *RefreshTokenRecord

Returns:
  - error: Storage failures
*/
func (repository *PostgresRefreshTokenRepository) Create(context context.Context, record *RefreshTokenRecord) error {
	const query = `
		INSERT INTO users.refreshtoken (
			id, tokenhash, ownerid, issuedat, expiresat, revoked
		) VALUES ($1, $2, $3, $4, $5, $6)`

	if record.IssuedAt.IsZero() {
		record.IssuedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		record.ID,
		record.TokenHash,
		record.OwnerID,
		record.IssuedAt,
		record.ExpiresAt,
		record.Revoked,
	)

	if err != nil {
		return fmt.Errorf("postgres_refresh_token_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash retrieves a ledger record by its unique token hash.

Description: Resolves a refresh token hash into its record regardless of
revoked or expired status. The caller decides validity.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *RefreshTokenRecord: Hydrated record
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRefreshTokenRepository) FindByTokenHash(context context.Context, tokenHash string) (*RefreshTokenRecord, error) {
	const query = `
		SELECT id, tokenhash, ownerid, issuedat, expiresat, revoked
		FROM users.refreshtoken
		WHERE tokenhash = $1`

	record := &RefreshTokenRecord{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&record.ID,
		&record.TokenHash,
		&record.OwnerID,
		&record.IssuedAt,
		&record.ExpiresAt,
		&record.Revoked,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Refresh token")
		}
		return nil, fmt.Errorf("postgres_refresh_token_repo_find_failed: %w", err)
	}

	return record, nil
}

/*
RevokeIfActive atomically revokes the record only while it is still usable.

Description: The WHERE clause makes the revocation conditional on the row
being non-revoked and unexpired, and the affected-row count reports whether
THIS statement won. Under two concurrent rotations of the same token value,
PostgreSQL row locking guarantees exactly one caller sees applied=true.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - bool: true when the revocation was applied by this call
  - error: Execution errors
*/
func (repository *PostgresRefreshTokenRepository) RevokeIfActive(context context.Context, tokenHash string) (bool, error) {
	const query = `
		UPDATE users.refreshtoken
		SET revoked = TRUE
		WHERE tokenhash = $1 AND revoked = FALSE AND expiresat > NOW()`

	commandTag, err := repository.pool.Exec(context, query, tokenHash)
	if err != nil {
		return false, fmt.Errorf("postgres_refresh_token_repo_revoke_if_active_failed: %w", err)
	}

	return commandTag.RowsAffected() > 0, nil
}

/*
Revoke unconditionally marks a ledger record as revoked.

Description: Idempotent; revoking an already-revoked or missing record
succeeds silently.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: Revocation failures
*/
func (repository *PostgresRefreshTokenRepository) Revoke(context context.Context, tokenHash string) error {
	const query = "UPDATE users.refreshtoken SET revoked = TRUE WHERE tokenhash = $1"
	_, err := repository.pool.Exec(context, query, tokenHash)
	if err != nil {
		return fmt.Errorf("postgres_refresh_token_repo_revoke_failed: %w", err)
	}
	return nil
}

/*
RevokeAllForOwner marks all active records for an owner as revoked.

Description: Security nuking of every live session for a user.

Parameters:
  - context: context.Context
  - ownerID: string

Returns:
  - error: Batch revocation failures
*/
func (repository *PostgresRefreshTokenRepository) RevokeAllForOwner(context context.Context, ownerID string) error {
	const query = "UPDATE users.refreshtoken SET revoked = TRUE WHERE ownerid = $1 AND revoked = FALSE"
	_, err := repository.pool.Exec(context, query, ownerID)
	if err != nil {
		return fmt.Errorf("postgres_refresh_token_repo_revoke_all_failed: %w", err)
	}
	return nil
}

/*
DeleteExpiredRevoked permanently removes rows that are both expired and revoked.

Description: Cleanup task to reclaim storage from dead ledger rows without
touching the audit trail of anything still meaningful.

Parameters:
  - context: context.Context

Returns:
  - error: Cleanup failures
*/
func (repository *PostgresRefreshTokenRepository) DeleteExpiredRevoked(context context.Context) error {
	const query = "DELETE FROM users.refreshtoken WHERE expiresat <= NOW() AND revoked = TRUE"
	_, err := repository.pool.Exec(context, query)
	if err != nil {
		return fmt.Errorf("postgres_refresh_token_repo_purge_failed: %w", err)
	}
	return nil
}
