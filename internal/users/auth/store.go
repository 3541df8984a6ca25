// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given normalized email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (including unique-email violations)
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile fields.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error
}

// # Refresh Token Ledger

// RefreshTokenRepository defines the data access contract for the
// refresh-token ledger.
//
// # Concurrency Contract
//
// Rotation must treat "find a valid record, revoke it, issue a replacement"
// as effectively atomic per token value. [RefreshTokenRepository.RevokeIfActive]
// is the primitive that makes this possible: it is a conditional update whose
// return value tells the caller whether THIS call performed the revocation.
// Two concurrent rotations of the same token value therefore resolve to
// exactly one winner.
type RefreshTokenRepository interface {

	/*
		Create persists a new ledger record for a freshly minted refresh token.

		Parameters:
		  - context: context.Context
		  - record: *RefreshTokenRecord

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, record *RefreshTokenRecord) error

	/*
		FindByTokenHash returns the record matching the given token hash
		REGARDLESS of its revoked or expired status. Validity checks are the
		caller's responsibility.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *RefreshTokenRecord: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*RefreshTokenRecord, error)

	/*
		RevokeIfActive conditionally revokes the record matching the token hash,
		but only while it is non-revoked and unexpired.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - bool: true when this call performed the revocation; false when the
		    record was already revoked, expired, or absent
		  - error: Execution errors only (a non-applied update is not an error)
	*/
	RevokeIfActive(context context.Context, tokenHash string) (bool, error)

	/*
		Revoke unconditionally marks the record as revoked. Idempotent; a
		missing record is a silent no-op.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Execution errors
	*/
	Revoke(context context.Context, tokenHash string) error

	/*
		RevokeAllForOwner revokes every currently non-revoked record belonging
		to the owner. Idempotent, no-op when none exist.

		Parameters:
		  - context: context.Context
		  - ownerID: string

		Returns:
		  - error: Batch revocation failures
	*/
	RevokeAllForOwner(context context.Context, ownerID string) error

	/*
		DeleteExpiredRevoked physically removes long-dead ledger rows
		(both expired AND revoked). Maintenance only; never on the request path.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Cleanup failures
	*/
	DeleteExpiredRevoked(context context.Context) error
}
