// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, RefreshTokenRecord) and logic for
authentication, authorization, and the token lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/jmasanja/elimu/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Elimu platform.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// RefreshTokenRecord is one row of the persisted refresh-token ledger.
//
// # Lifecycle
//
// Exactly one record is created per successful login, registration, or
// refresh. A record transitions revoked=false → true at most once; repeated
// revocations are idempotent no-ops. Records are never hard-deleted on the
// request path — the ledger doubles as an audit trail, and long-expired
// revoked rows are reclaimed only by the maintenance purge.
type RefreshTokenRecord struct {
	ID        string    `json:"id"`
	TokenHash string    `json:"-"` // SHA-256 digest of the refresh token. Omitted for security.
	OwnerID   string    `json:"ownerId"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Revoked   bool      `json:"revoked"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldFirstName    = "firstName"
	FieldLastName     = "lastName"
	FieldRole         = "role"
	FieldRefreshToken = "refreshToken"
	FieldMessage      = "message"
)
