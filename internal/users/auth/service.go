// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/pkg/uuidv7"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting signed security tokens.
type TokenIssuer interface {
	// IssueAccessToken creates a signed JWT carrying the principal's identity claims.
	//
	// # Parameters
	//   - userID, email, role, firstName, lastName: The identity embedded in the claims.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	IssueAccessToken(userID, email, role, firstName, lastName string, timeToLive time.Duration) (string, error)

	// IssueRefreshToken creates a signed JWT carrying only the subject ID,
	// signed with the refresh secret.
	IssueRefreshToken(userID string, timeToLive time.Duration) (string, error)
}

// TokenPair is the pair of credentials returned to a freshly authenticated client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or rotation logic must be reviewed by the security team.
type Service struct {
	userRepository  UserRepository
	tokenRepository RefreshTokenRepository
	tokenIssuer     TokenIssuer
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	tokenRepo RefreshTokenRepository,
	issuer TokenIssuer,
) *Service {
	return &Service{
		userRepository:  userRepo,
		tokenRepository: tokenRepo,
		tokenIssuer:     issuer,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      sec.UserRole
}

/*
Register validates, hashes, and persists a brand new user account, then
establishes its first session.

Description: Enrollment of a new member, handling password hashing and the
initial token pair issuance.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *TokenPair: Freshly issued credentials
  - *User: Created entity
  - err: Conflict (if the email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*TokenPair, *User, error) {

	email := normalizeEmail(input.Email)

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	role := input.Role
	if !role.Valid() {
		role = sec.RoleStudent
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
	}

	// Persist the user to the database. The unique index on email is the
	// final arbiter against a concurrent registration of the same address.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, nil, err
	}

	pair, err := service.issuePair(context, user)
	if err != nil {
		return nil, nil, err
	}

	return pair, user, nil
}

// # Authentication Flow

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
and persists a fresh refresh-token ledger record.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *TokenPair: Transport-ready session credentials
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, email, password string) (*TokenPair, error) {

	user, err := service.userRepository.FindByEmail(context, normalizeEmail(email))

	// If (err != nil) the user does not exist. Generic message to prevent enumeration:
	// an unknown email and a wrong password must be indistinguishable to the caller.
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	return service.issuePair(context, user)
}

// # Session Management

/*
Refresh implements the Refresh Token Rotation mechanism.

Description: Resolves the presented refresh token, conditionally revokes it so
that THIS call is the single winner (replay attack mitigation), and issues a
fresh rotated pair. A second call with the same token value must fail.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *TokenPair: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*TokenPair, error) {

	// Hash the incoming refresh token to look it up in the ledger
	tokenHash := sec.HashToken(refreshToken)
	record, err := service.tokenRepository.FindByTokenHash(context, tokenHash)

	// Unknown token value. Invalid tokens are never "repaired".
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	// Rotation: the conditional revoke is the atomicity point. Under two
	// concurrent refreshes of the same value exactly one call gets applied=true;
	// the loser observes an already-revoked row and fails here.
	applied, err := service.tokenRepository.RevokeIfActive(context, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}
	if !applied {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Fetch the owner to rebuild the access-token claims
	user, err := service.userRepository.FindByID(context, record.OwnerID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	return service.issuePair(context, user)
}

/*
Logout revokes the presented refresh token.

Description: Best-effort revocation; a missing or already-revoked token is a
silent success so that logout is always idempotent. Ownership of the token is
NOT verified against the caller (see the ledger docs for the trade-off).

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures only
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if err := service.tokenRepository.Revoke(context, sec.HashToken(refreshToken)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

/*
LogoutAll revokes every active refresh token owned by the principal.

Description: Invalidates all sessions across all devices. Idempotent; a
principal with no active tokens is a no-op.

Parameters:
  - context: context.Context
  - ownerID: string

Returns:
  - err: Batch revocation failures
*/
func (service *Service) LogoutAll(context context.Context, ownerID string) error {
	if err := service.tokenRepository.RevokeAllForOwner(context, ownerID); err != nil {
		return fmt.Errorf("auth_service_logout_all_failed: %w", err)
	}
	return nil
}

/*
GetProfile returns the principal's account without secret fields.

Parameters:
  - context: context.Context
  - ownerID: string

Returns:
  - *User: Hydrated entity (PasswordHash never serialized)
  - err: apperr.NotFound if the principal no longer exists
*/
func (service *Service) GetProfile(context context.Context, ownerID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, ownerID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # Internals

// issuePair mints an access+refresh pair for the user and persists the
// refresh side of it to the ledger.
func (service *Service) issuePair(context context.Context, user *User) (*TokenPair, error) {

	// Short-lived stateless access token
	accessToken, err := service.tokenIssuer.IssueAccessToken(
		user.ID, user.Email, string(user.Role), user.FirstName, user.LastName, AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	// Long-lived refresh token, persisted immediately after minting
	refreshToken, err := service.tokenIssuer.IssueRefreshToken(user.ID, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := time.Now()
	record := &RefreshTokenRecord{
		ID:        uuidv7.New(),
		TokenHash: sec.HashToken(refreshToken),
		OwnerID:   user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(RefreshTokenTTL),
		Revoked:   false,
	}

	if err := service.tokenRepository.Create(context, record); err != nil {
		return nil, fmt.Errorf("auth_service_ledger_create_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    AccessTokenExpirySeconds,
		TokenType:    TokenTypeBearer,
	}, nil
}

// normalizeEmail lowers and trims an email address for case-insensitive identity.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
