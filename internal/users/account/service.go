// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/users/auth"
	"github.com/jmasanja/elimu/pkg/pagination"
	"github.com/jmasanja/elimu/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates administrative account management.
//
// It composes the auth module's repositories for row access and the
// refresh-token ledger for session cleanup when accounts are removed.
type Service struct {
	userRepository    auth.UserRepository
	accountRepository AccountRepository
	tokenRepository   auth.RefreshTokenRepository
	logger            *slog.Logger
}

// NewService constructs a new account [Service] with its dependencies.
func NewService(
	userRepo auth.UserRepository,
	accountRepo AccountRepository,
	tokenRepo auth.RefreshTokenRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:    userRepo,
		accountRepository: accountRepo,
		tokenRepository:   tokenRepo,
		logger:            logger,
	}
}

// # Account Administration

/*
List returns one page of the member base.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []auth.User: The page of accounts
  - int: Total account count
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, params)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// CreateInput holds the data an administrator supplies when provisioning an account.
type CreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      sec.UserRole
}

/*
Create provisions a new account with an explicit role.

Description: Unlike self-registration, the caller picks the role — this is
how teacher and admin accounts come into existence. No session is issued.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: The created account
  - error: Conflict on duplicate email or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	user := &auth.User{
		ID:           uuidv7.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("account_provisioned",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
Get retrieves a single account by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *auth.User: Hydrated account
  - error: apperr.NotFound or execution failures
*/
func (service *Service) Get(context context.Context, id string) (*auth.User, error) {
	return service.userRepository.FindByID(context, id)
}

// UpdateInput defines the mutable subset of account fields for partial updates.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Role      *sec.UserRole
}

/*
Update applies a partial set of changes to an account.

Description: Fetches the existing state, overlays provided fields, and
synchronizes the change. Role changes are an admin-only concern enforced by
the caller before this point.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *auth.User: The updated account
  - error: Update or storage failures
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*auth.User, error) {

	user, err := service.userRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}

	// Apply delta updates
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	// Apply delta updates
	if input.Role != nil {
		user.Role = *input.Role
	}

	// Persist changes
	if err := service.userRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("account_updated", slog.String("user_id", id))

	return user, nil
}

/*
Delete removes an account and force-terminates all of its sessions.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or execution failures
*/
func (service *Service) Delete(context context.Context, id string) error {

	if err := service.accountRepository.Delete(context, id); err != nil {
		return err
	}

	// Force global revocation of sessions for the deleted account
	_ = service.tokenRepository.RevokeAllForOwner(context, id)

	service.logger.Warn("account_deleted", slog.String("user_id", id))

	return nil
}
