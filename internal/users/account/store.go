// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

/*
Package account implements administrative user management.

It covers everything an operator does to accounts that is NOT part of the
session lifecycle: listing the member base, provisioning accounts with
elevated roles, correcting profile data, and removing accounts.

# Security

Most operations here are restricted to the admin role; profile updates allow
the account owner as well. The route-capability table in http.go is the
single source of truth for this policy.
*/
package account

import (
	"context"

	"github.com/jmasanja/elimu/internal/users/auth"
	"github.com/jmasanja/elimu/pkg/pagination"
)

// # Data Access

// AccountRepository defines the data access contract for administrative
// account management. It operates on the same rows as the auth module's
// [auth.UserRepository] but adds enumeration and removal.
type AccountRepository interface {

	/*
		List returns a page of accounts ordered by creation time, newest first.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []auth.User: The page of accounts
		  - int: Total account count
		  - error: Database retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]auth.User, int, error)

	/*
		Delete permanently removes an account row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound when the row does not exist, or execution errors
	*/
	Delete(context context.Context, id string) error
}
