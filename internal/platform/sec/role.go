// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can publish and manage learning resources
	RoleTeacher UserRole = "teacher"

	// Default role for standard registered users
	RoleStudent UserRole = "student"
)

// Valid reports whether the role is one of the known enum values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// # Role Sets

// In reports whether the role is a member of the given set.
//
// Authorization is decided by set membership rather than a numeric hierarchy:
// an operation declares exactly which roles may invoke it.
func (r UserRole) In(set ...UserRole) bool {
	for _, allowed := range set {
		if r == allowed {
			return true
		}
	}
	return false
}
