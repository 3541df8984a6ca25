// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// Short (1h) to minimize the impact of a leaked token.
	AccessTokenTTL = 1 * time.Hour

	// AccessTokenExpirySeconds is the expiresIn value advertised to clients.
	// It must stay in lock-step with [AccessTokenTTL].
	AccessTokenExpirySeconds = 3600

	// RefreshTokenTTL is the duration a refresh token remains valid.
	// Long-lived (7 days) to provide a good user experience.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// TokenTypeBearer is the token type advertised alongside every issued pair.
	TokenTypeBearer = "Bearer"

	// MinPasswordLength is the minimum accepted password length at registration.
	MinPasswordLength = 8
)
