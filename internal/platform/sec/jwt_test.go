// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmasanja/elimu/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("test-access-secret", "test-refresh-secret", "elimu.co.tz")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_Construction verifies the secret hygiene rules: both secrets
required, and the two secrets must differ.
*/
func TestTokenService_Construction(t *testing.T) {
	// 1. Missing secrets are rejected
	_, err := sec.NewTokenService("", "refresh", "elimu.co.tz")
	assert.Error(t, err)
	_, err = sec.NewTokenService("access", "", "elimu.co.tz")
	assert.Error(t, err)

	// 2. Identical secrets are rejected
	_, err = sec.NewTokenService("same-secret", "same-secret", "elimu.co.tz")
	assert.Error(t, err)

	// 3. Distinct non-empty secrets succeed
	_, err = sec.NewTokenService("access", "refresh", "elimu.co.tz")
	assert.NoError(t, err)
}

/*
TestTokenService_AccessTokenRoundTrip verifies that issued access tokens
carry the full identity claim set back through verification.
*/
func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.IssueAccessToken("user-1", "neema@example.co.tz", "teacher", "Neema", "Swai", time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "neema@example.co.tz", claims.Email)
	assert.Equal(t, "teacher", claims.Role)
	assert.Equal(t, "Neema", claims.FirstName)
	assert.Equal(t, "Swai", claims.LastName)
	assert.Equal(t, "elimu.co.tz", claims.Issuer)
}

/*
TestTokenService_ExpiryBoundary verifies expiry enforcement at both sides of
the boundary: a token with one second of life left verifies, an already
expired token does not.
*/
func TestTokenService_ExpiryBoundary(t *testing.T) {
	service := newTokenService(t)

	// 1. One second before expiry still verifies
	aliveToken, err := service.IssueAccessToken("user-1", "a@b.tz", "student", "A", "B", 1*time.Second)
	require.NoError(t, err)
	_, err = service.VerifyAccessToken(aliveToken)
	assert.NoError(t, err)

	// 2. A token minted already past its expiry fails
	deadToken, err := service.IssueAccessToken("user-1", "a@b.tz", "student", "A", "B", -1*time.Second)
	require.NoError(t, err)
	_, err = service.VerifyAccessToken(deadToken)
	assert.Error(t, err)
}

/*
TestTokenService_SecretSeparation verifies that a refresh token never passes
access-token verification: the two token families are signed with distinct
secrets.
*/
func TestTokenService_SecretSeparation(t *testing.T) {
	service := newTokenService(t)

	refreshToken, err := service.IssueRefreshToken("user-1", time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(refreshToken)
	assert.Error(t, err)
}

/*
TestTokenService_RefreshTokensAreUnique verifies that two refresh tokens
minted back-to-back for the same user are distinct strings. Claims are stamped
at one-second precision, so without a per-token ID two tokens issued within
the same second would be byte-identical — and so would their ledger hashes.
*/
func TestTokenService_RefreshTokensAreUnique(t *testing.T) {
	service := newTokenService(t)

	first, err := service.IssueRefreshToken("user-1", time.Hour)
	require.NoError(t, err)
	second, err := service.IssueRefreshToken("user-1", time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, sec.HashToken(first), sec.HashToken(second))
}

/*
TestTokenService_RejectsForeignSignature verifies that a token signed by a
service with a different access secret is rejected.
*/
func TestTokenService_RejectsForeignSignature(t *testing.T) {
	service := newTokenService(t)

	foreign, err := sec.NewTokenService("someone-elses-access", "someone-elses-refresh", "elimu.co.tz")
	require.NoError(t, err)

	token, err := foreign.IssueAccessToken("user-1", "a@b.tz", "student", "A", "B", time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsGarbage verifies malformed input is rejected rather
than panicking.
*/
func TestTokenService_RejectsGarbage(t *testing.T) {
	service := newTokenService(t)

	for _, input := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := service.VerifyAccessToken(input)
		assert.Error(t, err)
	}
}
