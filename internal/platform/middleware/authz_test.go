// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmasanja/elimu/internal/platform/ctxutil"
	"github.com/jmasanja/elimu/internal/platform/middleware"
	"github.com/jmasanja/elimu/internal/platform/sec"
)

// stubVerifier resolves a fixed set of token strings to claims.
type stubVerifier struct {
	tokens map[string]*sec.AccessClaims
}

func (verifier *stubVerifier) VerifyAccessToken(tokenStr string) (*sec.AccessClaims, error) {
	if claims, ok := verifier.tokens[tokenStr]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func newGate(role sec.UserRole) *middleware.Gate {
	claims := &sec.AccessClaims{Role: string(role)}
	claims.Subject = "user-1"
	return middleware.NewGate(&stubVerifier{
		tokens: map[string]*sec.AccessClaims{"valid-token": claims},
	})
}

// invoke runs a request through the gate with the given capability and
// reports the status code plus whether the inner handler executed.
func invoke(gate *middleware.Gate, capability middleware.Capability, authHeader string) (int, bool) {
	executed := false
	handler := gate.Allow(capability)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		executed = true
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/resource", nil)
	if authHeader != "" {
		request.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	return recorder.Code, executed
}

/*
TestGate_PublicOperation verifies that a public capability passes requests
through untouched, with or without credentials.
*/
func TestGate_PublicOperation(t *testing.T) {
	gate := newGate(sec.RoleStudent)

	status, executed := invoke(gate, middleware.Public, "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, executed)

	status, executed = invoke(gate, middleware.Public, "Bearer garbage")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, executed)
}

/*
TestGate_MissingOrMalformedCredential verifies the rejection paths before
token verification: absent header and malformed header both yield 401 and the
handler never runs.
*/
func TestGate_MissingOrMalformedCredential(t *testing.T) {
	gate := newGate(sec.RoleStudent)

	// 1. No Authorization header
	status, executed := invoke(gate, middleware.Authenticated, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, executed)

	// 2. Not a bearer scheme
	status, executed = invoke(gate, middleware.Authenticated, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, executed)

	// 3. Bearer with no token part
	status, executed = invoke(gate, middleware.Authenticated, "Bearer")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, executed)
}

/*
TestGate_InvalidToken verifies that a failing verification yields 401 without
executing the handler.
*/
func TestGate_InvalidToken(t *testing.T) {
	gate := newGate(sec.RoleStudent)

	status, executed := invoke(gate, middleware.Authenticated, "Bearer expired-or-forged")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, executed)
}

/*
TestGate_RoleEvaluation verifies the 403 outcome: a student hitting an
admin-only capability is rejected after authentication, while an admin
passes. An empty role set admits any authenticated principal.
*/
func TestGate_RoleEvaluation(t *testing.T) {
	adminOnly := middleware.RequireRoles(sec.RoleAdmin)

	// 1. Student → Forbidden
	status, executed := invoke(newGate(sec.RoleStudent), adminOnly, "Bearer valid-token")
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, executed)

	// 2. Admin → Authorized
	status, executed = invoke(newGate(sec.RoleAdmin), adminOnly, "Bearer valid-token")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, executed)

	// 3. Any authenticated principal clears an empty role set
	status, executed = invoke(newGate(sec.RoleStudent), middleware.Authenticated, "Bearer valid-token")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, executed)

	// 4. Multi-role set admits each member
	staff := middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher)
	status, _ = invoke(newGate(sec.RoleTeacher), staff, "Bearer valid-token")
	assert.Equal(t, http.StatusOK, status)
}

/*
TestGate_AttachesPrincipal verifies that an authorized request carries the
verified claims in its context for downstream handlers.
*/
func TestGate_AttachesPrincipal(t *testing.T) {
	gate := newGate(sec.RoleTeacher)

	var principal *sec.AccessClaims
	handler := gate.Allow(middleware.Authenticated)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal = ctxutil.GetPrincipal(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/resource", nil)
	request.Header.Set("Authorization", "Bearer valid-token")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.NotNil(t, principal)
	assert.Equal(t, "user-1", principal.Subject)
	assert.Equal(t, "teacher", principal.Role)
}
