// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

// Package middleware provides the HTTP middleware chain for the Elimu API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"net/http"
	"strings"

	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/ctxutil"
	"github.com/jmasanja/elimu/internal/platform/respond"
	"github.com/jmasanja/elimu/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in the gate.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the gate from the [sec.TokenService]
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyAccessToken(tokenStr string) (*sec.AccessClaims, error)
}

// Capability declares the access policy for a single operation.
//
// Each domain module keeps an explicit table of operation → Capability and
// consults it when mounting routes. This replaces scattered per-handler
// checks with one auditable declaration per endpoint.
type Capability struct {
	// Public marks the operation as reachable without any credential.
	Public bool

	// Roles is the set of roles permitted to invoke the operation.
	// An empty set means any authenticated principal may proceed.
	Roles []sec.UserRole
}

// Public is the capability for operations open to anonymous clients.
var Public = Capability{Public: true}

// Authenticated is the capability for operations open to any signed-in principal.
var Authenticated = Capability{}

// RequireRoles builds a capability restricted to the given role set.
func RequireRoles(roles ...sec.UserRole) Capability {
	return Capability{Roles: roles}
}

// Gate is the per-request authorization decision procedure.
//
// # Decision Flow
//
// Every request passes through exactly one of these outcomes:
//
//  1. The operation is public → proceed, no principal attached.
//  2. Bearer credential missing/malformed → 401, handler never runs.
//  3. Token verification fails (expired, bad signature) → 401, handler never runs.
//  4. Verified, but role not in the operation's role set → 403, handler never runs.
//  5. Verified and authorized → principal attached to context, handler runs.
//
// Rejections abort before any side effect of the target operation.
type Gate struct {
	verifier TokenVerifier
}

// NewGate constructs an authorization [Gate] around a token verifier.
func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Allow returns the middleware enforcing the given [Capability].
func (gate *Gate) Allow(capability Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Public Operations ──────────────────────────────────────────
			if capability.Public {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Credential Extraction ──────────────────────────────────────
			claims, err := gate.authenticate(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Role Evaluation ────────────────────────────────────────────
			if len(capability.Roles) > 0 {
				role := sec.UserRole(claims.Role)
				if !role.In(capability.Roles...) {
					respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
					return
				}
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// authenticate extracts and verifies the bearer credential from the request.
func (gate *Gate) authenticate(request *http.Request) (*sec.AccessClaims, error) {
	authHeader := request.Header.Get("Authorization")
	if authHeader == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, apperr.Unauthorized("Invalid authorization format")
	}

	claims, err := gate.verifier.VerifyAccessToken(parts[1])
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	return claims, nil
}
