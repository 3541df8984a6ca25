// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmasanja/elimu/internal/platform/middleware"
	requestutil "github.com/jmasanja/elimu/internal/platform/request"
	"github.com/jmasanja/elimu/internal/platform/respond"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the session lifecycle entry points (Registration,
// Login, Rotation, Revocation, Profile).
type Handler struct {
	authService *Service
	gate        *middleware.Gate
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{authService: service, gate: gate}
}

// capabilities is the route-capability table for this module.
//
// Every operation declares its access policy here, and Routes consults this
// table when mounting. The [middleware.Gate] enforces it per request.
var capabilities = map[string]middleware.Capability{
	"register":  middleware.Public,
	"login":     middleware.Public,
	"refresh":   middleware.Public,
	"logout":    middleware.Authenticated,
	"logoutAll": middleware.Authenticated,
	"profile":   middleware.Authenticated,
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register   : Creates a new account and returns a token pair.
//   - POST /login      : Authenticates and returns a token pair.
//   - POST /refresh    : Rotates a refresh token into a new pair.
//   - POST /logout     : Revokes one refresh token.
//   - POST /logout-all : Revokes every refresh token of the caller.
//   - GET  /profile    : Returns the authenticated principal.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.gate.Allow(capabilities["register"])).Post("/register", handler.register)
	router.With(handler.gate.Allow(capabilities["login"])).Post("/login", handler.login)
	router.With(handler.gate.Allow(capabilities["refresh"])).Post("/refresh", handler.refresh)
	router.With(handler.gate.Allow(capabilities["logout"])).Post("/logout", handler.logout)
	router.With(handler.gate.Allow(capabilities["logoutAll"])).Post("/logout-all", handler.logoutAll)
	router.With(handler.gate.Allow(capabilities["profile"])).Get("/profile", handler.profile)

	return router
}

// # Request Payloads

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, persists a new
user profile, and establishes its first session.

Request:
  - Body: registerRequest (Email, Password, FirstName, LastName)

Response:
  - 200: TokenPair: Fresh credentials for the new account
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, _, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      sec.RoleStudent,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, pair)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials and returns a fresh token pair.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: TokenPair: Access and refresh credentials
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, pair)
}

/*
Refresh rotates a refresh token into a new token pair.

POST /api/v1/auth/refresh

Description: Validates the presented refresh token, revokes it atomically,
and returns rotated credentials.

Request:
  - Body: refreshRequest (RefreshToken)

Response:
  - 200: TokenPair: Rotated credentials
  - 401: ErrUnauthorized: Missing, revoked, or expired refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRefreshToken, "is required"))
		return
	}

	pair, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, pair)
}

/*
Logout revokes the presented refresh token.

POST /api/v1/auth/logout

Description: Best-effort, idempotent revocation of a single session.
The call requires authentication but does not verify that the caller owns
the token being revoked.

Request:
  - Body: logoutRequest (RefreshToken)

Response:
  - 200: Message: Session terminated
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input logoutRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRefreshToken, "is required"))
		return
	}

	if err := handler.authService.Logout(request.Context(), input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Logged out successfully")
}

/*
LogoutAll revokes every refresh token owned by the caller.

POST /api/v1/auth/logout-all

Description: Invalidates all of the principal's sessions across devices.

Response:
  - 200: Message: All sessions terminated
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) logoutAll(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.LogoutAll(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Logged out from all devices")
}

/*
Profile returns the authenticated principal's account.

GET /api/v1/auth/profile

Description: Resolves the access-token subject into the current account row.
Secret fields are never serialized.

Response:
  - 200: User: The caller's profile
  - 401: ErrUnauthorized: Missing or invalid access token
  - 404: ErrNotFound: The principal no longer exists
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, user)
}
