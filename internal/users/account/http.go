// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/middleware"
	requestutil "github.com/jmasanja/elimu/internal/platform/request"
	"github.com/jmasanja/elimu/internal/platform/respond"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/platform/validate"
	"github.com/jmasanja/elimu/internal/users/auth"
	"github.com/jmasanja/elimu/pkg/pagination"
)

// Handler implements the HTTP layer for administrative user management.
type Handler struct {
	accountService *Service
	gate           *middleware.Gate
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{accountService: service, gate: gate}
}

// capabilities is the route-capability table for this module.
//
// Updating an account allows the owner as well as admins; that ownership
// refinement happens inside the handler after the gate admits any
// authenticated principal.
var capabilities = map[string]middleware.Capability{
	"list":   middleware.RequireRoles(sec.RoleAdmin),
	"create": middleware.RequireRoles(sec.RoleAdmin),
	"get":    middleware.RequireRoles(sec.RoleAdmin),
	"update": middleware.Authenticated,
	"delete": middleware.RequireRoles(sec.RoleAdmin),
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.gate.Allow(capabilities["list"])).Get("/", handler.list)
	router.With(handler.gate.Allow(capabilities["create"])).Post("/", handler.create)
	router.With(handler.gate.Allow(capabilities["get"])).Get("/{id}", handler.get)
	router.With(handler.gate.Allow(capabilities["update"])).Patch("/{id}", handler.update)
	router.With(handler.gate.Allow(capabilities["delete"])).Delete("/{id}", handler.remove)

	return router
}

// # Request Payloads

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      *string `json:"role"`
}

/*
GET /api/v1/users.

Description: Lists the member base, newest first, paginated.

Response:
  - 200: []User + Meta: One page of accounts
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.accountService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/users.

Description: Provisions a new account with an explicit role.

Request:
  - Body: createUserRequest

Response:
  - 201: User: The created account
  - 400: Validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldPassword, input.Password).
		MinLen(auth.FieldPassword, input.Password, auth.MinPasswordLength).
		Required(auth.FieldFirstName, input.FirstName).
		Required(auth.FieldLastName, input.LastName).
		OneOf(auth.FieldRole, input.Role, string(sec.RoleAdmin), string(sec.RoleTeacher), string(sec.RoleStudent))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      sec.UserRole(input.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
GET /api/v1/users/{id}.

Description: Retrieves a single account.

Response:
  - 200: User
  - 404: ErrNotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/{id}.

Description: Applies partial updates to an account. The account owner may
update their own name fields; only admins may touch other accounts or change
roles.

Request:
  - Body: updateUserRequest (Partial JSON)

Response:
  - 200: User: The updated account
  - 403: ErrForbidden: Not the owner and not an admin
  - 404: ErrNotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.Param(request, "id")
	isAdmin := sec.UserRole(claims.Role).In(sec.RoleAdmin)

	// Ownership refinement on top of the gate decision
	if !isAdmin && claims.Subject != targetID {
		respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.FirstName != nil {
		validator.Required(auth.FieldFirstName, *input.FirstName)
	}
	if input.LastName != nil {
		validator.Required(auth.FieldLastName, *input.LastName)
	}
	if input.Role != nil {
		validator.OneOf(auth.FieldRole, *input.Role, string(sec.RoleAdmin), string(sec.RoleTeacher), string(sec.RoleStudent))
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Only admins may reassign roles
	if input.Role != nil && !isAdmin {
		respond.Error(writer, request, apperr.Forbidden("Only administrators can change roles"))
		return
	}

	serviceInput := UpdateInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if input.Role != nil {
		role := sec.UserRole(*input.Role)
		serviceInput.Role = &role
	}

	user, err := handler.accountService.Update(request.Context(), targetID, serviceInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{id}.

Description: Removes an account and revokes all of its sessions.

Response:
  - 204: No Content
  - 404: ErrNotFound
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.accountService.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
