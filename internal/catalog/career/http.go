// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package career

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmasanja/elimu/internal/platform/middleware"
	requestutil "github.com/jmasanja/elimu/internal/platform/request"
	"github.com/jmasanja/elimu/internal/platform/respond"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/platform/validate"
)

// Handler implements the HTTP layer for career resources.
type Handler struct {
	careerService *Service
	gate          *middleware.Gate
}

// NewHandler constructs a new career [Handler].
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{careerService: service, gate: gate}
}

// capabilities is the route-capability table for this module.
var capabilities = map[string]middleware.Capability{
	"list":   middleware.Public,
	"get":    middleware.Public,
	"create": middleware.RequireRoles(sec.RoleAdmin),
	"update": middleware.RequireRoles(sec.RoleAdmin),
	"delete": middleware.RequireRoles(sec.RoleAdmin),
}

// Routes returns a [chi.Router] configured with the career endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.gate.Allow(capabilities["list"])).Get("/", handler.list)
	router.With(handler.gate.Allow(capabilities["create"])).Post("/", handler.create)
	router.With(handler.gate.Allow(capabilities["get"])).Get("/{id}", handler.get)
	router.With(handler.gate.Allow(capabilities["update"])).Patch("/{id}", handler.update)
	router.With(handler.gate.Allow(capabilities["delete"])).Delete("/{id}", handler.remove)

	return router
}

type createResourceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Icon        string `json:"icon"`
}

type updateResourceRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
	Icon        *string `json:"icon"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	resources, err := handler.careerService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, resources)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createResourceRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		Required("description", input.Description).
		Required("link", input.Link).
		URL("link", input.Link).
		Required("icon", input.Icon)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.careerService.Create(request.Context(), CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Link:        input.Link,
		Icon:        input.Icon,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.careerService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateResourceRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required("title", *input.Title).MaxLen("title", *input.Title, 255)
	}
	if input.Link != nil {
		validator.URL("link", *input.Link)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.careerService.Update(request.Context(), requestutil.Param(request, "id"), UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Link:        input.Link,
		Icon:        input.Icon,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.careerService.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
