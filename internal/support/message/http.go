// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package message

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmasanja/elimu/internal/platform/middleware"
	requestutil "github.com/jmasanja/elimu/internal/platform/request"
	"github.com/jmasanja/elimu/internal/platform/respond"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/platform/validate"
)

// Handler implements the HTTP layer for the contact inbox.
type Handler struct {
	messageService *Service
	gate           *middleware.Gate
}

// NewHandler constructs a new message [Handler].
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{messageService: service, gate: gate}
}

// capabilities is the route-capability table for this module.
// Submission is the only public operation; the inbox itself is admin-only.
var capabilities = map[string]middleware.Capability{
	"create": middleware.Public,
	"list":   middleware.RequireRoles(sec.RoleAdmin),
	"stats":  middleware.RequireRoles(sec.RoleAdmin),
	"get":    middleware.RequireRoles(sec.RoleAdmin),
	"status": middleware.RequireRoles(sec.RoleAdmin),
	"delete": middleware.RequireRoles(sec.RoleAdmin),
}

// Routes returns a [chi.Router] configured with the inbox endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.gate.Allow(capabilities["create"])).Post("/", handler.create)
	router.With(handler.gate.Allow(capabilities["list"])).Get("/", handler.list)
	router.With(handler.gate.Allow(capabilities["stats"])).Get("/stats", handler.stats)
	router.With(handler.gate.Allow(capabilities["get"])).Get("/{id}", handler.get)
	router.With(handler.gate.Allow(capabilities["status"])).Patch("/{id}/status", handler.updateStatus)
	router.With(handler.gate.Allow(capabilities["delete"])).Delete("/{id}", handler.remove)

	return router
}

type createMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createMessageRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		Required("email", input.Email).
		Email("email", input.Email).
		MaxLen("phone", input.Phone, 20).
		Required("subject", input.Subject).
		MaxLen("subject", input.Subject, 200).
		Required("message", input.Message)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.messageService.Create(request.Context(), CreateInput{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Subject: input.Subject,
		Message: input.Message,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	status := Status(query.Get("status"))
	if !status.Valid() {
		status = ""
	}

	messages, err := handler.messageService.List(request.Context(), ListFilter{
		Status: status,
		Search: query.Get("search"),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messages)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.messageService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	var input updateStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.OneOf("status", input.Status, string(StatusNew), string(StatusRead))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.messageService.UpdateStatus(request.Context(), requestutil.Param(request, "id"), Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.messageService.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.messageService.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}
