// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package tutorial

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmasanja/elimu/internal/catalog/book"
	"github.com/jmasanja/elimu/internal/platform/middleware"
	requestutil "github.com/jmasanja/elimu/internal/platform/request"
	"github.com/jmasanja/elimu/internal/platform/respond"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/platform/validate"
)

// Handler implements the HTTP layer for tutorials.
type Handler struct {
	tutorialService *Service
	gate            *middleware.Gate
}

// NewHandler constructs a new tutorial [Handler].
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{tutorialService: service, gate: gate}
}

// capabilities is the route-capability table for this module.
var capabilities = map[string]middleware.Capability{
	"list":   middleware.Public,
	"facets": middleware.Public,
	"get":    middleware.Public,
	"create": middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher),
	"update": middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher),
	"delete": middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher),
}

// Routes returns a [chi.Router] configured with the tutorial endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.gate.Allow(capabilities["list"])).Get("/", handler.list)
	router.With(handler.gate.Allow(capabilities["create"])).Post("/", handler.create)

	router.With(handler.gate.Allow(capabilities["facets"])).Get("/levels", handler.levels)
	router.With(handler.gate.Allow(capabilities["facets"])).Get("/subjects", handler.subjects)
	router.With(handler.gate.Allow(capabilities["facets"])).Get("/classes", handler.classes)

	router.With(handler.gate.Allow(capabilities["get"])).Get("/{id}", handler.get)
	router.With(handler.gate.Allow(capabilities["update"])).Patch("/{id}", handler.update)
	router.With(handler.gate.Allow(capabilities["delete"])).Delete("/{id}", handler.remove)

	return router
}

type createTutorialRequest struct {
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	Level       string `json:"level"`
	Class       string `json:"class"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
}

type updateTutorialRequest struct {
	Title       *string `json:"title"`
	Subject     *string `json:"subject"`
	Level       *string `json:"level"`
	Class       *string `json:"class"`
	Description *string `json:"description"`
	VideoURL    *string `json:"videoUrl"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := ListFilter{
		Level:   levelFromQuery(request),
		Subject: query.Get("subject"),
		Class:   query.Get("class"),
	}

	tutorials, err := handler.tutorialService.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tutorials)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createTutorialRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		Required("subject", input.Subject).
		Required("class", input.Class).
		Required("description", input.Description).
		OneOf("level", input.Level, string(book.LevelPrimary), string(book.LevelSecondary)).
		Required("videoUrl", input.VideoURL).
		URL("videoUrl", input.VideoURL)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.tutorialService.Create(request.Context(), CreateInput{
		Title:       input.Title,
		Subject:     input.Subject,
		Level:       book.EducationLevel(input.Level),
		Class:       input.Class,
		Description: input.Description,
		VideoURL:    input.VideoURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.tutorialService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateTutorialRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required("title", *input.Title).MaxLen("title", *input.Title, 255)
	}
	if input.Level != nil {
		validator.OneOf("level", *input.Level, string(book.LevelPrimary), string(book.LevelSecondary))
	}
	if input.VideoURL != nil {
		validator.URL("videoUrl", *input.VideoURL)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceInput := UpdateInput{
		Title:       input.Title,
		Subject:     input.Subject,
		Class:       input.Class,
		Description: input.Description,
		VideoURL:    input.VideoURL,
	}
	if input.Level != nil {
		level := book.EducationLevel(*input.Level)
		serviceInput.Level = &level
	}

	entity, err := handler.tutorialService.Update(request.Context(), requestutil.Param(request, "id"), serviceInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.tutorialService.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Facets

func (handler *Handler) levels(writer http.ResponseWriter, request *http.Request) {
	levels, err := handler.tutorialService.Levels(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string][]string{"levels": levels})
}

func (handler *Handler) subjects(writer http.ResponseWriter, request *http.Request) {
	subjects, err := handler.tutorialService.Subjects(request.Context(), levelFromQuery(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string][]string{"subjects": subjects})
}

func (handler *Handler) classes(writer http.ResponseWriter, request *http.Request) {
	classes, err := handler.tutorialService.Classes(request.Context(), levelFromQuery(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string][]string{"classes": classes})
}

// levelFromQuery parses and validates the optional level query parameter.
func levelFromQuery(request *http.Request) book.EducationLevel {
	level := book.EducationLevel(request.URL.Query().Get("level"))
	if !level.Valid() {
		return ""
	}
	return level
}
