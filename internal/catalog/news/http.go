// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package news

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/middleware"
	requestutil "github.com/jmasanja/elimu/internal/platform/request"
	"github.com/jmasanja/elimu/internal/platform/respond"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/platform/validate"
	"github.com/jmasanja/elimu/pkg/pagination"
)

// maxImageBytes is the upload ceiling for article images.
const maxImageBytes = 5 << 20

// Handler implements the HTTP layer for news articles.
type Handler struct {
	newsService *Service
	gate        *middleware.Gate
}

// NewHandler constructs a new news [Handler].
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{newsService: service, gate: gate}
}

// capabilities is the route-capability table for this module.
var capabilities = map[string]middleware.Capability{
	"list":        middleware.Public,
	"categories":  middleware.Public,
	"latest":      middleware.Public,
	"get":         middleware.Public,
	"listAll":     middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher),
	"create":      middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher),
	"update":      middleware.Authenticated,
	"delete":      middleware.Authenticated,
	"attachImage": middleware.Authenticated,
}

// Routes returns a [chi.Router] configured with the news endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.gate.Allow(capabilities["list"])).Get("/", handler.list)
	router.With(handler.gate.Allow(capabilities["create"])).Post("/", handler.create)

	router.With(handler.gate.Allow(capabilities["categories"])).Get("/categories", handler.categories)
	router.With(handler.gate.Allow(capabilities["latest"])).Get("/latest", handler.latest)
	router.With(handler.gate.Allow(capabilities["listAll"])).Get("/all", handler.listAll)
	router.With(handler.gate.Allow(capabilities["get"])).Get("/slug/{slug}", handler.getBySlug)

	router.With(handler.gate.Allow(capabilities["get"])).Get("/{id}", handler.get)
	router.With(handler.gate.Allow(capabilities["update"])).Patch("/{id}", handler.update)
	router.With(handler.gate.Allow(capabilities["delete"])).Delete("/{id}", handler.remove)

	router.With(handler.gate.Allow(capabilities["attachImage"])).Post("/{id}/image", handler.attachImage)
	router.With(handler.gate.Allow(capabilities["attachImage"])).Delete("/{id}/image", handler.detachImage)

	return router
}

// # Request Payloads

type createNewsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	ReadTime    int    `json:"readTime"`
	IsPublished bool   `json:"isPublished"`
}

type updateNewsRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Category    *string `json:"category"`
	ReadTime    *int    `json:"readTime"`
	IsPublished *bool   `json:"isPublished"`
}

// categoryValues renders the valid categories for the validator.
func categoryValues() []string {
	values := make([]string, len(Categories))
	for i, category := range Categories {
		values[i] = string(category)
	}
	return values
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	category := Category(query.Get("category"))
	if !category.Valid() {
		category = ""
	}

	articles, total, err := handler.newsService.ListPublished(request.Context(), category, query.Get("authorId"), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, articles, pagination.NewMeta(params.Page, params.Limit, total))
}

// listAll is the editorial listing: any publish state, optional published filter.
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	category := Category(query.Get("category"))
	if !category.Valid() {
		category = ""
	}

	filter := ListFilter{Category: category, AuthorID: query.Get("authorId")}
	if raw := query.Get("published"); raw == "true" || raw == "false" {
		published := raw == "true"
		filter.Published = &published
	}

	articles, total, err := handler.newsService.ListAll(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, articles, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createNewsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		Required("description", input.Description).
		Required("content", input.Content).
		OneOf("category", input.Category, categoryValues()...)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.newsService.Create(request.Context(), CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		Category:    Category(input.Category),
		ReadTime:    input.ReadTime,
		IsPublished: input.IsPublished,
	}, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.newsService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.newsService.GetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateNewsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required("title", *input.Title).MaxLen("title", *input.Title, 255)
	}
	if input.Category != nil {
		validator.OneOf("category", *input.Category, categoryValues()...)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceInput := UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		ReadTime:    input.ReadTime,
		IsPublished: input.IsPublished,
	}
	if input.Category != nil {
		category := Category(*input.Category)
		serviceInput.Category = &category
	}

	entity, err := handler.newsService.Update(request.Context(), requestutil.Param(request, "id"), serviceInput, principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.newsService.Delete(request.Context(), requestutil.Param(request, "id"), principal); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "News article deleted successfully")
}

func (handler *Handler) attachImage(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(maxImageBytes); err != nil {
		respond.Error(writer, request, apperr.BadRequest("Invalid multipart upload"))
		return
	}

	file, header, err := request.FormFile("image")
	if err != nil {
		respond.Error(writer, request, apperr.BadRequest("Missing upload field: image"))
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		respond.Error(writer, request, apperr.BadRequest("File exceeds the maximum allowed size"))
		return
	}

	upload := Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}

	entity, err := handler.newsService.AttachImage(request.Context(), requestutil.Param(request, "id"), upload, principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) detachImage(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.newsService.DetachImage(request.Context(), requestutil.Param(request, "id"), principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) categories(writer http.ResponseWriter, request *http.Request) {
	counts, err := handler.newsService.Categories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, counts)
}

func (handler *Handler) latest(writer http.ResponseWriter, request *http.Request) {
	limit := 5
	if raw := request.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= pagination.MaxLimit {
			limit = parsed
		}
	}

	articles, err := handler.newsService.Latest(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, articles)
}
