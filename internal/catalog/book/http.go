// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package book

import (
	"context"
	"mime/multipart"
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

// Upload size ceilings.
const (
	maxDocumentBytes  = 50 << 20
	maxThumbnailBytes = 5 << 20
)

// Handler implements the HTTP layer for the book catalog.
type Handler struct {
	bookService *Service
	gate        *middleware.Gate
}

// NewHandler constructs a new book [Handler].
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{bookService: service, gate: gate}
}

// capabilities is the route-capability table for this module.
//
// Reads are public; publication is for teachers and admins; mutation of an
// existing entry admits any authenticated principal and the service refines
// to uploader-or-admin.
var capabilities = map[string]middleware.Capability{
	"list":            middleware.Public,
	"facets":          middleware.Public,
	"latest":          middleware.Public,
	"get":             middleware.Public,
	"download":        middleware.Public,
	"create":          middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher),
	"update":          middleware.Authenticated,
	"delete":          middleware.Authenticated,
	"attachFile":      middleware.Authenticated,
	"attachThumbnail": middleware.Authenticated,
	"stats":           middleware.RequireRoles(sec.RoleAdmin),
}

// Routes returns a [chi.Router] configured with the book catalog's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.gate.Allow(capabilities["list"])).Get("/", handler.list)
	router.With(handler.gate.Allow(capabilities["create"])).Post("/", handler.create)

	router.With(handler.gate.Allow(capabilities["facets"])).Get("/categories", handler.categories)
	router.With(handler.gate.Allow(capabilities["facets"])).Get("/classes", handler.classes)
	router.With(handler.gate.Allow(capabilities["facets"])).Get("/subjects", handler.subjects)
	router.With(handler.gate.Allow(capabilities["latest"])).Get("/latest", handler.latest)
	router.With(handler.gate.Allow(capabilities["stats"])).Get("/stats", handler.stats)

	router.With(handler.gate.Allow(capabilities["get"])).Get("/{id}", handler.get)
	router.With(handler.gate.Allow(capabilities["update"])).Patch("/{id}", handler.update)
	router.With(handler.gate.Allow(capabilities["delete"])).Delete("/{id}", handler.remove)

	router.With(handler.gate.Allow(capabilities["attachFile"])).Post("/{id}/file", handler.attachFile)
	router.With(handler.gate.Allow(capabilities["attachFile"])).Delete("/{id}/file", handler.detachFile)
	router.With(handler.gate.Allow(capabilities["attachThumbnail"])).Post("/{id}/thumbnail", handler.attachThumbnail)
	router.With(handler.gate.Allow(capabilities["attachThumbnail"])).Delete("/{id}/thumbnail", handler.detachThumbnail)

	router.With(handler.gate.Allow(capabilities["download"])).Post("/{id}/download", handler.download)

	return router
}

// # Request Payloads

type createBookRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Class       string `json:"class"`
	Level       string `json:"level"`
	Subject     string `json:"subject"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	Year        int    `json:"year"`
}

type updateBookRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Class       *string `json:"class"`
	Level       *string `json:"level"`
	Subject     *string `json:"subject"`
	Author      *string `json:"author"`
	Publisher   *string `json:"publisher"`
	Year        *int    `json:"year"`
}

/*
GET /api/v1/books.

Description: Lists the catalog with optional level/category/class/subject
filters and free-text search.

Response:
  - 200: []Book + Meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := filterFromQuery(request)

	books, total, err := handler.bookService.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/books.

Description: Creates a new catalog entry owned by the caller.

Response:
  - 201: Book
  - 400: Validation failure
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createBookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		Required("category", input.Category).
		Required("class", input.Class).
		OneOf("level", input.Level, string(LevelPrimary), string(LevelSecondary))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.bookService.Create(request.Context(), CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Class:       input.Class,
		Level:       EducationLevel(input.Level),
		Subject:     input.Subject,
		Author:      input.Author,
		Publisher:   input.Publisher,
		Year:        input.Year,
	}, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
GET /api/v1/books/{id}.

Description: Retrieves a single book and records the view.
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.bookService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
PATCH /api/v1/books/{id}.

Description: Applies partial metadata updates, uploader-or-admin only.
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateBookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required("title", *input.Title).MaxLen("title", *input.Title, 255)
	}
	if input.Level != nil {
		validator.OneOf("level", *input.Level, string(LevelPrimary), string(LevelSecondary))
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceInput := UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Class:       input.Class,
		Subject:     input.Subject,
		Author:      input.Author,
		Publisher:   input.Publisher,
		Year:        input.Year,
	}
	if input.Level != nil {
		level := EducationLevel(*input.Level)
		serviceInput.Level = &level
	}

	entity, err := handler.bookService.Update(request.Context(), requestutil.Param(request, "id"), serviceInput, principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/books/{id}.

Description: Removes a book and its stored media, uploader-or-admin only.
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.bookService.Delete(request.Context(), requestutil.Param(request, "id"), principal); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # File Attachment

/*
POST /api/v1/books/{id}/file.

Description: Attaches the book document (multipart field "file").
*/
func (handler *Handler) attachFile(writer http.ResponseWriter, request *http.Request) {
	handler.attach(writer, request, "file", maxDocumentBytes, handler.bookService.AttachFile)
}

/*
POST /api/v1/books/{id}/thumbnail.

Description: Attaches the cover image (multipart field "thumbnail").
*/
func (handler *Handler) attachThumbnail(writer http.ResponseWriter, request *http.Request) {
	handler.attach(writer, request, "thumbnail", maxThumbnailBytes, handler.bookService.AttachThumbnail)
}

// attach handles one multipart upload slot.
func (handler *Handler) attach(
	writer http.ResponseWriter,
	request *http.Request,
	field string,
	maxBytes int64,
	apply func(ctx context.Context, id string, upload Upload, principal *sec.AccessClaims) (*Book, error),
) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	upload, file, err := openUpload(request, field, maxBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer file.Close()

	entity, err := apply(request.Context(), requestutil.Param(request, "id"), *upload, principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/books/{id}/file.
*/
func (handler *Handler) detachFile(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.bookService.DetachFile(request.Context(), requestutil.Param(request, "id"), principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/books/{id}/thumbnail.
*/
func (handler *Handler) detachThumbnail(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.bookService.DetachThumbnail(request.Context(), requestutil.Param(request, "id"), principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
POST /api/v1/books/{id}/download.

Description: Resolves the download URL and counts the download.
*/
func (handler *Handler) download(writer http.ResponseWriter, request *http.Request) {
	link, err := handler.bookService.Download(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, link)
}

// # Catalog Metadata

func (handler *Handler) categories(writer http.ResponseWriter, request *http.Request) {
	facets, err := handler.bookService.Categories(request.Context(), levelFromQuery(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, facets)
}

func (handler *Handler) classes(writer http.ResponseWriter, request *http.Request) {
	facets, err := handler.bookService.Classes(request.Context(), levelFromQuery(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, facets)
}

func (handler *Handler) subjects(writer http.ResponseWriter, request *http.Request) {
	facets, err := handler.bookService.Subjects(request.Context(), levelFromQuery(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, facets)
}

func (handler *Handler) latest(writer http.ResponseWriter, request *http.Request) {
	limit := 10
	if raw := request.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= pagination.MaxLimit {
			limit = parsed
		}
	}

	books, err := handler.bookService.Latest(request.Context(), levelFromQuery(request), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, books)
}

func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.bookService.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

// # Query Helpers

// filterFromQuery parses the catalog filter from the query string.
func filterFromQuery(request *http.Request) ListFilter {
	query := request.URL.Query()
	return ListFilter{
		Level:    levelFromQuery(request),
		Category: query.Get("category"),
		Class:    query.Get("class"),
		Subject:  query.Get("subject"),
		Search:   query.Get("search"),
	}
}

// levelFromQuery parses and validates the optional level query parameter.
func levelFromQuery(request *http.Request) EducationLevel {
	level := EducationLevel(request.URL.Query().Get("level"))
	if !level.Valid() {
		return ""
	}
	return level
}

// openUpload extracts one multipart file as an [Upload], enforcing the byte ceiling.
func openUpload(request *http.Request, field string, maxBytes int64) (*Upload, multipart.File, error) {
	if err := request.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, apperr.BadRequest("Invalid multipart upload")
	}

	file, header, err := request.FormFile(field)
	if err != nil {
		return nil, nil, apperr.BadRequest("Missing upload field: " + field)
	}

	if header.Size > maxBytes {
		file.Close()
		return nil, nil, apperr.BadRequest("File exceeds the maximum allowed size")
	}

	upload := &Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}
	return upload, file, nil
}
