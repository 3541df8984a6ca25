// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package pastpaper

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jmasanja/elimu/internal/catalog/book"
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

// Handler implements the HTTP layer for the past-paper archive.
type Handler struct {
	paperService *Service
	gate         *middleware.Gate
}

// NewHandler constructs a new past-paper [Handler].
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{paperService: service, gate: gate}
}

// capabilities is the route-capability table for this module.
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

// Routes returns a [chi.Router] configured with the archive's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.gate.Allow(capabilities["list"])).Get("/", handler.list)
	router.With(handler.gate.Allow(capabilities["create"])).Post("/", handler.create)

	router.With(handler.gate.Allow(capabilities["facets"])).Get("/categories", handler.categories)
	router.With(handler.gate.Allow(capabilities["facets"])).Get("/classes", handler.classes)
	router.With(handler.gate.Allow(capabilities["facets"])).Get("/years", handler.years)
	router.With(handler.gate.Allow(capabilities["facets"])).Get("/examination-bodies", handler.examinationBodies)
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

type createPaperRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Class           string `json:"class"`
	Level           string `json:"level"`
	Year            int    `json:"year"`
	Subject         string `json:"subject"`
	ExaminationBody string `json:"examinationBody"`
	PaperNumber     string `json:"paperNumber"`
	PaperType       string `json:"paperType"`
}

type updatePaperRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	Class           *string `json:"class"`
	Level           *string `json:"level"`
	Year            *int    `json:"year"`
	Subject         *string `json:"subject"`
	ExaminationBody *string `json:"examinationBody"`
	PaperNumber     *string `json:"paperNumber"`
	PaperType       *string `json:"paperType"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := filterFromQuery(request)

	papers, total, err := handler.paperService.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, papers, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createPaperRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		Required("category", input.Category).
		Required("class", input.Class).
		OneOf("level", input.Level, string(book.LevelPrimary), string(book.LevelSecondary)).
		Range("year", input.Year, 1900, time.Now().Year())

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.paperService.Create(request.Context(), CreateInput{
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		Class:           input.Class,
		Level:           book.EducationLevel(input.Level),
		Year:            input.Year,
		Subject:         input.Subject,
		ExaminationBody: input.ExaminationBody,
		PaperNumber:     input.PaperNumber,
		PaperType:       input.PaperType,
	}, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.paperService.Get(request.Context(), requestutil.Param(request, "id"))
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

	var input updatePaperRequest
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
	if input.Year != nil {
		validator.Range("year", *input.Year, 1900, time.Now().Year())
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceInput := UpdateInput{
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		Class:           input.Class,
		Year:            input.Year,
		Subject:         input.Subject,
		ExaminationBody: input.ExaminationBody,
		PaperNumber:     input.PaperNumber,
		PaperType:       input.PaperType,
	}
	if input.Level != nil {
		level := book.EducationLevel(*input.Level)
		serviceInput.Level = &level
	}

	entity, err := handler.paperService.Update(request.Context(), requestutil.Param(request, "id"), serviceInput, principal)
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

	if err := handler.paperService.Delete(request.Context(), requestutil.Param(request, "id"), principal); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # File Attachment

func (handler *Handler) attachFile(writer http.ResponseWriter, request *http.Request) {
	handler.attach(writer, request, "file", maxDocumentBytes, handler.paperService.AttachFile)
}

func (handler *Handler) attachThumbnail(writer http.ResponseWriter, request *http.Request) {
	handler.attach(writer, request, "thumbnail", maxThumbnailBytes, handler.paperService.AttachThumbnail)
}

// attach handles one multipart upload slot.
func (handler *Handler) attach(
	writer http.ResponseWriter,
	request *http.Request,
	field string,
	maxBytes int64,
	apply func(ctx context.Context, id string, upload Upload, principal *sec.AccessClaims) (*PastPaper, error),
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

func (handler *Handler) detachFile(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.paperService.DetachFile(request.Context(), requestutil.Param(request, "id"), principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) detachThumbnail(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.paperService.DetachThumbnail(request.Context(), requestutil.Param(request, "id"), principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) download(writer http.ResponseWriter, request *http.Request) {
	link, err := handler.paperService.Download(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, link)
}

// # Archive Metadata

func (handler *Handler) categories(writer http.ResponseWriter, request *http.Request) {
	facets, err := handler.paperService.Categories(request.Context(), levelFromQuery(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, facets)
}

func (handler *Handler) classes(writer http.ResponseWriter, request *http.Request) {
	facets, err := handler.paperService.Classes(request.Context(), levelFromQuery(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, facets)
}

func (handler *Handler) years(writer http.ResponseWriter, request *http.Request) {
	years, err := handler.paperService.Years(request.Context(), levelFromQuery(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, years)
}

func (handler *Handler) examinationBodies(writer http.ResponseWriter, request *http.Request) {
	facets, err := handler.paperService.ExaminationBodies(request.Context(), levelFromQuery(request))
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

	papers, err := handler.paperService.Latest(request.Context(), levelFromQuery(request), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, papers)
}

func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.paperService.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

// # Query Helpers

// filterFromQuery parses the archive filter from the query string.
func filterFromQuery(request *http.Request) ListFilter {
	query := request.URL.Query()
	filter := ListFilter{
		Level:           levelFromQuery(request),
		Category:        query.Get("category"),
		Class:           query.Get("class"),
		Subject:         query.Get("subject"),
		ExaminationBody: query.Get("examinationBody"),
		Search:          query.Get("search"),
	}
	if year, err := strconv.Atoi(query.Get("year")); err == nil && year > 0 {
		filter.Year = year
	}
	return filter
}

// levelFromQuery parses and validates the optional level query parameter.
func levelFromQuery(request *http.Request) book.EducationLevel {
	level := book.EducationLevel(request.URL.Query().Get("level"))
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
