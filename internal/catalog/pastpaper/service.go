// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package pastpaper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/jmasanja/elimu/internal/catalog/book"
	"github.com/jmasanja/elimu/internal/catalog/trending"
	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/constants"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/platform/storage"
	"github.com/jmasanja/elimu/pkg/pagination"
	"github.com/jmasanja/elimu/pkg/uuidv7"
)

// Allowed upload extensions per slot.
var (
	documentExtensions  = []string{"pdf", "doc", "docx", "ppt", "pptx", "txt"}
	thumbnailExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}
)

// Service orchestrates business logic for the past-paper archive.
type Service struct {
	repository Repository
	files      storage.Backend
	trending   *trending.Recorder
	logger     *slog.Logger
}

// NewService constructs a new past-paper [Service] with its dependencies.
func NewService(repository Repository, files storage.Backend, recorder *trending.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		files:      files,
		trending:   recorder,
		logger:     logger,
	}
}

// CreateInput holds the metadata for a new archive entry.
type CreateInput struct {
	Title           string
	Description     string
	Category        string
	Class           string
	Level           book.EducationLevel
	Year            int
	Subject         string
	ExaminationBody string
	PaperNumber     string
	PaperType       string
}

// Create persists a new paper owned by the uploading principal.
func (service *Service) Create(context context.Context, input CreateInput, uploaderID string) (*PastPaper, error) {
	entity := &PastPaper{
		ID:              uuidv7.New(),
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		Class:           input.Class,
		Level:           input.Level,
		Year:            input.Year,
		Subject:         input.Subject,
		ExaminationBody: input.ExaminationBody,
		PaperNumber:     input.PaperNumber,
		PaperType:       input.PaperType,
		UploaderID:      uploaderID,
	}

	if err := service.repository.Create(context, entity); err != nil {
		return nil, err
	}

	service.logger.Info("pastpaper_created",
		slog.String("pastpaper_id", entity.ID),
		slog.String("uploader_id", uploaderID),
	)

	return service.repository.FindByID(context, entity.ID)
}

// List returns one filtered page of the archive.
func (service *Service) List(context context.Context, filter ListFilter, params pagination.Params) ([]PastPaper, int, error) {
	return service.repository.List(context, filter, params)
}

// Get returns a single paper and records the view. The view side effects
// are best-effort and never fail the read.
func (service *Service) Get(context context.Context, id string) (*PastPaper, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.repository.IncrementViewCount(context, id); err == nil {
		entity.ViewCount++
	}
	service.trending.Touch(context, constants.RedisKeyTrendingPapers, id)

	return entity, nil
}

// UpdateInput defines the mutable metadata subset for partial updates.
type UpdateInput struct {
	Title           *string
	Description     *string
	Category        *string
	Class           *string
	Level           *book.EducationLevel
	Year            *int
	Subject         *string
	ExaminationBody *string
	PaperNumber     *string
	PaperType       *string
}

// Update applies a partial metadata update, enforcing uploader-or-admin ownership.
func (service *Service) Update(context context.Context, id string, input UpdateInput, principal *sec.AccessClaims) (*PastPaper, error) {
	entity, err := service.authorizeOwner(context, id, principal, "You can only update your own past papers")
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		entity.Title = *input.Title
	}
	if input.Description != nil {
		entity.Description = *input.Description
	}
	if input.Category != nil {
		entity.Category = *input.Category
	}
	if input.Class != nil {
		entity.Class = *input.Class
	}
	if input.Level != nil {
		entity.Level = *input.Level
	}
	if input.Year != nil {
		entity.Year = *input.Year
	}
	if input.Subject != nil {
		entity.Subject = *input.Subject
	}
	if input.ExaminationBody != nil {
		entity.ExaminationBody = *input.ExaminationBody
	}
	if input.PaperNumber != nil {
		entity.PaperNumber = *input.PaperNumber
	}
	if input.PaperType != nil {
		entity.PaperType = *input.PaperType
	}

	if err := service.repository.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Delete removes a paper and its stored files, enforcing ownership.
func (service *Service) Delete(context context.Context, id string, principal *sec.AccessClaims) error {
	entity, err := service.authorizeOwner(context, id, principal, "You can only delete your own past papers")
	if err != nil {
		return err
	}

	if entity.FileURL != "" {
		if err := service.files.Delete(context, entity.FileURL); err != nil {
			service.logger.Warn("pastpaper_file_cleanup_failed", slog.String("pastpaper_id", id), slog.String("error", err.Error()))
		}
	}
	if entity.ThumbnailURL != "" {
		if err := service.files.Delete(context, entity.ThumbnailURL); err != nil {
			service.logger.Warn("pastpaper_thumbnail_cleanup_failed", slog.String("pastpaper_id", id), slog.String("error", err.Error()))
		}
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("pastpaper_deleted", slog.String("pastpaper_id", id))
	return nil
}

// Upload describes an incoming file for attachment.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// AttachFile stores the paper document and records its URL.
func (service *Service) AttachFile(context context.Context, id string, upload Upload, principal *sec.AccessClaims) (*PastPaper, error) {
	entity, err := service.authorizeOwner(context, id, principal, "You can only upload files to your own past papers")
	if err != nil {
		return nil, err
	}

	if err := checkExtension(upload.FileName, documentExtensions); err != nil {
		return nil, err
	}

	key := "past-papers/" + entity.ID + path.Ext(upload.FileName)
	fileURL, err := service.files.Upload(context, key, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("pastpaper_service_upload_failed: %w", err)
	}

	if entity.FileURL != "" && entity.FileURL != fileURL {
		_ = service.files.Delete(context, entity.FileURL)
	}

	entity.FileURL = fileURL
	entity.FileName = upload.FileName
	if err := service.repository.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// AttachThumbnail stores the cover image and records its URL.
func (service *Service) AttachThumbnail(context context.Context, id string, upload Upload, principal *sec.AccessClaims) (*PastPaper, error) {
	entity, err := service.authorizeOwner(context, id, principal, "You can only upload files to your own past papers")
	if err != nil {
		return nil, err
	}

	if err := checkExtension(upload.FileName, thumbnailExtensions); err != nil {
		return nil, err
	}

	key := "past-paper-thumbnails/" + entity.ID + path.Ext(upload.FileName)
	thumbnailURL, err := service.files.Upload(context, key, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("pastpaper_service_thumbnail_upload_failed: %w", err)
	}

	if entity.ThumbnailURL != "" && entity.ThumbnailURL != thumbnailURL {
		_ = service.files.Delete(context, entity.ThumbnailURL)
	}

	entity.ThumbnailURL = thumbnailURL
	if err := service.repository.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// DetachFile removes the stored document from a paper.
func (service *Service) DetachFile(context context.Context, id string, principal *sec.AccessClaims) (*PastPaper, error) {
	entity, err := service.authorizeOwner(context, id, principal, "You can only remove files from your own past papers")
	if err != nil {
		return nil, err
	}

	if entity.FileURL != "" {
		_ = service.files.Delete(context, entity.FileURL)
		entity.FileURL = ""
		entity.FileName = ""
		if err := service.repository.Update(context, entity); err != nil {
			return nil, err
		}
	}

	return entity, nil
}

// DetachThumbnail removes the stored cover image from a paper.
func (service *Service) DetachThumbnail(context context.Context, id string, principal *sec.AccessClaims) (*PastPaper, error) {
	entity, err := service.authorizeOwner(context, id, principal, "You can only remove thumbnails from your own past papers")
	if err != nil {
		return nil, err
	}

	if entity.ThumbnailURL != "" {
		_ = service.files.Delete(context, entity.ThumbnailURL)
		entity.ThumbnailURL = ""
		if err := service.repository.Update(context, entity); err != nil {
			return nil, err
		}
	}

	return entity, nil
}

// DownloadLink is the resolved file location handed to a downloading client.
type DownloadLink struct {
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
}

// Download resolves the file URL for a paper and counts the download.
func (service *Service) Download(context context.Context, id string) (*DownloadLink, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if entity.FileURL == "" {
		return nil, apperr.NotFound("Past paper file")
	}

	if err := service.repository.IncrementDownloadCount(context, id); err != nil {
		service.logger.Warn("pastpaper_download_count_failed", slog.String("pastpaper_id", id), slog.String("error", err.Error()))
	}

	return &DownloadLink{DownloadURL: entity.FileURL, FileName: entity.FileName}, nil
}

// # Archive Metadata

func (service *Service) Categories(context context.Context, level book.EducationLevel) ([]FacetCount, error) {
	return service.repository.CountByCategory(context, level)
}

func (service *Service) Classes(context context.Context, level book.EducationLevel) ([]FacetCount, error) {
	return service.repository.CountByClass(context, level)
}

func (service *Service) Years(context context.Context, level book.EducationLevel) ([]YearCount, error) {
	return service.repository.CountByYear(context, level)
}

func (service *Service) ExaminationBodies(context context.Context, level book.EducationLevel) ([]FacetCount, error) {
	return service.repository.CountByExaminationBody(context, level)
}

func (service *Service) Latest(context context.Context, level book.EducationLevel, limit int) ([]PastPaper, error) {
	return service.repository.Latest(context, level, limit)
}

func (service *Service) Stats(context context.Context) (*Stats, error) {
	return service.repository.Stats(context)
}

// # Internals

// authorizeOwner loads the paper and enforces uploader-or-admin access.
func (service *Service) authorizeOwner(context context.Context, id string, principal *sec.AccessClaims, message string) (*PastPaper, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	isAdmin := sec.UserRole(principal.Role).In(sec.RoleAdmin)
	if entity.UploaderID != principal.Subject && !isAdmin {
		return nil, apperr.Forbidden(message)
	}

	return entity, nil
}

// checkExtension validates an upload filename against an allow-list.
func checkExtension(fileName string, allowed []string) error {
	extension := strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), ".")
	for _, candidate := range allowed {
		if extension == candidate {
			return nil
		}
	}
	return apperr.BadRequest("Invalid file type. Allowed: " + strings.Join(allowed, ", "))
}
