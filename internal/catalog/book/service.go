// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package book

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

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

// Service orchestrates business logic for the book catalog.
type Service struct {
	repository Repository
	files      storage.Backend
	trending   *trending.Recorder
	logger     *slog.Logger
}

// NewService constructs a new book [Service] with its dependencies.
func NewService(repository Repository, files storage.Backend, recorder *trending.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		files:      files,
		trending:   recorder,
		logger:     logger,
	}
}

// CreateInput holds the metadata for a new catalog entry. Files are attached
// afterwards through the upload operations.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Class       string
	Level       EducationLevel
	Subject     string
	Author      string
	Publisher   string
	Year        int
}

// Create persists a new book owned by the uploading principal.
func (service *Service) Create(context context.Context, input CreateInput, uploaderID string) (*Book, error) {
	entity := &Book{
		ID:          uuidv7.New(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Class:       input.Class,
		Level:       input.Level,
		Subject:     input.Subject,
		Author:      input.Author,
		Publisher:   input.Publisher,
		Year:        input.Year,
		UploaderID:  uploaderID,
	}

	if err := service.repository.Create(context, entity); err != nil {
		return nil, err
	}

	service.logger.Info("book_created",
		slog.String("book_id", entity.ID),
		slog.String("uploader_id", uploaderID),
	)

	return service.repository.FindByID(context, entity.ID)
}

// List returns one filtered page of the catalog.
func (service *Service) List(context context.Context, filter ListFilter, params pagination.Params) ([]Book, int, error) {
	return service.repository.List(context, filter, params)
}

// Get returns a single book and records the view.
//
// The view side effects (database counter, trending set) are best-effort:
// a failed increment never fails the read.
func (service *Service) Get(context context.Context, id string) (*Book, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.repository.IncrementViewCount(context, id); err == nil {
		entity.ViewCount++
	}
	service.trending.Touch(context, constants.RedisKeyTrendingBooks, id)

	return entity, nil
}

// UpdateInput defines the mutable metadata subset for partial updates.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Class       *string
	Level       *EducationLevel
	Subject     *string
	Author      *string
	Publisher   *string
	Year        *int
}

// Update applies a partial metadata update, enforcing uploader-or-admin ownership.
func (service *Service) Update(context context.Context, id string, input UpdateInput, principal *sec.AccessClaims) (*Book, error) {
	entity, err := service.authorizeOwner(context, id, principal, "You can only update your own books")
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
	if input.Subject != nil {
		entity.Subject = *input.Subject
	}
	if input.Author != nil {
		entity.Author = *input.Author
	}
	if input.Publisher != nil {
		entity.Publisher = *input.Publisher
	}
	if input.Year != nil {
		entity.Year = *input.Year
	}

	if err := service.repository.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Delete removes a book and its stored files, enforcing ownership.
func (service *Service) Delete(context context.Context, id string, principal *sec.AccessClaims) error {
	entity, err := service.authorizeOwner(context, id, principal, "You can only delete your own books")
	if err != nil {
		return err
	}

	// Stored media is cleaned up best-effort; a storage hiccup must not
	// leave the catalog row behind.
	if entity.FileURL != "" {
		if err := service.files.Delete(context, entity.FileURL); err != nil {
			service.logger.Warn("book_file_cleanup_failed", slog.String("book_id", id), slog.String("error", err.Error()))
		}
	}
	if entity.ThumbnailURL != "" {
		if err := service.files.Delete(context, entity.ThumbnailURL); err != nil {
			service.logger.Warn("book_thumbnail_cleanup_failed", slog.String("book_id", id), slog.String("error", err.Error()))
		}
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("book_deleted", slog.String("book_id", id))
	return nil
}

// Upload describes an incoming file for attachment.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// AttachFile stores the document for a book and records its URL.
func (service *Service) AttachFile(context context.Context, id string, upload Upload, principal *sec.AccessClaims) (*Book, error) {
	entity, err := service.authorizeOwner(context, id, principal, "You can only upload files to your own books")
	if err != nil {
		return nil, err
	}

	if err := checkExtension(upload.FileName, documentExtensions); err != nil {
		return nil, err
	}

	key := "books/" + entity.ID + path.Ext(upload.FileName)
	fileURL, err := service.files.Upload(context, key, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("book_service_upload_failed: %w", err)
	}

	// Replace, never accumulate: one document slot per book.
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

// AttachThumbnail stores the cover image for a book and records its URL.
func (service *Service) AttachThumbnail(context context.Context, id string, upload Upload, principal *sec.AccessClaims) (*Book, error) {
	entity, err := service.authorizeOwner(context, id, principal, "You can only upload files to your own books")
	if err != nil {
		return nil, err
	}

	if err := checkExtension(upload.FileName, thumbnailExtensions); err != nil {
		return nil, err
	}

	key := "book-thumbnails/" + entity.ID + path.Ext(upload.FileName)
	thumbnailURL, err := service.files.Upload(context, key, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("book_service_thumbnail_upload_failed: %w", err)
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

// DetachFile removes the stored document from a book.
func (service *Service) DetachFile(context context.Context, id string, principal *sec.AccessClaims) (*Book, error) {
	entity, err := service.authorizeOwner(context, id, principal, "You can only remove files from your own books")
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

// DetachThumbnail removes the stored cover image from a book.
func (service *Service) DetachThumbnail(context context.Context, id string, principal *sec.AccessClaims) (*Book, error) {
	entity, err := service.authorizeOwner(context, id, principal, "You can only remove thumbnails from your own books")
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

// Download resolves the file URL for a book and counts the download.
func (service *Service) Download(context context.Context, id string) (*DownloadLink, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if entity.FileURL == "" {
		return nil, apperr.NotFound("Book file")
	}

	if err := service.repository.IncrementDownloadCount(context, id); err != nil {
		service.logger.Warn("book_download_count_failed", slog.String("book_id", id), slog.String("error", err.Error()))
	}

	return &DownloadLink{DownloadURL: entity.FileURL, FileName: entity.FileName}, nil
}

// # Catalog Metadata

func (service *Service) Categories(context context.Context, level EducationLevel) ([]FacetCount, error) {
	return service.repository.CountByCategory(context, level)
}

func (service *Service) Classes(context context.Context, level EducationLevel) ([]FacetCount, error) {
	return service.repository.CountByClass(context, level)
}

func (service *Service) Subjects(context context.Context, level EducationLevel) ([]FacetCount, error) {
	return service.repository.CountBySubject(context, level)
}

func (service *Service) Latest(context context.Context, level EducationLevel, limit int) ([]Book, error) {
	return service.repository.Latest(context, level, limit)
}

func (service *Service) Stats(context context.Context) (*Stats, error) {
	return service.repository.Stats(context)
}

// # Internals

// authorizeOwner loads the book and enforces uploader-or-admin access.
func (service *Service) authorizeOwner(context context.Context, id string, principal *sec.AccessClaims, message string) (*Book, error) {
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
