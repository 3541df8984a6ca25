// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/platform/storage"
	"github.com/jmasanja/elimu/pkg/pagination"
	"github.com/jmasanja/elimu/pkg/slug"
	"github.com/jmasanja/elimu/pkg/uuidv7"
)

// readTimeWordsPerMinute is the assumed reading speed for estimating ReadTime.
const readTimeWordsPerMinute = 200

// imageExtensions is the allow-list for article images.
var imageExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}

// Service orchestrates business logic for news articles.
type Service struct {
	repository Repository
	files      storage.Backend
	logger     *slog.Logger
}

// NewService constructs a new news [Service] with its dependencies.
func NewService(repository Repository, files storage.Backend, logger *slog.Logger) *Service {
	return &Service{repository: repository, files: files, logger: logger}
}

// CreateInput holds the fields for a new article.
type CreateInput struct {
	Title       string
	Description string
	Content     string
	Category    Category
	ReadTime    int
	IsPublished bool
}

// Create persists a new article authored by the calling principal.
//
// ReadTime is estimated from the content length when the author does not
// supply one. Publishing at creation stamps PublishedAt immediately.
func (service *Service) Create(context context.Context, input CreateInput, authorID string) (*Article, error) {
	readTime := input.ReadTime
	if readTime <= 0 {
		readTime = estimateReadTime(input.Content)
	}

	entity := &Article{
		ID:          uuidv7.New(),
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		Description: input.Description,
		Content:     input.Content,
		Category:    input.Category,
		ReadTime:    readTime,
		IsPublished: input.IsPublished,
		AuthorID:    authorID,
	}
	if input.IsPublished {
		now := time.Now()
		entity.PublishedAt = &now
	}

	if err := service.repository.Create(context, entity); err != nil {
		return nil, err
	}

	service.logger.Info("news_created",
		slog.String("news_id", entity.ID),
		slog.String("author_id", authorID),
		slog.Bool("published", entity.IsPublished),
	)

	return service.repository.FindByID(context, entity.ID)
}

// ListPublished returns one page of published articles for the public surface.
func (service *Service) ListPublished(context context.Context, category Category, authorID string, params pagination.Params) ([]Article, int, error) {
	published := true
	filter := ListFilter{Category: category, AuthorID: authorID, Published: &published}
	return service.repository.List(context, filter, params)
}

// ListAll returns one page of articles in any publish state, for editorial
// management.
func (service *Service) ListAll(context context.Context, filter ListFilter, params pagination.Params) ([]Article, int, error) {
	return service.repository.List(context, filter, params)
}

// Get returns a single published article. Drafts are indistinguishable from
// missing articles on the public surface.
func (service *Service) Get(context context.Context, id string) (*Article, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if !entity.IsPublished {
		return nil, apperr.NotFound("News article")
	}
	return entity, nil
}

// GetBySlug returns a single published article by its URL slug.
func (service *Service) GetBySlug(context context.Context, value string) (*Article, error) {
	entity, err := service.repository.FindBySlug(context, value)
	if err != nil {
		return nil, err
	}
	if !entity.IsPublished {
		return nil, apperr.NotFound("News article")
	}
	return entity, nil
}

// UpdateInput defines the mutable subset for partial updates.
type UpdateInput struct {
	Title       *string
	Description *string
	Content     *string
	Category    *Category
	ReadTime    *int
	IsPublished *bool
}

// Update applies a partial update, enforcing author-or-admin ownership.
//
// Publish transitions maintain PublishedAt: turning an article on stamps the
// current time, turning it off clears the stamp. Changing the title renews
// the slug. Updating the content without an explicit ReadTime re-estimates it.
func (service *Service) Update(context context.Context, id string, input UpdateInput, principal *sec.AccessClaims) (*Article, error) {
	entity, err := service.authorizeAuthor(context, id, principal, "You can only update your own news articles")
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		entity.Title = *input.Title
		entity.Slug = slug.From(*input.Title)
	}
	if input.Description != nil {
		entity.Description = *input.Description
	}
	if input.Content != nil {
		entity.Content = *input.Content
		if input.ReadTime == nil {
			entity.ReadTime = estimateReadTime(*input.Content)
		}
	}
	if input.Category != nil {
		entity.Category = *input.Category
	}
	if input.ReadTime != nil {
		entity.ReadTime = *input.ReadTime
	}
	if input.IsPublished != nil && *input.IsPublished != entity.IsPublished {
		entity.IsPublished = *input.IsPublished
		if *input.IsPublished {
			now := time.Now()
			entity.PublishedAt = &now
		} else {
			entity.PublishedAt = nil
		}
	}

	if err := service.repository.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Delete removes an article and its stored image, enforcing ownership.
func (service *Service) Delete(context context.Context, id string, principal *sec.AccessClaims) error {
	entity, err := service.authorizeAuthor(context, id, principal, "You can only delete your own news articles")
	if err != nil {
		return err
	}

	if entity.ImageURL != "" {
		if err := service.files.Delete(context, entity.ImageURL); err != nil {
			service.logger.Warn("news_image_cleanup_failed", slog.String("news_id", id), slog.String("error", err.Error()))
		}
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("news_deleted", slog.String("news_id", id))
	return nil
}

// Upload describes an incoming image for attachment.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// AttachImage stores the article image and records its URL.
func (service *Service) AttachImage(context context.Context, id string, upload Upload, principal *sec.AccessClaims) (*Article, error) {
	entity, err := service.authorizeAuthor(context, id, principal, "You can only upload images to your own news articles")
	if err != nil {
		return nil, err
	}

	extension := strings.TrimPrefix(strings.ToLower(path.Ext(upload.FileName)), ".")
	allowed := false
	for _, candidate := range imageExtensions {
		if extension == candidate {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperr.BadRequest("Invalid file type. Allowed: " + strings.Join(imageExtensions, ", "))
	}

	key := "news-images/" + entity.ID + path.Ext(upload.FileName)
	imageURL, err := service.files.Upload(context, key, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("news_service_image_upload_failed: %w", err)
	}

	if entity.ImageURL != "" && entity.ImageURL != imageURL {
		_ = service.files.Delete(context, entity.ImageURL)
	}

	entity.ImageURL = imageURL
	if err := service.repository.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// DetachImage removes the stored image from an article.
func (service *Service) DetachImage(context context.Context, id string, principal *sec.AccessClaims) (*Article, error) {
	entity, err := service.authorizeAuthor(context, id, principal, "You can only remove images from your own news articles")
	if err != nil {
		return nil, err
	}

	if entity.ImageURL == "" {
		return nil, apperr.BadRequest("News article does not have an image")
	}

	_ = service.files.Delete(context, entity.ImageURL)
	entity.ImageURL = ""
	if err := service.repository.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Categories returns the published article count per editorial section.
func (service *Service) Categories(context context.Context) ([]CategoryCount, error) {
	return service.repository.CountPublishedByCategory(context)
}

// Latest returns the most recently published articles.
func (service *Service) Latest(context context.Context, limit int) ([]Article, error) {
	return service.repository.LatestPublished(context, limit)
}

// # Internals

// authorizeAuthor loads the article and enforces author-or-admin access.
func (service *Service) authorizeAuthor(context context.Context, id string, principal *sec.AccessClaims, message string) (*Article, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	isAdmin := sec.UserRole(principal.Role).In(sec.RoleAdmin)
	if entity.AuthorID != principal.Subject && !isAdmin {
		return nil, apperr.Forbidden(message)
	}

	return entity, nil
}

// estimateReadTime derives the reading minutes from the word count,
// rounding up so short pieces still report one minute.
func estimateReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + readTimeWordsPerMinute - 1) / readTimeWordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
