// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package news_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmasanja/elimu/internal/catalog/news"
	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/pkg/pagination"
)

// # In-Memory Fakes

// fakeRepository is a mutex-guarded in-memory news Repository.
type fakeRepository struct {
	mu       sync.Mutex
	articles map[string]*news.Article
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{articles: make(map[string]*news.Article)}
}

func (repo *fakeRepository) Create(_ context.Context, article *news.Article) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.articles {
		if existing.Slug == article.Slug {
			return apperr.Conflict("News article already exists")
		}
	}
	copied := *article
	repo.articles[article.ID] = &copied
	return nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*news.Article, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if article, ok := repo.articles[id]; ok {
		copied := *article
		return &copied, nil
	}
	return nil, apperr.NotFound("News article")
}

func (repo *fakeRepository) FindBySlug(_ context.Context, slug string) (*news.Article, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, article := range repo.articles {
		if article.Slug == slug {
			copied := *article
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("News article")
}

func (repo *fakeRepository) List(_ context.Context, filter news.ListFilter, params pagination.Params) ([]news.Article, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	matched := []news.Article{}
	for _, article := range repo.articles {
		if filter.Published != nil && article.IsPublished != *filter.Published {
			continue
		}
		if filter.Category != "" && article.Category != filter.Category {
			continue
		}
		if filter.AuthorID != "" && article.AuthorID != filter.AuthorID {
			continue
		}
		matched = append(matched, *article)
	}
	return matched, len(matched), nil
}

func (repo *fakeRepository) Update(_ context.Context, article *news.Article) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.articles[article.ID]; !ok {
		return apperr.NotFound("News article")
	}
	copied := *article
	repo.articles[article.ID] = &copied
	return nil
}

func (repo *fakeRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.articles[id]; !ok {
		return apperr.NotFound("News article")
	}
	delete(repo.articles, id)
	return nil
}

func (repo *fakeRepository) CountPublishedByCategory(_ context.Context) ([]news.CategoryCount, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	counts := map[news.Category]int{}
	for _, article := range repo.articles {
		if article.IsPublished {
			counts[article.Category] = counts[article.Category] + 1
		}
	}
	result := []news.CategoryCount{}
	for category, count := range counts {
		result = append(result, news.CategoryCount{Category: category, Count: count})
	}
	return result, nil
}

func (repo *fakeRepository) LatestPublished(_ context.Context, limit int) ([]news.Article, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := []news.Article{}
	for _, article := range repo.articles {
		if article.IsPublished && len(result) < limit {
			result = append(result, *article)
		}
	}
	return result, nil
}

// fakeStorage records uploads and deletions without any real backend.
type fakeStorage struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (backend *fakeStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) (string, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	_, _ = io.Copy(io.Discard, reader)
	backend.uploaded = append(backend.uploaded, key)
	return "https://cdn.test/" + key, nil
}

func (backend *fakeStorage) Delete(_ context.Context, fileURL string) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.deleted = append(backend.deleted, fileURL)
	return nil
}

func (backend *fakeStorage) Ping(_ context.Context) error { return nil }

// # Helpers

func newService(t *testing.T) (*news.Service, *fakeRepository, *fakeStorage) {
	t.Helper()
	repository := newFakeRepository()
	backend := &fakeStorage{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return news.NewService(repository, backend, logger), repository, backend
}

func principal(userID string, role sec.UserRole) *sec.AccessClaims {
	return &sec.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Role:             string(role),
	}
}

// # Tests

func TestCreate_SlugAndReadTime(t *testing.T) {
	service, _, _ := newService(t)

	article, err := service.Create(context.Background(), news.CreateInput{
		Title:    "Form Four Results Released!",
		Content:  strings.Repeat("word ", 450),
		Category: news.CategoryEducation,
	}, "author-1")
	require.NoError(t, err)

	assert.Equal(t, "form-four-results-released", article.Slug)
	// 450 words at 200 wpm rounds up to 3 minutes.
	assert.Equal(t, 3, article.ReadTime)
	assert.False(t, article.IsPublished)
	assert.Nil(t, article.PublishedAt)
}

func TestCreate_ShortContentReadsOneMinute(t *testing.T) {
	service, _, _ := newService(t)

	article, err := service.Create(context.Background(), news.CreateInput{
		Title:    "Brief",
		Content:  "just a few words",
		Category: news.CategoryLocal,
	}, "author-1")
	require.NoError(t, err)

	assert.Equal(t, 1, article.ReadTime)
}

func TestCreate_PublishStampsPublishedAt(t *testing.T) {
	service, _, _ := newService(t)

	article, err := service.Create(context.Background(), news.CreateInput{
		Title:       "Published at birth",
		Content:     "content",
		Category:    news.CategoryPolitics,
		IsPublished: true,
	}, "author-1")
	require.NoError(t, err)

	assert.True(t, article.IsPublished)
	require.NotNil(t, article.PublishedAt)
}

func TestGet_DraftIsInvisible(t *testing.T) {
	service, _, _ := newService(t)

	draft, err := service.Create(context.Background(), news.CreateInput{
		Title:    "Unfinished draft",
		Content:  "content",
		Category: news.CategoryLocal,
	}, "author-1")
	require.NoError(t, err)

	_, err = service.Get(context.Background(), draft.ID)
	requireStatus(t, err, 404)

	_, err = service.GetBySlug(context.Background(), draft.Slug)
	requireStatus(t, err, 404)
}

func TestListPublished_ExcludesDrafts(t *testing.T) {
	service, _, _ := newService(t)

	_, err := service.Create(context.Background(), news.CreateInput{
		Title: "Draft", Content: "c", Category: news.CategoryLocal,
	}, "author-1")
	require.NoError(t, err)

	published, err := service.Create(context.Background(), news.CreateInput{
		Title: "Live", Content: "c", Category: news.CategoryLocal, IsPublished: true,
	}, "author-1")
	require.NoError(t, err)

	articles, total, err := service.ListPublished(context.Background(), "", "", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, published.ID, articles[0].ID)
}

func TestUpdate_PublishTransition(t *testing.T) {
	service, _, _ := newService(t)
	author := principal("author-1", sec.RoleTeacher)

	draft, err := service.Create(context.Background(), news.CreateInput{
		Title: "Draft", Content: "c", Category: news.CategoryLocal,
	}, "author-1")
	require.NoError(t, err)

	publish := true
	updated, err := service.Update(context.Background(), draft.ID, news.UpdateInput{IsPublished: &publish}, author)
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)
	require.NotNil(t, updated.PublishedAt)

	unpublish := false
	updated, err = service.Update(context.Background(), draft.ID, news.UpdateInput{IsPublished: &unpublish}, author)
	require.NoError(t, err)
	assert.False(t, updated.IsPublished)
	assert.Nil(t, updated.PublishedAt)
}

func TestUpdate_TitleRenewsSlug(t *testing.T) {
	service, _, _ := newService(t)
	author := principal("author-1", sec.RoleTeacher)

	article, err := service.Create(context.Background(), news.CreateInput{
		Title: "Old Title", Content: "c", Category: news.CategoryLocal,
	}, "author-1")
	require.NoError(t, err)

	newTitle := "Completely New Title"
	updated, err := service.Update(context.Background(), article.ID, news.UpdateInput{Title: &newTitle}, author)
	require.NoError(t, err)
	assert.Equal(t, "completely-new-title", updated.Slug)
}

func TestUpdate_ContentReestimatesReadTime(t *testing.T) {
	service, _, _ := newService(t)
	author := principal("author-1", sec.RoleTeacher)

	article, err := service.Create(context.Background(), news.CreateInput{
		Title: "Piece", Content: "short", Category: news.CategoryLocal,
	}, "author-1")
	require.NoError(t, err)
	require.Equal(t, 1, article.ReadTime)

	longContent := strings.Repeat("word ", 650)
	updated, err := service.Update(context.Background(), article.ID, news.UpdateInput{Content: &longContent}, author)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.ReadTime)
}

func TestUpdate_ForeignAuthorForbidden(t *testing.T) {
	service, _, _ := newService(t)

	article, err := service.Create(context.Background(), news.CreateInput{
		Title: "Mine", Content: "c", Category: news.CategoryLocal,
	}, "author-1")
	require.NoError(t, err)

	title := "Hijacked"
	_, err = service.Update(context.Background(), article.ID, news.UpdateInput{Title: &title}, principal("intruder", sec.RoleTeacher))
	requireStatus(t, err, 403)

	// Admins bypass ownership.
	_, err = service.Update(context.Background(), article.ID, news.UpdateInput{Title: &title}, principal("admin-1", sec.RoleAdmin))
	require.NoError(t, err)
}

func TestAttachImage_RejectsUnknownExtension(t *testing.T) {
	service, _, _ := newService(t)
	author := principal("author-1", sec.RoleTeacher)

	article, err := service.Create(context.Background(), news.CreateInput{
		Title: "Pics", Content: "c", Category: news.CategoryLocal,
	}, "author-1")
	require.NoError(t, err)

	_, err = service.AttachImage(context.Background(), article.ID, news.Upload{
		FileName: "payload.exe",
		Size:     10,
		Reader:   strings.NewReader("xxxxxxxxxx"),
	}, author)
	requireStatus(t, err, 400)
}

func TestAttachImage_ReplacesPreviousImage(t *testing.T) {
	service, _, backend := newService(t)
	author := principal("author-1", sec.RoleTeacher)

	article, err := service.Create(context.Background(), news.CreateInput{
		Title: "Pics", Content: "c", Category: news.CategoryLocal,
	}, "author-1")
	require.NoError(t, err)

	first, err := service.AttachImage(context.Background(), article.ID, news.Upload{
		FileName: "one.jpg", Size: 3, Reader: strings.NewReader("abc"),
	}, author)
	require.NoError(t, err)
	require.NotEmpty(t, first.ImageURL)

	second, err := service.AttachImage(context.Background(), article.ID, news.Upload{
		FileName: "two.png", Size: 3, Reader: strings.NewReader("def"),
	}, author)
	require.NoError(t, err)
	assert.NotEqual(t, first.ImageURL, second.ImageURL)
	assert.Contains(t, backend.deleted, first.ImageURL)
}

func TestDetachImage_WithoutImage(t *testing.T) {
	service, _, _ := newService(t)
	author := principal("author-1", sec.RoleTeacher)

	article, err := service.Create(context.Background(), news.CreateInput{
		Title: "No image", Content: "c", Category: news.CategoryLocal,
	}, "author-1")
	require.NoError(t, err)

	_, err = service.DetachImage(context.Background(), article.ID, author)
	requireStatus(t, err, 400)
}

func TestDelete_CleansUpImage(t *testing.T) {
	service, _, backend := newService(t)
	author := principal("author-1", sec.RoleTeacher)

	article, err := service.Create(context.Background(), news.CreateInput{
		Title: "Doomed", Content: "c", Category: news.CategoryLocal,
	}, "author-1")
	require.NoError(t, err)

	attached, err := service.AttachImage(context.Background(), article.ID, news.Upload{
		FileName: "cover.webp", Size: 3, Reader: strings.NewReader("abc"),
	}, author)
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), article.ID, author))
	assert.Contains(t, backend.deleted, attached.ImageURL)

	_, err = service.Get(context.Background(), article.ID)
	requireStatus(t, err, 404)
}

// requireStatus asserts err carries the expected HTTP status.
func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an application error, got %v", err)
	assert.Equal(t, status, appError.HTTPStatus)
}
