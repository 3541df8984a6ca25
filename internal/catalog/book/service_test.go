// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package book_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmasanja/elimu/internal/catalog/book"
	"github.com/jmasanja/elimu/internal/catalog/trending"
	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/pkg/pagination"
)

// # In-Memory Fakes

// fakeRepository is a mutex-guarded in-memory book Repository.
type fakeRepository struct {
	mu    sync.Mutex
	books map[string]*book.Book
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{books: make(map[string]*book.Book)}
}

func (repo *fakeRepository) Create(_ context.Context, entity *book.Book) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *entity
	repo.books[entity.ID] = &copied
	return nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*book.Book, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if entity, ok := repo.books[id]; ok {
		copied := *entity
		return &copied, nil
	}
	return nil, apperr.NotFound("Book")
}

func (repo *fakeRepository) List(_ context.Context, filter book.ListFilter, params pagination.Params) ([]book.Book, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	matched := []book.Book{}
	for _, entity := range repo.books {
		if filter.Level != "" && entity.Level != filter.Level {
			continue
		}
		if filter.Category != "" && entity.Category != filter.Category {
			continue
		}
		matched = append(matched, *entity)
	}
	return matched, len(matched), nil
}

func (repo *fakeRepository) Update(_ context.Context, entity *book.Book) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.books[entity.ID]; !ok {
		return apperr.NotFound("Book")
	}
	copied := *entity
	repo.books[entity.ID] = &copied
	return nil
}

func (repo *fakeRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.books[id]; !ok {
		return apperr.NotFound("Book")
	}
	delete(repo.books, id)
	return nil
}

func (repo *fakeRepository) IncrementViewCount(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if entity, ok := repo.books[id]; ok {
		entity.ViewCount = entity.ViewCount + 1
		return nil
	}
	return apperr.NotFound("Book")
}

func (repo *fakeRepository) IncrementDownloadCount(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if entity, ok := repo.books[id]; ok {
		entity.DownloadCount = entity.DownloadCount + 1
		return nil
	}
	return apperr.NotFound("Book")
}

func (repo *fakeRepository) CountByCategory(_ context.Context, level book.EducationLevel) ([]book.FacetCount, error) {
	return repo.facet(func(entity *book.Book) string { return entity.Category }, level)
}

func (repo *fakeRepository) CountByClass(_ context.Context, level book.EducationLevel) ([]book.FacetCount, error) {
	return repo.facet(func(entity *book.Book) string { return entity.Class }, level)
}

func (repo *fakeRepository) CountBySubject(_ context.Context, level book.EducationLevel) ([]book.FacetCount, error) {
	return repo.facet(func(entity *book.Book) string { return entity.Subject }, level)
}

func (repo *fakeRepository) facet(key func(*book.Book) string, level book.EducationLevel) ([]book.FacetCount, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	counts := map[string]int{}
	for _, entity := range repo.books {
		if level != "" && entity.Level != level {
			continue
		}
		counts[key(entity)] = counts[key(entity)] + 1
	}
	result := []book.FacetCount{}
	for value, count := range counts {
		result = append(result, book.FacetCount{Value: value, Count: count})
	}
	return result, nil
}

func (repo *fakeRepository) Latest(_ context.Context, level book.EducationLevel, limit int) ([]book.Book, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := []book.Book{}
	for _, entity := range repo.books {
		if level != "" && entity.Level != level {
			continue
		}
		if len(result) < limit {
			result = append(result, *entity)
		}
	}
	return result, nil
}

func (repo *fakeRepository) Stats(_ context.Context) (*book.Stats, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	stats := &book.Stats{}
	for _, entity := range repo.books {
		stats.TotalBooks = stats.TotalBooks + 1
		stats.TotalDownloads = stats.TotalDownloads + entity.DownloadCount
		stats.TotalViews = stats.TotalViews + entity.ViewCount
	}
	return stats, nil
}

// fakeStorage records uploads and deletions without any real backend.
type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (backend *fakeStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) (string, error) {
	_, _ = io.Copy(io.Discard, reader)
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

// newService builds a Service over fakes. The trending recorder points at an
// unreachable Redis address; its writes are best-effort, so catalog reads
// still succeed without a live instance.
func newService(t *testing.T) (*book.Service, *fakeRepository, *fakeStorage) {
	t.Helper()
	repository := newFakeRepository()
	backend := &fakeStorage{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := trending.NewRecorder(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), logger)
	return book.NewService(repository, backend, recorder, logger), repository, backend
}

func principal(userID string, role sec.UserRole) *sec.AccessClaims {
	return &sec.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Role:             string(role),
	}
}

func seedBook(t *testing.T, service *book.Service, uploaderID string) *book.Book {
	t.Helper()
	entity, err := service.Create(context.Background(), book.CreateInput{
		Title:    "Darasa la Kwanza Hesabu",
		Category: "Textbooks",
		Class:    "Standard 1",
		Level:    book.LevelPrimary,
		Subject:  "Mathematics",
	}, uploaderID)
	require.NoError(t, err)
	return entity
}

// # Tests

func TestGet_CountsView(t *testing.T) {
	service, repository, _ := newService(t)
	entity := seedBook(t, service, "uploader-1")

	viewed, err := service.Get(context.Background(), entity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, viewed.ViewCount)

	stored, err := repository.FindByID(context.Background(), entity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ViewCount)
}

func TestDownload_WithoutFile(t *testing.T) {
	service, _, _ := newService(t)
	entity := seedBook(t, service, "uploader-1")

	_, err := service.Download(context.Background(), entity.ID)
	requireStatus(t, err, 404)
}

func TestDownload_CountsAndResolvesFile(t *testing.T) {
	service, _, _ := newService(t)
	owner := principal("uploader-1", sec.RoleTeacher)
	entity := seedBook(t, service, "uploader-1")

	attached, err := service.AttachFile(context.Background(), entity.ID, book.Upload{
		FileName: "notes.pdf", Size: 3, Reader: strings.NewReader("abc"),
	}, owner)
	require.NoError(t, err)

	link, err := service.Download(context.Background(), entity.ID)
	require.NoError(t, err)
	assert.Equal(t, attached.FileURL, link.DownloadURL)

	stored, err := service.Get(context.Background(), entity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.DownloadCount)
}

func TestAttachFile_RejectsUnknownExtension(t *testing.T) {
	service, _, _ := newService(t)
	owner := principal("uploader-1", sec.RoleTeacher)
	entity := seedBook(t, service, "uploader-1")

	_, err := service.AttachFile(context.Background(), entity.ID, book.Upload{
		FileName: "notes.exe", Size: 3, Reader: strings.NewReader("abc"),
	}, owner)
	requireStatus(t, err, 400)
}

func TestAttachFile_ForeignUploaderForbidden(t *testing.T) {
	service, _, _ := newService(t)
	entity := seedBook(t, service, "uploader-1")

	_, err := service.AttachFile(context.Background(), entity.ID, book.Upload{
		FileName: "notes.pdf", Size: 3, Reader: strings.NewReader("abc"),
	}, principal("intruder", sec.RoleTeacher))
	requireStatus(t, err, 403)
}

func TestUpdate_AdminBypassesOwnership(t *testing.T) {
	service, _, _ := newService(t)
	entity := seedBook(t, service, "uploader-1")

	title := "Renamed"
	updated, err := service.Update(context.Background(), entity.ID, book.UpdateInput{Title: &title}, principal("admin-1", sec.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestDelete_CleansUpStoredMedia(t *testing.T) {
	service, _, backend := newService(t)
	owner := principal("uploader-1", sec.RoleTeacher)
	entity := seedBook(t, service, "uploader-1")

	attached, err := service.AttachFile(context.Background(), entity.ID, book.Upload{
		FileName: "notes.pdf", Size: 3, Reader: strings.NewReader("abc"),
	}, owner)
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), entity.ID, owner))
	assert.Contains(t, backend.deleted, attached.FileURL)

	_, err = service.Get(context.Background(), entity.ID)
	requireStatus(t, err, 404)
}

func TestCategories_FilteredByLevel(t *testing.T) {
	service, _, _ := newService(t)
	seedBook(t, service, "uploader-1")

	_, err := service.Create(context.Background(), book.CreateInput{
		Title:    "Form Two Physics",
		Category: "Reference",
		Class:    "Form 2",
		Level:    book.LevelSecondary,
		Subject:  "Physics",
	}, "uploader-1")
	require.NoError(t, err)

	facets, err := service.Categories(context.Background(), book.LevelPrimary)
	require.NoError(t, err)
	require.Len(t, facets, 1)
	assert.Equal(t, "Textbooks", facets[0].Value)
}

// requireStatus asserts err carries the expected HTTP status.
func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an application error, got %v", err)
	assert.Equal(t, status, appError.HTTPStatus)
}
