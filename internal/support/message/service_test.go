// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package message_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/support/message"
)

// # In-Memory Fakes

// fakeRepository is a mutex-guarded in-memory inbox Repository.
type fakeRepository struct {
	mu       sync.Mutex
	messages map[string]*message.Message
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{messages: make(map[string]*message.Message)}
}

func (repo *fakeRepository) Create(_ context.Context, entity *message.Message) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *entity
	repo.messages[entity.ID] = &copied
	return nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*message.Message, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if entity, ok := repo.messages[id]; ok {
		copied := *entity
		return &copied, nil
	}
	return nil, apperr.NotFound("Message")
}

func (repo *fakeRepository) List(_ context.Context, filter message.ListFilter) ([]message.Message, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := []message.Message{}
	for _, entity := range repo.messages {
		if filter.Status != "" && entity.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(entity.Subject, filter.Search) {
			continue
		}
		result = append(result, *entity)
	}
	return result, nil
}

func (repo *fakeRepository) UpdateStatus(_ context.Context, id string, status message.Status) (*message.Message, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	entity, ok := repo.messages[id]
	if !ok {
		return nil, apperr.NotFound("Message")
	}
	entity.Status = status
	copied := *entity
	return &copied, nil
}

func (repo *fakeRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.messages[id]; !ok {
		return apperr.NotFound("Message")
	}
	delete(repo.messages, id)
	return nil
}

func (repo *fakeRepository) Stats(_ context.Context) (*message.Stats, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	stats := &message.Stats{}
	for _, entity := range repo.messages {
		stats.Total = stats.Total + 1
		if entity.Status == message.StatusNew {
			stats.New = stats.New + 1
		} else {
			stats.Read = stats.Read + 1
		}
	}
	return stats, nil
}

// # Tests

func newService(t *testing.T) (*message.Service, *fakeRepository) {
	t.Helper()
	repository := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return message.NewService(repository, logger), repository
}

func TestCreate_NormalizesContactFields(t *testing.T) {
	service, _ := newService(t)

	entity, err := service.Create(context.Background(), message.CreateInput{
		Name:    "  Amina Hassan  ",
		Email:   "  Amina.Hassan@Example.COM ",
		Phone:   " +255 754 000 000 ",
		Subject: "Missing past paper",
		Message: "The 2023 chemistry paper will not download.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Amina Hassan", entity.Name)
	assert.Equal(t, "amina.hassan@example.com", entity.Email)
	assert.Equal(t, "+255 754 000 000", entity.Phone)
	assert.Equal(t, message.StatusNew, entity.Status)
}

func TestUpdateStatus_TriageTransition(t *testing.T) {
	service, _ := newService(t)

	entity, err := service.Create(context.Background(), message.CreateInput{
		Name: "A", Email: "a@b.c", Subject: "s", Message: "m",
	})
	require.NoError(t, err)

	updated, err := service.UpdateStatus(context.Background(), entity.ID, message.StatusRead)
	require.NoError(t, err)
	assert.Equal(t, message.StatusRead, updated.Status)
}

func TestStats_CountsByStatus(t *testing.T) {
	service, _ := newService(t)

	first, err := service.Create(context.Background(), message.CreateInput{
		Name: "A", Email: "a@b.c", Subject: "one", Message: "m",
	})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), message.CreateInput{
		Name: "B", Email: "b@b.c", Subject: "two", Message: "m",
	})
	require.NoError(t, err)

	_, err = service.UpdateStatus(context.Background(), first.ID, message.StatusRead)
	require.NoError(t, err)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Read)
}

func TestList_FilteredByStatus(t *testing.T) {
	service, _ := newService(t)

	entity, err := service.Create(context.Background(), message.CreateInput{
		Name: "A", Email: "a@b.c", Subject: "one", Message: "m",
	})
	require.NoError(t, err)

	messages, err := service.List(context.Background(), message.ListFilter{Status: message.StatusNew})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, entity.ID, messages[0].ID)

	messages, err = service.List(context.Background(), message.ListFilter{Status: message.StatusRead})
	require.NoError(t, err)
	assert.Empty(t, messages)
}
