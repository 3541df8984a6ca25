// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package tutorial

import (
	"context"
	"log/slog"

	"github.com/jmasanja/elimu/internal/catalog/book"
	"github.com/jmasanja/elimu/pkg/uuidv7"
)

// Service orchestrates business logic for tutorials.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new tutorial [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// CreateInput holds the fields for a new tutorial.
type CreateInput struct {
	Title       string
	Subject     string
	Level       book.EducationLevel
	Class       string
	Description string
	VideoURL    string
}

func (service *Service) Create(context context.Context, input CreateInput) (*Tutorial, error) {
	entity := &Tutorial{
		ID:          uuidv7.New(),
		Title:       input.Title,
		Subject:     input.Subject,
		Level:       input.Level,
		Class:       input.Class,
		Description: input.Description,
		VideoURL:    input.VideoURL,
	}

	if err := service.repository.Create(context, entity); err != nil {
		return nil, err
	}

	service.logger.Info("tutorial_created", slog.String("tutorial_id", entity.ID))
	return entity, nil
}

func (service *Service) List(context context.Context, filter ListFilter) ([]Tutorial, error) {
	return service.repository.List(context, filter)
}

func (service *Service) Get(context context.Context, id string) (*Tutorial, error) {
	return service.repository.FindByID(context, id)
}

// UpdateInput defines the mutable subset for partial updates.
type UpdateInput struct {
	Title       *string
	Subject     *string
	Level       *book.EducationLevel
	Class       *string
	Description *string
	VideoURL    *string
}

func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Tutorial, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		entity.Title = *input.Title
	}
	if input.Subject != nil {
		entity.Subject = *input.Subject
	}
	if input.Level != nil {
		entity.Level = *input.Level
	}
	if input.Class != nil {
		entity.Class = *input.Class
	}
	if input.Description != nil {
		entity.Description = *input.Description
	}
	if input.VideoURL != nil {
		entity.VideoURL = *input.VideoURL
	}

	if err := service.repository.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}
	service.logger.Info("tutorial_deleted", slog.String("tutorial_id", id))
	return nil
}

func (service *Service) Levels(context context.Context) ([]string, error) {
	return service.repository.DistinctLevels(context)
}

func (service *Service) Subjects(context context.Context, level book.EducationLevel) ([]string, error) {
	return service.repository.DistinctSubjects(context, level)
}

func (service *Service) Classes(context context.Context, level book.EducationLevel) ([]string, error) {
	return service.repository.DistinctClasses(context, level)
}
