// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package career

import (
	"context"
	"log/slog"

	"github.com/jmasanja/elimu/pkg/uuidv7"
)

// Service orchestrates business logic for career resources.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new career [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// CreateInput holds the fields for a new resource.
type CreateInput struct {
	Title       string
	Description string
	Link        string
	Icon        string
}

func (service *Service) Create(context context.Context, input CreateInput) (*Resource, error) {
	entity := &Resource{
		ID:          uuidv7.New(),
		Title:       input.Title,
		Description: input.Description,
		Link:        input.Link,
		Icon:        input.Icon,
	}

	if err := service.repository.Create(context, entity); err != nil {
		return nil, err
	}

	service.logger.Info("career_resource_created", slog.String("resource_id", entity.ID))
	return entity, nil
}

func (service *Service) List(context context.Context) ([]Resource, error) {
	return service.repository.List(context)
}

func (service *Service) Get(context context.Context, id string) (*Resource, error) {
	return service.repository.FindByID(context, id)
}

// UpdateInput defines the mutable subset for partial updates.
type UpdateInput struct {
	Title       *string
	Description *string
	Link        *string
	Icon        *string
}

func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Resource, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		entity.Title = *input.Title
	}
	if input.Description != nil {
		entity.Description = *input.Description
	}
	if input.Link != nil {
		entity.Link = *input.Link
	}
	if input.Icon != nil {
		entity.Icon = *input.Icon
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
	service.logger.Info("career_resource_deleted", slog.String("resource_id", id))
	return nil
}
