// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package message

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmasanja/elimu/pkg/uuidv7"
)

// Service orchestrates business logic for the contact inbox.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new message [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// CreateInput holds the fields of a contact-form submission.
type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// Create records a new submission in the "new" triage state.
func (service *Service) Create(context context.Context, input CreateInput) (*Message, error) {
	entity := &Message{
		ID:      uuidv7.New(),
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   strings.TrimSpace(input.Phone),
		Subject: input.Subject,
		Message: input.Message,
		Status:  StatusNew,
	}

	if err := service.repository.Create(context, entity); err != nil {
		return nil, err
	}

	service.logger.Info("contact_message_received",
		slog.String("message_id", entity.ID),
		slog.String("subject", entity.Subject),
	)
	return entity, nil
}

func (service *Service) List(context context.Context, filter ListFilter) ([]Message, error) {
	return service.repository.List(context, filter)
}

func (service *Service) Get(context context.Context, id string) (*Message, error) {
	return service.repository.FindByID(context, id)
}

// UpdateStatus transitions a message's triage state.
func (service *Service) UpdateStatus(context context.Context, id string, status Status) (*Message, error) {
	return service.repository.UpdateStatus(context, id, status)
}

func (service *Service) Delete(context context.Context, id string) error {
	return service.repository.Delete(context, id)
}

func (service *Service) Stats(context context.Context) (*Stats, error) {
	return service.repository.Stats(context)
}
