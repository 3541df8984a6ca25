// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package message

import "context"

// Repository abstracts inbox persistence.
type Repository interface {
	Create(context context.Context, message *Message) error
	FindByID(context context.Context, id string) (*Message, error)
	List(context context.Context, filter ListFilter) ([]Message, error)
	UpdateStatus(context context.Context, id string, status Status) (*Message, error)
	Delete(context context.Context, id string) error
	Stats(context context.Context) (*Stats, error)
}
