// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package career

import "context"

// Repository abstracts resource persistence.
type Repository interface {
	Create(context context.Context, resource *Resource) error
	FindByID(context context.Context, id string) (*Resource, error)
	List(context context.Context) ([]Resource, error)
	Update(context context.Context, resource *Resource) error
	Delete(context context.Context, id string) error
}
