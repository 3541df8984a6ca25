// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package tutorial

import (
	"context"

	"github.com/jmasanja/elimu/internal/catalog/book"
)

// Repository abstracts tutorial persistence.
type Repository interface {
	Create(context context.Context, tutorial *Tutorial) error
	FindByID(context context.Context, id string) (*Tutorial, error)
	List(context context.Context, filter ListFilter) ([]Tutorial, error)
	Update(context context.Context, tutorial *Tutorial) error
	Delete(context context.Context, id string) error

	DistinctLevels(context context.Context) ([]string, error)
	DistinctSubjects(context context.Context, level book.EducationLevel) ([]string, error)
	DistinctClasses(context context.Context, level book.EducationLevel) ([]string, error)
}
