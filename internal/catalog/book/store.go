// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package book

import (
	"context"

	"github.com/jmasanja/elimu/pkg/pagination"
)

// Repository defines the data access contract for the book catalog.
type Repository interface {
	Create(context context.Context, book *Book) error
	FindByID(context context.Context, id string) (*Book, error)
	List(context context.Context, filter ListFilter, params pagination.Params) ([]Book, int, error)
	Update(context context.Context, book *Book) error
	Delete(context context.Context, id string) error

	// Counters are incremented server-side so concurrent reads never lose updates.
	IncrementViewCount(context context.Context, id string) error
	IncrementDownloadCount(context context.Context, id string) error

	// Metadata facets for catalog navigation.
	CountByCategory(context context.Context, level EducationLevel) ([]FacetCount, error)
	CountByClass(context context.Context, level EducationLevel) ([]FacetCount, error)
	CountBySubject(context context.Context, level EducationLevel) ([]FacetCount, error)

	Latest(context context.Context, level EducationLevel, limit int) ([]Book, error)
	Stats(context context.Context) (*Stats, error)
}
