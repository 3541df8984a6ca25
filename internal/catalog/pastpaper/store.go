// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package pastpaper

import (
	"context"

	"github.com/jmasanja/elimu/internal/catalog/book"
	"github.com/jmasanja/elimu/pkg/pagination"
)

// Repository abstracts persistence for the past-paper archive.
type Repository interface {
	Create(context context.Context, paper *PastPaper) error
	FindByID(context context.Context, id string) (*PastPaper, error)
	List(context context.Context, filter ListFilter, params pagination.Params) ([]PastPaper, int, error)
	Update(context context.Context, paper *PastPaper) error
	Delete(context context.Context, id string) error

	IncrementViewCount(context context.Context, id string) error
	IncrementDownloadCount(context context.Context, id string) error

	CountByCategory(context context.Context, level book.EducationLevel) ([]FacetCount, error)
	CountByClass(context context.Context, level book.EducationLevel) ([]FacetCount, error)
	CountByYear(context context.Context, level book.EducationLevel) ([]YearCount, error)
	CountByExaminationBody(context context.Context, level book.EducationLevel) ([]FacetCount, error)
	Latest(context context.Context, level book.EducationLevel, limit int) ([]PastPaper, error)
	Stats(context context.Context) (*Stats, error)
}
