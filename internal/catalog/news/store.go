// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package news

import (
	"context"

	"github.com/jmasanja/elimu/pkg/pagination"
)

// Repository abstracts article persistence.
type Repository interface {
	Create(context context.Context, article *Article) error
	FindByID(context context.Context, id string) (*Article, error)
	FindBySlug(context context.Context, slug string) (*Article, error)
	List(context context.Context, filter ListFilter, params pagination.Params) ([]Article, int, error)
	Update(context context.Context, article *Article) error
	Delete(context context.Context, id string) error

	CountPublishedByCategory(context context.Context) ([]CategoryCount, error)
	LatestPublished(context context.Context, limit int) ([]Article, error)
}
