// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

// Package tutorial manages video tutorial entries.
package tutorial

import (
	"time"

	"github.com/jmasanja/elimu/internal/catalog/book"
)

// Tutorial is one video tutorial entry.
type Tutorial struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Subject     string              `json:"subject"`
	Level       book.EducationLevel `json:"level"`
	Class       string              `json:"class"`
	Description string              `json:"description"`
	VideoURL    string              `json:"videoUrl"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ListFilter narrows a tutorial listing. Zero values mean "no constraint".
type ListFilter struct {
	Level   book.EducationLevel
	Subject string
	Class   string
}
