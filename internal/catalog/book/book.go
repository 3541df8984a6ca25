// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

/*
Package book implements the study-book catalog.

Books are the primary learning resource on Elimu: uploadable documents
(PDF and office formats) classified by education level, class, category,
and subject, with view and download counters.
*/
package book

import (
	"time"
)

// EducationLevel partitions the Tanzanian curriculum.
type EducationLevel string

const (
	LevelPrimary   EducationLevel = "primary"
	LevelSecondary EducationLevel = "secondary"
)

// Valid reports whether the level is a known enum value.
func (level EducationLevel) Valid() bool {
	return level == LevelPrimary || level == LevelSecondary
}

// Uploader is the public subset of the uploading account embedded in responses.
type Uploader struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Book represents one study book in the catalog.
type Book struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	ThumbnailURL  string         `json:"thumbnailUrl,omitempty"`
	FileURL       string         `json:"fileUrl,omitempty"`
	FileName      string         `json:"fileName,omitempty"`
	Category      string         `json:"category"`
	Class         string         `json:"class"` // e.g. "Form 3", "Standard 7"
	Level         EducationLevel `json:"level"`
	Subject       string         `json:"subject,omitempty"`
	Author        string         `json:"author,omitempty"`
	Publisher     string         `json:"publisher,omitempty"`
	Year          int            `json:"year,omitempty"`
	DownloadCount int            `json:"downloadCount"`
	ViewCount     int            `json:"viewCount"`
	UploaderID    string         `json:"uploaderId"`
	Uploader      *Uploader      `json:"uploadedBy,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ListFilter narrows a catalog listing. Zero values mean "no constraint".
type ListFilter struct {
	Level    EducationLevel
	Category string
	Class    string
	Subject  string
	Search   string
}

// FacetCount is one value of a grouped metadata facet with its frequency.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Stats aggregates catalog-wide book metrics.
type Stats struct {
	TotalBooks     int          `json:"totalBooks"`
	TotalDownloads int          `json:"totalDownloads"`
	TotalViews     int          `json:"totalViews"`
	BooksByLevel   []FacetCount `json:"booksByLevel"`
}
