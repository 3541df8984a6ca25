// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

// Package pastpaper manages the national examination paper archive: CRUD,
// filtered search, facet listings, download bookkeeping and file storage.
package pastpaper

import (
	"time"

	"github.com/jmasanja/elimu/internal/catalog/book"
)

// PastPaper is one archived examination paper.
type PastPaper struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	ThumbnailURL    string              `json:"thumbnailUrl"`
	FileURL         string              `json:"fileUrl"`
	FileName        string              `json:"fileName"`
	Category        string              `json:"category"`
	Class           string              `json:"class"`
	Level           book.EducationLevel `json:"level"`
	Year            int                 `json:"year"`
	Subject         string              `json:"subject"`
	ExaminationBody string              `json:"examinationBody"`
	PaperNumber     string              `json:"paperNumber"`
	PaperType       string              `json:"paperType"`
	DownloadCount   int                 `json:"downloadCount"`
	ViewCount       int                 `json:"viewCount"`
	UploaderID      string              `json:"uploaderId"`
	Uploader        *book.Uploader      `json:"uploadedBy,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// ListFilter narrows a paper listing. Zero values mean "no constraint";
// the sentinel "all" is treated the same for category and class.
type ListFilter struct {
	Level           book.EducationLevel
	Category        string
	Class           string
	Year            int
	Subject         string
	ExaminationBody string
	Search          string
}

// FacetCount is one distinct value of a facet column with its paper count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// YearCount is the paper count for one examination year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Stats summarises the archive for the admin dashboard.
type Stats struct {
	TotalPastPapers int          `json:"totalPastPapers"`
	TotalDownloads  int          `json:"totalDownloads"`
	TotalViews      int          `json:"totalViews"`
	PapersByLevel   []FacetCount `json:"pastPapersByLevel"`
	PapersByYear    []YearCount  `json:"pastPapersByYear"`
}
