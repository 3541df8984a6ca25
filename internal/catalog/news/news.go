// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

// Package news manages platform news articles and their publish workflow.
//
// Articles are drafts until published. The public surface only ever serves
// published articles; authors and admins manage drafts through the
// authenticated management listing.
package news

import "time"

// Category is the editorial section an article belongs to.
type Category string

const (
	CategoryPolitics      Category = "Politics"
	CategoryBusiness      Category = "Business"
	CategoryTechnology    Category = "Technology"
	CategorySports        Category = "Sports"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryScience       Category = "Science"
	CategoryWorld         Category = "World"
	CategoryLocal         Category = "Local"
)

// Categories lists every valid editorial section.
var Categories = []Category{
	CategoryPolitics, CategoryBusiness, CategoryTechnology, CategorySports,
	CategoryEntertainment, CategoryHealth, CategoryEducation, CategoryScience,
	CategoryWorld, CategoryLocal,
}

// Valid reports whether the category is a known editorial section.
func (category Category) Valid() bool {
	for _, candidate := range Categories {
		if category == candidate {
			return true
		}
	}
	return false
}

// Author is the embedded attribution for an article.
type Author struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Article is one news entry.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	ImageURL    string     `json:"imageUrl"`
	Category    Category   `json:"category"`
	ReadTime    int        `json:"readTime"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	AuthorID    string     `json:"authorId"`
	Author      *Author    `json:"author,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ListFilter narrows an article listing. A nil Published means any status.
type ListFilter struct {
	Category  Category
	AuthorID  string
	Published *bool
}

// CategoryCount is the published article count for one editorial section.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}
