// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

// Package dashboard aggregates platform-wide statistics for the staff
// administration screens.
package dashboard

import (
	"time"

	"github.com/jmasanja/elimu/internal/catalog/trending"
)

// Summary holds the headline entity counts and usage totals.
type Summary struct {
	TotalUsers           int64 `json:"totalUsers"`
	TotalBooks           int64 `json:"totalBooks"`
	TotalPastPapers      int64 `json:"totalPastPapers"`
	TotalTutorials       int64 `json:"totalTutorials"`
	TotalQuizzes         int64 `json:"totalQuizzes"`
	TotalNewsArticles    int64 `json:"totalNewsArticles"`
	TotalCareerResources int64 `json:"totalCareerResources"`
	TotalResources       int64 `json:"totalResources"`
	TotalDownloads       int64 `json:"totalDownloads"`
	TotalViews           int64 `json:"totalViews"`
	PendingMessages      int64 `json:"pendingMessages"`
}

// LevelBreakdown splits a resource count by education level.
type LevelBreakdown struct {
	Primary   int64 `json:"primary"`
	Secondary int64 `json:"secondary"`
}

// Activity is one recent contribution to the catalog.
type Activity struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Stats is the full dashboard payload.
type Stats struct {
	Summary            Summary          `json:"summary"`
	BooksByLevel       LevelBreakdown   `json:"booksByLevel"`
	PastPapersByLevel  LevelBreakdown   `json:"pastPapersByLevel"`
	UploadsToday       int64            `json:"uploadsToday"`
	RecentActivity     []Activity       `json:"recentActivity"`
	TrendingBooks      []trending.Entry `json:"trendingBooks"`
	TrendingPastPapers []trending.Entry `json:"trendingPastPapers"`
}
