// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package dashboard_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmasanja/elimu/internal/catalog/trending"
	"github.com/jmasanja/elimu/internal/dashboard"
)

// fakeRepository returns canned aggregates and records the requested window.
type fakeRepository struct {
	uploadsSince time.Time
}

func (repo *fakeRepository) Summary(_ context.Context) (*dashboard.Summary, error) {
	return &dashboard.Summary{
		TotalUsers:           120,
		TotalBooks:           40,
		TotalPastPapers:      25,
		TotalTutorials:       10,
		TotalQuizzes:         8,
		TotalNewsArticles:    12,
		TotalCareerResources: 5,
		TotalResources:       100,
		TotalDownloads:       900,
		TotalViews:           4500,
		PendingMessages:      3,
	}, nil
}

func (repo *fakeRepository) BooksByLevel(_ context.Context) (*dashboard.LevelBreakdown, error) {
	return &dashboard.LevelBreakdown{Primary: 15, Secondary: 25}, nil
}

func (repo *fakeRepository) PastPapersByLevel(_ context.Context) (*dashboard.LevelBreakdown, error) {
	return &dashboard.LevelBreakdown{Primary: 5, Secondary: 20}, nil
}

func (repo *fakeRepository) UploadsSince(_ context.Context, since time.Time) (int64, error) {
	repo.uploadsSince = since
	return 7, nil
}

func (repo *fakeRepository) RecentActivity(_ context.Context, limit int) ([]dashboard.Activity, error) {
	return []dashboard.Activity{{
		ID:       "0192b1c2-0000-7000-8000-000000000001",
		Actor:    "Joseph Masanja",
		Action:   "uploaded study notes",
		Resource: "Form Two Biology",
		Type:     "upload",
	}}, nil
}

func TestStats_AggregatesAllSections(t *testing.T) {
	repository := &fakeRepository{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Redis is unreachable here; trending degrades to empty rankings.
	recorder := trending.NewRecorder(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), logger)
	service := dashboard.NewService(repository, recorder, logger)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(120), stats.Summary.TotalUsers)
	assert.Equal(t, int64(3), stats.Summary.PendingMessages)
	assert.Equal(t, int64(15), stats.BooksByLevel.Primary)
	assert.Equal(t, int64(20), stats.PastPapersByLevel.Secondary)
	assert.Equal(t, int64(7), stats.UploadsToday)
	require.Len(t, stats.RecentActivity, 1)

	// Uploads are counted from local midnight.
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	assert.Equal(t, midnight, repository.uploadsSince)

	// Trending degrades rather than failing the payload.
	assert.NotNil(t, stats.TrendingBooks)
	assert.Empty(t, stats.TrendingBooks)
	assert.NotNil(t, stats.TrendingPastPapers)
	assert.Empty(t, stats.TrendingPastPapers)
}
