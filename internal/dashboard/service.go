// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmasanja/elimu/internal/catalog/trending"
	"github.com/jmasanja/elimu/internal/platform/constants"
)

const (
	recentActivityLimit = 5
	trendingLimit       = 5
)

// Service assembles the dashboard statistics payload.
type Service struct {
	repository Repository
	trending   *trending.Recorder
	logger     *slog.Logger
}

// NewService constructs a new dashboard [Service].
func NewService(repository Repository, recorder *trending.Recorder, logger *slog.Logger) *Service {
	return &Service{repository: repository, trending: recorder, logger: logger}
}

// Stats gathers entity counts, level breakdowns, recent contributions and
// trending rankings. Trending reads are best-effort: a Redis outage degrades
// the rankings to empty rather than failing the whole payload.
func (service *Service) Stats(context context.Context) (*Stats, error) {
	summary, err := service.repository.Summary(context)
	if err != nil {
		return nil, fmt.Errorf("dashboard_service_stats_failed: %w", err)
	}

	booksByLevel, err := service.repository.BooksByLevel(context)
	if err != nil {
		return nil, fmt.Errorf("dashboard_service_stats_failed: %w", err)
	}

	papersByLevel, err := service.repository.PastPapersByLevel(context)
	if err != nil {
		return nil, fmt.Errorf("dashboard_service_stats_failed: %w", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	uploadsToday, err := service.repository.UploadsSince(context, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("dashboard_service_stats_failed: %w", err)
	}

	activity, err := service.repository.RecentActivity(context, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard_service_stats_failed: %w", err)
	}

	return &Stats{
		Summary:            *summary,
		BooksByLevel:       *booksByLevel,
		PastPapersByLevel:  *papersByLevel,
		UploadsToday:       uploadsToday,
		RecentActivity:     activity,
		TrendingBooks:      service.topViewed(context, constants.RedisKeyTrendingBooks),
		TrendingPastPapers: service.topViewed(context, constants.RedisKeyTrendingPapers),
	}, nil
}

func (service *Service) topViewed(context context.Context, key string) []trending.Entry {
	entries, err := service.trending.Top(context, key, trendingLimit)
	if err != nil {
		service.logger.Warn("dashboard_trending_unavailable",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return []trending.Entry{}
	}
	return entries
}
