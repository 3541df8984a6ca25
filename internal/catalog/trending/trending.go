// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

// Package trending tracks recently popular catalog resources in Redis.
//
// Each resource family keeps one sorted set (member = resource ID,
// score = view count). Writes are best-effort: a Redis outage must never
// fail a catalog read, so recording errors are logged and swallowed.
package trending

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Recorder increments and reads per-resource view counters.
type Recorder struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRecorder constructs a [Recorder] over an established Redis client.
func NewRecorder(client *redis.Client, logger *slog.Logger) *Recorder {
	return &Recorder{client: client, logger: logger}
}

// Touch bumps the view counter for one resource. Best-effort.
func (recorder *Recorder) Touch(context context.Context, key, resourceID string) {
	if err := recorder.client.ZIncrBy(context, key, 1, resourceID).Err(); err != nil {
		recorder.logger.Warn("trending_touch_failed",
			slog.String("key", key),
			slog.String("resource_id", resourceID),
			slog.String("error", err.Error()),
		)
	}
}

// Entry is one resource in a trending ranking.
type Entry struct {
	ResourceID string  `json:"resourceId"`
	Views      float64 `json:"views"`
}

// Top returns the n most-viewed resources for a key, highest first.
func (recorder *Recorder) Top(context context.Context, key string, n int) ([]Entry, error) {
	results, err := recorder.client.ZRevRangeWithScores(context, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(results))
	for _, result := range results {
		member, ok := result.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, Entry{ResourceID: member, Views: result.Score})
	}

	return entries, nil
}
