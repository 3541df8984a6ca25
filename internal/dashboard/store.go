// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package dashboard

import (
	"context"
	"time"
)

// Repository reads aggregate statistics across the platform schemas.
type Repository interface {
	Summary(context context.Context) (*Summary, error)
	BooksByLevel(context context.Context) (*LevelBreakdown, error)
	PastPapersByLevel(context context.Context) (*LevelBreakdown, error)
	UploadsSince(context context.Context, since time.Time) (int64, error)
	RecentActivity(context context.Context, limit int) ([]Activity, error)
}
