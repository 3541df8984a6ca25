// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements the dashboard Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the dashboard Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Summary(context context.Context) (*Summary, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM users.account),
			(SELECT COUNT(*) FROM catalog.book),
			(SELECT COUNT(*) FROM catalog.pastpaper),
			(SELECT COUNT(*) FROM catalog.tutorial),
			(SELECT COUNT(*) FROM catalog.quiz),
			(SELECT COUNT(*) FROM catalog.news),
			(SELECT COUNT(*) FROM catalog.careerresource),
			(SELECT COALESCE(SUM(downloadcount), 0) FROM catalog.book) +
				(SELECT COALESCE(SUM(downloadcount), 0) FROM catalog.pastpaper),
			(SELECT COALESCE(SUM(viewcount), 0) FROM catalog.book) +
				(SELECT COALESCE(SUM(viewcount), 0) FROM catalog.pastpaper),
			(SELECT COUNT(*) FROM support.message WHERE status = 'new')`

	summary := &Summary{}
	err := repository.pool.QueryRow(context, query).Scan(
		&summary.TotalUsers, &summary.TotalBooks, &summary.TotalPastPapers,
		&summary.TotalTutorials, &summary.TotalQuizzes, &summary.TotalNewsArticles,
		&summary.TotalCareerResources, &summary.TotalDownloads, &summary.TotalViews,
		&summary.PendingMessages,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_dashboard_repo_summary_failed: %w", err)
	}

	summary.TotalResources = summary.TotalBooks + summary.TotalPastPapers +
		summary.TotalTutorials + summary.TotalQuizzes +
		summary.TotalNewsArticles + summary.TotalCareerResources

	return summary, nil
}

func (repository *PostgresRepository) levelBreakdown(context context.Context, table string) (*LevelBreakdown, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE level = 'primary'),
			COUNT(*) FILTER (WHERE level = 'secondary')
		FROM ` + table

	breakdown := &LevelBreakdown{}
	err := repository.pool.QueryRow(context, query).Scan(&breakdown.Primary, &breakdown.Secondary)
	if err != nil {
		return nil, fmt.Errorf("postgres_dashboard_repo_level_breakdown_failed: %w", err)
	}

	return breakdown, nil
}

func (repository *PostgresRepository) BooksByLevel(context context.Context) (*LevelBreakdown, error) {
	return repository.levelBreakdown(context, "catalog.book")
}

func (repository *PostgresRepository) PastPapersByLevel(context context.Context) (*LevelBreakdown, error) {
	return repository.levelBreakdown(context, "catalog.pastpaper")
}

func (repository *PostgresRepository) UploadsSince(context context.Context, since time.Time) (int64, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM catalog.book WHERE createdat >= $1) +
			(SELECT COUNT(*) FROM catalog.pastpaper WHERE createdat >= $1)`

	var count int64
	if err := repository.pool.QueryRow(context, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_dashboard_repo_uploads_since_failed: %w", err)
	}

	return count, nil
}

func (repository *PostgresRepository) RecentActivity(context context.Context, limit int) ([]Activity, error) {
	const query = `
		SELECT id, actor, action, resource, type, occurredat FROM (
			SELECT b.id, u.firstname || ' ' || u.lastname AS actor,
				'uploaded study notes' AS action, b.title AS resource,
				'upload' AS type, b.createdat AS occurredat
			FROM catalog.book b
			JOIN users.account u ON u.id = b.uploaderid
			UNION ALL
			SELECT p.id, u.firstname || ' ' || u.lastname,
				'uploaded past papers', p.title, 'upload', p.createdat
			FROM catalog.pastpaper p
			JOIN users.account u ON u.id = p.uploaderid
			UNION ALL
			SELECT n.id, u.firstname || ' ' || u.lastname,
				'published news', n.title, 'publish', n.publishedat
			FROM catalog.news n
			JOIN users.account u ON u.id = n.authorid
			WHERE n.ispublished = TRUE AND n.publishedat IS NOT NULL
		) feed
		ORDER BY occurredat DESC
		LIMIT $1`

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_dashboard_repo_recent_activity_failed: %w", err)
	}
	defer rows.Close()

	activities := []Activity{}
	for rows.Next() {
		entry := Activity{}
		err := rows.Scan(
			&entry.ID, &entry.Actor, &entry.Action,
			&entry.Resource, &entry.Type, &entry.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_dashboard_repo_scan_failed: %w", err)
		}
		activities = append(activities, entry)
	}

	return activities, rows.Err()
}
