// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package news

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/dberr"
	"github.com/jmasanja/elimu/pkg/pagination"
)

// PostgresRepository implements the news Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the news Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectColumns is the shared projection for hydrating an Article with its author.
const selectColumns = `
	n.id, n.title, n.slug, n.description, n.content, n.imageurl, n.category,
	n.readtime, n.ispublished, n.publishedat, n.authorid, n.createdat, n.updatedat,
	u.id, u.firstname, u.lastname, u.email`

// scanArticle hydrates one row of the shared projection.
func scanArticle(row pgx.Row) (*Article, error) {
	entity := &Article{Author: &Author{}}
	err := row.Scan(
		&entity.ID, &entity.Title, &entity.Slug, &entity.Description,
		&entity.Content, &entity.ImageURL, &entity.Category, &entity.ReadTime,
		&entity.IsPublished, &entity.PublishedAt, &entity.AuthorID,
		&entity.CreatedAt, &entity.UpdatedAt,
		&entity.Author.ID, &entity.Author.FirstName, &entity.Author.LastName, &entity.Author.Email,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Create persists a new article row into catalog.news.
// A slug collision surfaces as a Conflict through dberr.
func (repository *PostgresRepository) Create(context context.Context, article *Article) error {
	const query = `
		INSERT INTO catalog.news (
			id, title, slug, description, content, imageurl, category,
			readtime, ispublished, publishedat, authorid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		article.ID, article.Title, article.Slug, article.Description,
		article.Content, article.ImageURL, article.Category, article.ReadTime,
		article.IsPublished, article.PublishedAt, article.AuthorID,
		article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "News article")
	}

	return nil
}

// FindByID retrieves a single article with its author.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Article, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM catalog.news n
		JOIN users.account u ON u.id = n.authorid
		WHERE n.id = $1`

	return repository.findOne(context, query, id)
}

// FindBySlug retrieves a single article by its URL slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Article, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM catalog.news n
		JOIN users.account u ON u.id = n.authorid
		WHERE n.slug = $1`

	return repository.findOne(context, query, slug)
}

func (repository *PostgresRepository) findOne(context context.Context, query string, arg interface{}) (*Article, error) {
	entity, err := scanArticle(repository.pool.QueryRow(context, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("News article")
		}
		return nil, fmt.Errorf("postgres_news_repo_find_failed: %w", err)
	}
	return entity, nil
}

// List returns one filtered page of articles plus the total matching count.
func (repository *PostgresRepository) List(context context.Context, filter ListFilter, params pagination.Params) ([]Article, int, error) {
	clauses := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	placeholder := func(value interface{}) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Category != "" {
		clauses = append(clauses, "n.category = "+placeholder(filter.Category))
	}
	if filter.AuthorID != "" {
		clauses = append(clauses, "n.authorid = "+placeholder(filter.AuthorID))
	}
	if filter.Published != nil {
		clauses = append(clauses, "n.ispublished = "+placeholder(*filter.Published))
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := repository.pool.QueryRow(context, "SELECT COUNT(*) FROM catalog.news n"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_news_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM catalog.news n
		JOIN users.account u ON u.id = n.authorid
		%s
		ORDER BY n.createdat DESC
		LIMIT $%d OFFSET $%d`,
		selectColumns, where, len(args)+1, len(args)+2)

	rows, err := repository.pool.Query(context, query, append(args, params.Limit, params.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_news_repo_list_failed: %w", err)
	}
	defer rows.Close()

	articles := make([]Article, 0, params.Limit)
	for rows.Next() {
		entity, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_news_repo_scan_failed: %w", err)
		}
		articles = append(articles, *entity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_news_repo_rows_failed: %w", err)
	}

	return articles, total, nil
}

// Update persists changes to an article's mutable fields.
func (repository *PostgresRepository) Update(context context.Context, article *Article) error {
	const query = `
		UPDATE catalog.news
		SET title = $2, slug = $3, description = $4, content = $5,
			imageurl = $6, category = $7, readtime = $8, ispublished = $9,
			publishedat = $10, updatedat = $11
		WHERE id = $1`

	article.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		article.ID, article.Title, article.Slug, article.Description,
		article.Content, article.ImageURL, article.Category, article.ReadTime,
		article.IsPublished, article.PublishedAt, article.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "News article")
	}

	return nil
}

// Delete permanently removes an article row.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	commandTag, err := repository.pool.Exec(context, "DELETE FROM catalog.news WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_news_repo_delete_failed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("News article")
	}
	return nil
}

// CountPublishedByCategory returns the published article count per section.
func (repository *PostgresRepository) CountPublishedByCategory(context context.Context) ([]CategoryCount, error) {
	const query = `
		SELECT category, COUNT(*)
		FROM catalog.news
		WHERE ispublished = TRUE
		GROUP BY category
		ORDER BY category`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_news_repo_categories_failed: %w", err)
	}
	defer rows.Close()

	counts := []CategoryCount{}
	for rows.Next() {
		var count CategoryCount
		if err := rows.Scan(&count.Category, &count.Count); err != nil {
			return nil, fmt.Errorf("postgres_news_repo_categories_scan_failed: %w", err)
		}
		counts = append(counts, count)
	}

	return counts, rows.Err()
}

// LatestPublished returns the most recently published articles.
func (repository *PostgresRepository) LatestPublished(context context.Context, limit int) ([]Article, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM catalog.news n
		JOIN users.account u ON u.id = n.authorid
		WHERE n.ispublished = TRUE
		ORDER BY n.publishedat DESC
		LIMIT $1`

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_news_repo_latest_failed: %w", err)
	}
	defer rows.Close()

	articles := make([]Article, 0, limit)
	for rows.Next() {
		entity, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_news_repo_latest_scan_failed: %w", err)
		}
		articles = append(articles, *entity)
	}

	return articles, rows.Err()
}
