// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package book

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
	"github.com/jmasanja/elimu/pkg/pagination"
)

// PostgresRepository implements the book Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the book Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectColumns is the shared projection for hydrating a Book with its uploader.
const selectColumns = `
	b.id, b.title, b.description, b.thumbnailurl, b.fileurl, b.filename,
	b.category, b.class, b.level, b.subject, b.author, b.publisher, b.year,
	b.downloadcount, b.viewcount, b.uploaderid, b.createdat, b.updatedat,
	u.id, u.firstname, u.lastname, u.email`

// scanBook hydrates one row of the shared projection.
func scanBook(row pgx.Row) (*Book, error) {
	entity := &Book{Uploader: &Uploader{}}
	err := row.Scan(
		&entity.ID, &entity.Title, &entity.Description, &entity.ThumbnailURL,
		&entity.FileURL, &entity.FileName, &entity.Category, &entity.Class,
		&entity.Level, &entity.Subject, &entity.Author, &entity.Publisher,
		&entity.Year, &entity.DownloadCount, &entity.ViewCount, &entity.UploaderID,
		&entity.CreatedAt, &entity.UpdatedAt,
		&entity.Uploader.ID, &entity.Uploader.FirstName, &entity.Uploader.LastName, &entity.Uploader.Email,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Create persists a new book row into catalog.book.
func (repository *PostgresRepository) Create(context context.Context, book *Book) error {
	const query = `
		INSERT INTO catalog.book (
			id, title, description, thumbnailurl, fileurl, filename, category,
			class, level, subject, author, publisher, year, downloadcount,
			viewcount, uploaderid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		book.ID, book.Title, book.Description, book.ThumbnailURL, book.FileURL,
		book.FileName, book.Category, book.Class, book.Level, book.Subject,
		book.Author, book.Publisher, book.Year, book.DownloadCount,
		book.ViewCount, book.UploaderID, book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves a single book with its uploader.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Book, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM catalog.book b
		JOIN users.account u ON u.id = b.uploaderid
		WHERE b.id = $1`

	entity, err := scanBook(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Book")
		}
		return nil, fmt.Errorf("postgres_book_repo_find_failed: %w", err)
	}

	return entity, nil
}

// buildFilter renders the filter into a WHERE fragment with positional args.
func buildFilter(filter ListFilter) (string, []interface{}) {
	clauses := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	placeholder := func(value interface{}) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Level != "" {
		clauses = append(clauses, "b.level = "+placeholder(filter.Level))
	}
	if filter.Category != "" && filter.Category != "all" {
		clauses = append(clauses, "b.category = "+placeholder(filter.Category))
	}
	if filter.Class != "" && filter.Class != "all" {
		clauses = append(clauses, "b.class = "+placeholder(filter.Class))
	}
	if filter.Subject != "" {
		clauses = append(clauses, "b.subject = "+placeholder(filter.Subject))
	}
	if filter.Search != "" {
		p := placeholder("%" + filter.Search + "%")
		clauses = append(clauses, fmt.Sprintf("(b.title ILIKE %s OR b.description ILIKE %s OR b.author ILIKE %s)", p, p, p))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns one filtered page of books plus the total matching count.
func (repository *PostgresRepository) List(context context.Context, filter ListFilter, params pagination.Params) ([]Book, int, error) {
	where, args := buildFilter(filter)

	countQuery := "SELECT COUNT(*) FROM catalog.book b" + where
	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_book_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM catalog.book b
		JOIN users.account u ON u.id = b.uploaderid
		%s
		ORDER BY b.createdat DESC
		LIMIT $%d OFFSET $%d`,
		selectColumns, where, len(args)+1, len(args)+2)

	rows, err := repository.pool.Query(context, query, append(args, params.Limit, params.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_book_repo_list_failed: %w", err)
	}
	defer rows.Close()

	books := make([]Book, 0, params.Limit)
	for rows.Next() {
		entity, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_book_repo_scan_failed: %w", err)
		}
		books = append(books, *entity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_book_repo_rows_failed: %w", err)
	}

	return books, total, nil
}

// Update persists changes to a book's mutable fields.
func (repository *PostgresRepository) Update(context context.Context, book *Book) error {
	const query = `
		UPDATE catalog.book
		SET title = $2, description = $3, thumbnailurl = $4, fileurl = $5,
			filename = $6, category = $7, class = $8, level = $9, subject = $10,
			author = $11, publisher = $12, year = $13, updatedat = $14
		WHERE id = $1`

	book.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		book.ID, book.Title, book.Description, book.ThumbnailURL, book.FileURL,
		book.FileName, book.Category, book.Class, book.Level, book.Subject,
		book.Author, book.Publisher, book.Year, book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_update_failed: %w", err)
	}

	return nil
}

// Delete permanently removes a book row.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	commandTag, err := repository.pool.Exec(context, "DELETE FROM catalog.book WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_delete_failed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Book")
	}
	return nil
}

// IncrementViewCount bumps the view counter atomically in the database.
func (repository *PostgresRepository) IncrementViewCount(context context.Context, id string) error {
	_, err := repository.pool.Exec(context,
		"UPDATE catalog.book SET viewcount = viewcount + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_increment_view_failed: %w", err)
	}
	return nil
}

// IncrementDownloadCount bumps the download counter atomically in the database.
func (repository *PostgresRepository) IncrementDownloadCount(context context.Context, id string) error {
	_, err := repository.pool.Exec(context,
		"UPDATE catalog.book SET downloadcount = downloadcount + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_increment_download_failed: %w", err)
	}
	return nil
}

// facetQuery runs one GROUP BY facet with an optional level constraint.
func (repository *PostgresRepository) facetQuery(context context.Context, column string, level EducationLevel) ([]FacetCount, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM catalog.book
		WHERE %s <> ''`, column, column)
	args := []interface{}{}

	if level != "" {
		query += " AND level = $1"
		args = append(args, level)
	}
	query += fmt.Sprintf(" GROUP BY %s ORDER BY %s", column, column)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_book_repo_facet_failed: %w", err)
	}
	defer rows.Close()

	facets := []FacetCount{}
	for rows.Next() {
		var facet FacetCount
		if err := rows.Scan(&facet.Value, &facet.Count); err != nil {
			return nil, fmt.Errorf("postgres_book_repo_facet_scan_failed: %w", err)
		}
		facets = append(facets, facet)
	}

	return facets, rows.Err()
}

func (repository *PostgresRepository) CountByCategory(context context.Context, level EducationLevel) ([]FacetCount, error) {
	return repository.facetQuery(context, "category", level)
}

func (repository *PostgresRepository) CountByClass(context context.Context, level EducationLevel) ([]FacetCount, error) {
	return repository.facetQuery(context, "class", level)
}

func (repository *PostgresRepository) CountBySubject(context context.Context, level EducationLevel) ([]FacetCount, error) {
	return repository.facetQuery(context, "subject", level)
}

// Latest returns the newest books, optionally scoped to a level.
func (repository *PostgresRepository) Latest(context context.Context, level EducationLevel, limit int) ([]Book, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM catalog.book b
		JOIN users.account u ON u.id = b.uploaderid`
	args := []interface{}{}

	if level != "" {
		query += " WHERE b.level = $1"
		args = append(args, level)
	}
	query += fmt.Sprintf(" ORDER BY b.createdat DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_book_repo_latest_failed: %w", err)
	}
	defer rows.Close()

	books := make([]Book, 0, limit)
	for rows.Next() {
		entity, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_book_repo_latest_scan_failed: %w", err)
		}
		books = append(books, *entity)
	}

	return books, rows.Err()
}

// Stats aggregates catalog-wide book metrics in one round trip per figure.
func (repository *PostgresRepository) Stats(context context.Context) (*Stats, error) {
	stats := &Stats{}

	const totalsQuery = `
		SELECT COUNT(*), COALESCE(SUM(downloadcount), 0), COALESCE(SUM(viewcount), 0)
		FROM catalog.book`
	err := repository.pool.QueryRow(context, totalsQuery).Scan(
		&stats.TotalBooks, &stats.TotalDownloads, &stats.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("postgres_book_repo_stats_failed: %w", err)
	}

	byLevel, err := repository.facetQuery(context, "level", "")
	if err != nil {
		return nil, err
	}
	stats.BooksByLevel = byLevel

	return stats, nil
}
