// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package pastpaper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmasanja/elimu/internal/catalog/book"
	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/pkg/pagination"
)

// PostgresRepository implements the past-paper Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the past-paper Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectColumns is the shared projection for hydrating a PastPaper with its uploader.
const selectColumns = `
	p.id, p.title, p.description, p.thumbnailurl, p.fileurl, p.filename,
	p.category, p.class, p.level, p.year, p.subject, p.examinationbody,
	p.papernumber, p.papertype, p.downloadcount, p.viewcount, p.uploaderid,
	p.createdat, p.updatedat,
	u.id, u.firstname, u.lastname, u.email`

// scanPaper hydrates one row of the shared projection.
func scanPaper(row pgx.Row) (*PastPaper, error) {
	entity := &PastPaper{Uploader: &book.Uploader{}}
	err := row.Scan(
		&entity.ID, &entity.Title, &entity.Description, &entity.ThumbnailURL,
		&entity.FileURL, &entity.FileName, &entity.Category, &entity.Class,
		&entity.Level, &entity.Year, &entity.Subject, &entity.ExaminationBody,
		&entity.PaperNumber, &entity.PaperType, &entity.DownloadCount,
		&entity.ViewCount, &entity.UploaderID, &entity.CreatedAt, &entity.UpdatedAt,
		&entity.Uploader.ID, &entity.Uploader.FirstName, &entity.Uploader.LastName, &entity.Uploader.Email,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Create persists a new paper row into catalog.pastpaper.
func (repository *PostgresRepository) Create(context context.Context, paper *PastPaper) error {
	const query = `
		INSERT INTO catalog.pastpaper (
			id, title, description, thumbnailurl, fileurl, filename, category,
			class, level, year, subject, examinationbody, papernumber,
			papertype, downloadcount, viewcount, uploaderid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	now := time.Now()
	if paper.CreatedAt.IsZero() {
		paper.CreatedAt = now
	}
	paper.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		paper.ID, paper.Title, paper.Description, paper.ThumbnailURL,
		paper.FileURL, paper.FileName, paper.Category, paper.Class, paper.Level,
		paper.Year, paper.Subject, paper.ExaminationBody, paper.PaperNumber,
		paper.PaperType, paper.DownloadCount, paper.ViewCount, paper.UploaderID,
		paper.CreatedAt, paper.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_pastpaper_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves a single paper with its uploader.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*PastPaper, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM catalog.pastpaper p
		JOIN users.account u ON u.id = p.uploaderid
		WHERE p.id = $1`

	entity, err := scanPaper(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Past paper")
		}
		return nil, fmt.Errorf("postgres_pastpaper_repo_find_failed: %w", err)
	}

	return entity, nil
}

// buildFilter renders the filter into a WHERE fragment with positional args.
func buildFilter(filter ListFilter) (string, []interface{}) {
	clauses := make([]string, 0, 7)
	args := make([]interface{}, 0, 7)

	placeholder := func(value interface{}) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Level != "" {
		clauses = append(clauses, "p.level = "+placeholder(filter.Level))
	}
	if filter.Category != "" && filter.Category != "all" {
		clauses = append(clauses, "p.category = "+placeholder(filter.Category))
	}
	if filter.Class != "" && filter.Class != "all" {
		clauses = append(clauses, "p.class = "+placeholder(filter.Class))
	}
	if filter.Year != 0 {
		clauses = append(clauses, "p.year = "+placeholder(filter.Year))
	}
	if filter.Subject != "" {
		clauses = append(clauses, "p.subject = "+placeholder(filter.Subject))
	}
	if filter.ExaminationBody != "" {
		clauses = append(clauses, "p.examinationbody = "+placeholder(filter.ExaminationBody))
	}
	if filter.Search != "" {
		p := placeholder("%" + filter.Search + "%")
		clauses = append(clauses, fmt.Sprintf("(p.title ILIKE %s OR p.description ILIKE %s)", p, p))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns one filtered page of papers plus the total matching count.
// Papers sort newest examination year first, ties broken by creation time.
func (repository *PostgresRepository) List(context context.Context, filter ListFilter, params pagination.Params) ([]PastPaper, int, error) {
	where, args := buildFilter(filter)

	countQuery := "SELECT COUNT(*) FROM catalog.pastpaper p" + where
	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_pastpaper_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM catalog.pastpaper p
		JOIN users.account u ON u.id = p.uploaderid
		%s
		ORDER BY p.year DESC, p.createdat DESC
		LIMIT $%d OFFSET $%d`,
		selectColumns, where, len(args)+1, len(args)+2)

	rows, err := repository.pool.Query(context, query, append(args, params.Limit, params.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_pastpaper_repo_list_failed: %w", err)
	}
	defer rows.Close()

	papers := make([]PastPaper, 0, params.Limit)
	for rows.Next() {
		entity, err := scanPaper(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_pastpaper_repo_scan_failed: %w", err)
		}
		papers = append(papers, *entity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_pastpaper_repo_rows_failed: %w", err)
	}

	return papers, total, nil
}

// Update persists changes to a paper's mutable fields.
func (repository *PostgresRepository) Update(context context.Context, paper *PastPaper) error {
	const query = `
		UPDATE catalog.pastpaper
		SET title = $2, description = $3, thumbnailurl = $4, fileurl = $5,
			filename = $6, category = $7, class = $8, level = $9, year = $10,
			subject = $11, examinationbody = $12, papernumber = $13,
			papertype = $14, updatedat = $15
		WHERE id = $1`

	paper.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		paper.ID, paper.Title, paper.Description, paper.ThumbnailURL,
		paper.FileURL, paper.FileName, paper.Category, paper.Class, paper.Level,
		paper.Year, paper.Subject, paper.ExaminationBody, paper.PaperNumber,
		paper.PaperType, paper.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_pastpaper_repo_update_failed: %w", err)
	}

	return nil
}

// Delete permanently removes a paper row.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	commandTag, err := repository.pool.Exec(context, "DELETE FROM catalog.pastpaper WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_pastpaper_repo_delete_failed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Past paper")
	}
	return nil
}

// IncrementViewCount bumps the view counter atomically in the database.
func (repository *PostgresRepository) IncrementViewCount(context context.Context, id string) error {
	_, err := repository.pool.Exec(context,
		"UPDATE catalog.pastpaper SET viewcount = viewcount + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_pastpaper_repo_increment_view_failed: %w", err)
	}
	return nil
}

// IncrementDownloadCount bumps the download counter atomically in the database.
func (repository *PostgresRepository) IncrementDownloadCount(context context.Context, id string) error {
	_, err := repository.pool.Exec(context,
		"UPDATE catalog.pastpaper SET downloadcount = downloadcount + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_pastpaper_repo_increment_download_failed: %w", err)
	}
	return nil
}

// facetQuery runs one GROUP BY facet with an optional level constraint.
func (repository *PostgresRepository) facetQuery(context context.Context, column, ordering string, level book.EducationLevel) ([]FacetCount, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM catalog.pastpaper
		WHERE %s <> ''`, column, column)
	args := []interface{}{}

	if level != "" {
		query += " AND level = $1"
		args = append(args, level)
	}
	query += fmt.Sprintf(" GROUP BY %s ORDER BY %s", column, ordering)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_pastpaper_repo_facet_failed: %w", err)
	}
	defer rows.Close()

	facets := []FacetCount{}
	for rows.Next() {
		var facet FacetCount
		if err := rows.Scan(&facet.Value, &facet.Count); err != nil {
			return nil, fmt.Errorf("postgres_pastpaper_repo_facet_scan_failed: %w", err)
		}
		facets = append(facets, facet)
	}

	return facets, rows.Err()
}

func (repository *PostgresRepository) CountByCategory(context context.Context, level book.EducationLevel) ([]FacetCount, error) {
	return repository.facetQuery(context, "category", "category", level)
}

// CountByClass orders classes by the number embedded in the label, so that
// "Form 2" sorts before "Form 10".
func (repository *PostgresRepository) CountByClass(context context.Context, level book.EducationLevel) ([]FacetCount, error) {
	const ordering = `NULLIF(regexp_replace(class, '\D', '', 'g'), '')::int NULLS LAST, class`
	return repository.facetQuery(context, "class", ordering, level)
}

func (repository *PostgresRepository) CountByExaminationBody(context context.Context, level book.EducationLevel) ([]FacetCount, error) {
	return repository.facetQuery(context, "examinationbody", "examinationbody", level)
}

// CountByYear returns the per-year paper counts, newest year first.
func (repository *PostgresRepository) CountByYear(context context.Context, level book.EducationLevel) ([]YearCount, error) {
	query := "SELECT year, COUNT(*) FROM catalog.pastpaper"
	args := []interface{}{}

	if level != "" {
		query += " WHERE level = $1"
		args = append(args, level)
	}
	query += " GROUP BY year ORDER BY year DESC"

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_pastpaper_repo_years_failed: %w", err)
	}
	defer rows.Close()

	years := []YearCount{}
	for rows.Next() {
		var year YearCount
		if err := rows.Scan(&year.Year, &year.Count); err != nil {
			return nil, fmt.Errorf("postgres_pastpaper_repo_years_scan_failed: %w", err)
		}
		years = append(years, year)
	}

	return years, rows.Err()
}

// Latest returns the most recently archived papers, optionally scoped to a level.
func (repository *PostgresRepository) Latest(context context.Context, level book.EducationLevel, limit int) ([]PastPaper, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM catalog.pastpaper p
		JOIN users.account u ON u.id = p.uploaderid`
	args := []interface{}{}

	if level != "" {
		query += " WHERE p.level = $1"
		args = append(args, level)
	}
	query += fmt.Sprintf(" ORDER BY p.createdat DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_pastpaper_repo_latest_failed: %w", err)
	}
	defer rows.Close()

	papers := make([]PastPaper, 0, limit)
	for rows.Next() {
		entity, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_pastpaper_repo_latest_scan_failed: %w", err)
		}
		papers = append(papers, *entity)
	}

	return papers, rows.Err()
}

// Stats aggregates archive-wide metrics.
func (repository *PostgresRepository) Stats(context context.Context) (*Stats, error) {
	stats := &Stats{}

	const totalsQuery = `
		SELECT COUNT(*), COALESCE(SUM(downloadcount), 0), COALESCE(SUM(viewcount), 0)
		FROM catalog.pastpaper`
	err := repository.pool.QueryRow(context, totalsQuery).Scan(
		&stats.TotalPastPapers, &stats.TotalDownloads, &stats.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("postgres_pastpaper_repo_stats_failed: %w", err)
	}

	byLevel, err := repository.facetQuery(context, "level", "level", "")
	if err != nil {
		return nil, err
	}
	stats.PapersByLevel = byLevel

	byYear, err := repository.CountByYear(context, "")
	if err != nil {
		return nil, err
	}
	stats.PapersByYear = byYear

	return stats, nil
}
