// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package tutorial

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
)

// PostgresRepository implements the tutorial Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the tutorial Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectColumns = `id, title, subject, level, class, description, videourl, createdat, updatedat`

func scanTutorial(row pgx.Row) (*Tutorial, error) {
	entity := &Tutorial{}
	err := row.Scan(
		&entity.ID, &entity.Title, &entity.Subject, &entity.Level,
		&entity.Class, &entity.Description, &entity.VideoURL,
		&entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (repository *PostgresRepository) Create(context context.Context, tutorial *Tutorial) error {
	const query = `
		INSERT INTO catalog.tutorial (
			id, title, subject, level, class, description, videourl, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if tutorial.CreatedAt.IsZero() {
		tutorial.CreatedAt = now
	}
	tutorial.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		tutorial.ID, tutorial.Title, tutorial.Subject, tutorial.Level,
		tutorial.Class, tutorial.Description, tutorial.VideoURL,
		tutorial.CreatedAt, tutorial.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_tutorial_repo_create_failed: %w", err)
	}

	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Tutorial, error) {
	query := "SELECT " + selectColumns + " FROM catalog.tutorial WHERE id = $1"

	entity, err := scanTutorial(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Tutorial")
		}
		return nil, fmt.Errorf("postgres_tutorial_repo_find_failed: %w", err)
	}

	return entity, nil
}

// List returns all matching tutorials in insertion order.
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]Tutorial, error) {
	clauses := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	placeholder := func(value interface{}) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Level != "" {
		clauses = append(clauses, "level = "+placeholder(filter.Level))
	}
	if filter.Subject != "" {
		clauses = append(clauses, "subject = "+placeholder(filter.Subject))
	}
	if filter.Class != "" {
		clauses = append(clauses, "class = "+placeholder(filter.Class))
	}

	query := "SELECT " + selectColumns + " FROM catalog.tutorial"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_tutorial_repo_list_failed: %w", err)
	}
	defer rows.Close()

	tutorials := []Tutorial{}
	for rows.Next() {
		entity, err := scanTutorial(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_tutorial_repo_scan_failed: %w", err)
		}
		tutorials = append(tutorials, *entity)
	}

	return tutorials, rows.Err()
}

func (repository *PostgresRepository) Update(context context.Context, tutorial *Tutorial) error {
	const query = `
		UPDATE catalog.tutorial
		SET title = $2, subject = $3, level = $4, class = $5,
			description = $6, videourl = $7, updatedat = $8
		WHERE id = $1`

	tutorial.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		tutorial.ID, tutorial.Title, tutorial.Subject, tutorial.Level,
		tutorial.Class, tutorial.Description, tutorial.VideoURL, tutorial.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_tutorial_repo_update_failed: %w", err)
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	commandTag, err := repository.pool.Exec(context, "DELETE FROM catalog.tutorial WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_tutorial_repo_delete_failed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Tutorial")
	}
	return nil
}

// distinct runs one DISTINCT projection with an optional level constraint.
func (repository *PostgresRepository) distinct(context context.Context, column string, level book.EducationLevel) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT %s FROM catalog.tutorial", column)
	args := []interface{}{}

	if level != "" {
		query += " WHERE level = $1"
		args = append(args, level)
	}
	query += fmt.Sprintf(" ORDER BY %s ASC", column)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_tutorial_repo_distinct_failed: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("postgres_tutorial_repo_distinct_scan_failed: %w", err)
		}
		values = append(values, value)
	}

	return values, rows.Err()
}

func (repository *PostgresRepository) DistinctLevels(context context.Context) ([]string, error) {
	return repository.distinct(context, "level", "")
}

func (repository *PostgresRepository) DistinctSubjects(context context.Context, level book.EducationLevel) ([]string, error) {
	return repository.distinct(context, "subject", level)
}

func (repository *PostgresRepository) DistinctClasses(context context.Context, level book.EducationLevel) ([]string, error) {
	return repository.distinct(context, "class", level)
}
