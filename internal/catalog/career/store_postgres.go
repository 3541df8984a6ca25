// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package career

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmasanja/elimu/internal/platform/apperr"
)

// PostgresRepository implements the career Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the career Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectColumns = `id, title, description, link, icon, createdat, updatedat`

func scanResource(row pgx.Row) (*Resource, error) {
	entity := &Resource{}
	err := row.Scan(
		&entity.ID, &entity.Title, &entity.Description, &entity.Link,
		&entity.Icon, &entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (repository *PostgresRepository) Create(context context.Context, resource *Resource) error {
	const query = `
		INSERT INTO catalog.careerresource (
			id, title, description, link, icon, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = now
	}
	resource.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		resource.ID, resource.Title, resource.Description, resource.Link,
		resource.Icon, resource.CreatedAt, resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_career_repo_create_failed: %w", err)
	}

	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Resource, error) {
	query := "SELECT " + selectColumns + " FROM catalog.careerresource WHERE id = $1"

	entity, err := scanResource(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Career resource")
		}
		return nil, fmt.Errorf("postgres_career_repo_find_failed: %w", err)
	}

	return entity, nil
}

func (repository *PostgresRepository) List(context context.Context) ([]Resource, error) {
	query := "SELECT " + selectColumns + " FROM catalog.careerresource ORDER BY id ASC"

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_career_repo_list_failed: %w", err)
	}
	defer rows.Close()

	resources := []Resource{}
	for rows.Next() {
		entity, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_career_repo_scan_failed: %w", err)
		}
		resources = append(resources, *entity)
	}

	return resources, rows.Err()
}

func (repository *PostgresRepository) Update(context context.Context, resource *Resource) error {
	const query = `
		UPDATE catalog.careerresource
		SET title = $2, description = $3, link = $4, icon = $5, updatedat = $6
		WHERE id = $1`

	resource.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		resource.ID, resource.Title, resource.Description, resource.Link,
		resource.Icon, resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_career_repo_update_failed: %w", err)
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	commandTag, err := repository.pool.Exec(context, "DELETE FROM catalog.careerresource WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_career_repo_delete_failed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Career resource")
	}
	return nil
}
