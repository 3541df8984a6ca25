// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package message

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
)

// PostgresRepository implements the message Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the message Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectColumns = `id, name, email, phone, subject, message, status, createdat, updatedat`

func scanMessage(row pgx.Row) (*Message, error) {
	entity := &Message{}
	err := row.Scan(
		&entity.ID, &entity.Name, &entity.Email, &entity.Phone,
		&entity.Subject, &entity.Message, &entity.Status,
		&entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (repository *PostgresRepository) Create(context context.Context, message *Message) error {
	const query = `
		INSERT INTO support.message (
			id, name, email, phone, subject, message, status, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = now
	}
	message.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		message.ID, message.Name, message.Email, message.Phone,
		message.Subject, message.Message, message.Status,
		message.CreatedAt, message.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_message_repo_create_failed: %w", err)
	}

	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Message, error) {
	query := "SELECT " + selectColumns + " FROM support.message WHERE id = $1"

	entity, err := scanMessage(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Message")
		}
		return nil, fmt.Errorf("postgres_message_repo_find_failed: %w", err)
	}

	return entity, nil
}

// List returns all matching messages, newest first.
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]Message, error) {
	clauses := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)

	placeholder := func(value interface{}) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != "" {
		clauses = append(clauses, "status = "+placeholder(filter.Status))
	}
	if filter.Search != "" {
		p := placeholder("%" + filter.Search + "%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE %s OR email ILIKE %s OR subject ILIKE %s OR message ILIKE %s)", p, p, p, p))
	}

	query := "SELECT " + selectColumns + " FROM support.message"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY createdat DESC"

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_message_repo_list_failed: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		entity, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_message_repo_scan_failed: %w", err)
		}
		messages = append(messages, *entity)
	}

	return messages, rows.Err()
}

// UpdateStatus transitions a message's triage state and returns the result.
func (repository *PostgresRepository) UpdateStatus(context context.Context, id string, status Status) (*Message, error) {
	const query = `
		UPDATE support.message
		SET status = $2, updatedat = $3
		WHERE id = $1
		RETURNING ` + selectColumns

	entity, err := scanMessage(repository.pool.QueryRow(context, query, id, status, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Message")
		}
		return nil, fmt.Errorf("postgres_message_repo_status_failed: %w", err)
	}

	return entity, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	commandTag, err := repository.pool.Exec(context, "DELETE FROM support.message WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_message_repo_delete_failed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Message")
	}
	return nil
}

// Stats aggregates the inbox counts in one round trip.
func (repository *PostgresRepository) Stats(context context.Context) (*Stats, error) {
	const query = `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'new'),
			COUNT(*) FILTER (WHERE status = 'read')
		FROM support.message`

	stats := &Stats{}
	if err := repository.pool.QueryRow(context, query).Scan(&stats.Total, &stats.New, &stats.Read); err != nil {
		return nil, fmt.Errorf("postgres_message_repo_stats_failed: %w", err)
	}

	return stats, nil
}
