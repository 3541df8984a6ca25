// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package quiz

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

// PostgresRepository implements the quiz Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the quiz Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const quizColumns = `id, title, level, subject, difficulty, class, totaltime, createdat, updatedat`
const questionColumns = `id, quizid, question, options, answer, timelimit, position`

func scanQuiz(row pgx.Row) (*Quiz, error) {
	entity := &Quiz{Questions: []Question{}}
	err := row.Scan(
		&entity.ID, &entity.Title, &entity.Level, &entity.Subject,
		&entity.Difficulty, &entity.Class, &entity.TotalTime,
		&entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func scanQuestion(row pgx.Row) (*Question, error) {
	entity := &Question{}
	err := row.Scan(
		&entity.ID, &entity.QuizID, &entity.Question, &entity.Options,
		&entity.Answer, &entity.TimeLimit, &entity.Position,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Create persists the quiz and its questions in one transaction, so a quiz
// never becomes visible without its question set.
func (repository *PostgresRepository) Create(context context.Context, quiz *Quiz) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_quiz_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	now := time.Now()
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = now
	}
	quiz.UpdatedAt = now

	const quizInsert = `
		INSERT INTO catalog.quiz (
			id, title, level, subject, difficulty, class, totaltime, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = transaction.Exec(context, quizInsert,
		quiz.ID, quiz.Title, quiz.Level, quiz.Subject, quiz.Difficulty,
		quiz.Class, quiz.TotalTime, quiz.CreatedAt, quiz.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_quiz_repo_create_failed: %w", err)
	}

	if err := insertQuestions(context, transaction, quiz.Questions); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_quiz_repo_commit_failed: %w", err)
	}
	return nil
}

const questionInsert = `
	INSERT INTO catalog.quizquestion (
		id, quizid, question, options, answer, timelimit, position
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`

func insertQuestions(ctx context.Context, transaction pgx.Tx, questions []Question) error {
	for _, question := range questions {
		_, err := transaction.Exec(ctx, questionInsert,
			question.ID, question.QuizID, question.Question, question.Options,
			question.Answer, question.TimeLimit, question.Position,
		)
		if err != nil {
			return fmt.Errorf("postgres_quiz_repo_question_insert_failed: %w", err)
		}
	}
	return nil
}

// FindByID retrieves a single quiz with its questions.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Quiz, error) {
	query := "SELECT " + quizColumns + " FROM catalog.quiz WHERE id = $1"

	entity, err := scanQuiz(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Quiz")
		}
		return nil, fmt.Errorf("postgres_quiz_repo_find_failed: %w", err)
	}

	questions, err := repository.questionsFor(context, []string{id})
	if err != nil {
		return nil, err
	}
	entity.Questions = questions[id]
	if entity.Questions == nil {
		entity.Questions = []Question{}
	}

	return entity, nil
}

// List returns all matching quizzes with their questions.
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]Quiz, error) {
	clauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	placeholder := func(value interface{}) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Level != "" {
		clauses = append(clauses, "level = "+placeholder(filter.Level))
	}
	if filter.Subject != "" && filter.Subject != "all" {
		clauses = append(clauses, "subject = "+placeholder(filter.Subject))
	}
	if filter.Difficulty != "" {
		clauses = append(clauses, "difficulty = "+placeholder(filter.Difficulty))
	}
	if filter.Class != "" && filter.Class != "all" {
		clauses = append(clauses, "class = "+placeholder(filter.Class))
	}

	query := "SELECT " + quizColumns + " FROM catalog.quiz"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_quiz_repo_list_failed: %w", err)
	}
	defer rows.Close()

	quizzes := []Quiz{}
	ids := []string{}
	for rows.Next() {
		entity, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_quiz_repo_scan_failed: %w", err)
		}
		quizzes = append(quizzes, *entity)
		ids = append(ids, entity.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_quiz_repo_rows_failed: %w", err)
	}

	if len(ids) == 0 {
		return quizzes, nil
	}

	questions, err := repository.questionsFor(context, ids)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		quizzes[i].Questions = questions[quizzes[i].ID]
		if quizzes[i].Questions == nil {
			quizzes[i].Questions = []Question{}
		}
	}

	return quizzes, nil
}

// questionsFor loads the question sets for the given quiz ids in one query.
func (repository *PostgresRepository) questionsFor(context context.Context, quizIDs []string) (map[string][]Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM catalog.quizquestion
		WHERE quizid = ANY($1)
		ORDER BY quizid, position ASC`

	rows, err := repository.pool.Query(context, query, quizIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres_quiz_repo_questions_failed: %w", err)
	}
	defer rows.Close()

	byQuiz := map[string][]Question{}
	for rows.Next() {
		entity, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_quiz_repo_question_scan_failed: %w", err)
		}
		byQuiz[entity.QuizID] = append(byQuiz[entity.QuizID], *entity)
	}

	return byQuiz, rows.Err()
}

// Update persists quiz fields, optionally swapping the question set in the
// same transaction.
func (repository *PostgresRepository) Update(context context.Context, quiz *Quiz, replaceQuestions bool) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_quiz_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const query = `
		UPDATE catalog.quiz
		SET title = $2, level = $3, subject = $4, difficulty = $5,
			class = $6, totaltime = $7, updatedat = $8
		WHERE id = $1`

	quiz.UpdatedAt = time.Now()
	_, err = transaction.Exec(context, query,
		quiz.ID, quiz.Title, quiz.Level, quiz.Subject, quiz.Difficulty,
		quiz.Class, quiz.TotalTime, quiz.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_quiz_repo_update_failed: %w", err)
	}

	if replaceQuestions {
		if _, err := transaction.Exec(context, "DELETE FROM catalog.quizquestion WHERE quizid = $1", quiz.ID); err != nil {
			return fmt.Errorf("postgres_quiz_repo_question_clear_failed: %w", err)
		}
		if err := insertQuestions(context, transaction, quiz.Questions); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_quiz_repo_commit_failed: %w", err)
	}
	return nil
}

// Delete permanently removes a quiz; questions cascade at the schema level.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	commandTag, err := repository.pool.Exec(context, "DELETE FROM catalog.quiz WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres_quiz_repo_delete_failed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Quiz")
	}
	return nil
}

// AddQuestion appends a single question to an existing quiz.
func (repository *PostgresRepository) AddQuestion(context context.Context, question *Question) error {
	_, err := repository.pool.Exec(context, questionInsert,
		question.ID, question.QuizID, question.Question, question.Options,
		question.Answer, question.TimeLimit, question.Position,
	)
	if err != nil {
		return fmt.Errorf("postgres_quiz_repo_question_add_failed: %w", err)
	}
	return nil
}

// FindQuestion retrieves a single question by id.
func (repository *PostgresRepository) FindQuestion(context context.Context, questionID string) (*Question, error) {
	query := "SELECT " + questionColumns + " FROM catalog.quizquestion WHERE id = $1"

	entity, err := scanQuestion(repository.pool.QueryRow(context, query, questionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Question")
		}
		return nil, fmt.Errorf("postgres_quiz_repo_question_find_failed: %w", err)
	}

	return entity, nil
}

// UpdateQuestion persists changes to a single question.
func (repository *PostgresRepository) UpdateQuestion(context context.Context, question *Question) error {
	const query = `
		UPDATE catalog.quizquestion
		SET question = $2, options = $3, answer = $4, timelimit = $5, position = $6
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query,
		question.ID, question.Question, question.Options, question.Answer,
		question.TimeLimit, question.Position,
	)
	if err != nil {
		return fmt.Errorf("postgres_quiz_repo_question_update_failed: %w", err)
	}
	return nil
}

// DeleteQuestion permanently removes a single question.
func (repository *PostgresRepository) DeleteQuestion(context context.Context, questionID string) error {
	commandTag, err := repository.pool.Exec(context, "DELETE FROM catalog.quizquestion WHERE id = $1", questionID)
	if err != nil {
		return fmt.Errorf("postgres_quiz_repo_question_delete_failed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Question")
	}
	return nil
}

// distinct runs one DISTINCT projection with an optional level constraint.
func (repository *PostgresRepository) distinct(context context.Context, column string, level book.EducationLevel) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT %s FROM catalog.quiz", column)
	args := []interface{}{}

	if level != "" {
		query += " WHERE level = $1"
		args = append(args, level)
	}
	query += fmt.Sprintf(" ORDER BY %s ASC", column)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_quiz_repo_distinct_failed: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("postgres_quiz_repo_distinct_scan_failed: %w", err)
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
