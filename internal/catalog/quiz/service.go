// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package quiz

import (
	"context"
	"log/slog"

	"github.com/jmasanja/elimu/internal/catalog/book"
	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/pkg/uuidv7"
)

// Service orchestrates business logic for quizzes.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new quiz [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// QuestionInput holds the fields for one question.
type QuestionInput struct {
	Question  string
	Options   []string
	Answer    string
	TimeLimit int
}

// CreateInput holds the fields for a new quiz with its questions.
type CreateInput struct {
	Title      string
	Level      book.EducationLevel
	Subject    string
	Difficulty Difficulty
	Class      string
	TotalTime  int
	Questions  []QuestionInput
}

// Create persists a new quiz and its questions atomically.
func (service *Service) Create(context context.Context, input CreateInput) (*Quiz, error) {
	entity := &Quiz{
		ID:         uuidv7.New(),
		Title:      input.Title,
		Level:      input.Level,
		Subject:    input.Subject,
		Difficulty: input.Difficulty,
		Class:      input.Class,
		TotalTime:  input.TotalTime,
	}

	questions, err := buildQuestions(entity.ID, input.Questions)
	if err != nil {
		return nil, err
	}
	entity.Questions = questions

	if err := service.repository.Create(context, entity); err != nil {
		return nil, err
	}

	service.logger.Info("quiz_created",
		slog.String("quiz_id", entity.ID),
		slog.Int("questions", len(entity.Questions)),
	)
	return entity, nil
}

func (service *Service) List(context context.Context, filter ListFilter) ([]Quiz, error) {
	return service.repository.List(context, filter)
}

func (service *Service) Get(context context.Context, id string) (*Quiz, error) {
	return service.repository.FindByID(context, id)
}

// UpdateInput defines the mutable subset for partial updates. A non-nil
// Questions slice replaces the entire stored question set.
type UpdateInput struct {
	Title      *string
	Level      *book.EducationLevel
	Subject    *string
	Difficulty *Difficulty
	Class      *string
	TotalTime  *int
	Questions  []QuestionInput
}

// Update applies a partial update; question replacement is atomic with the
// quiz field changes.
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Quiz, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		entity.Title = *input.Title
	}
	if input.Level != nil {
		entity.Level = *input.Level
	}
	if input.Subject != nil {
		entity.Subject = *input.Subject
	}
	if input.Difficulty != nil {
		entity.Difficulty = *input.Difficulty
	}
	if input.Class != nil {
		entity.Class = *input.Class
	}
	if input.TotalTime != nil {
		entity.TotalTime = *input.TotalTime
	}

	replaceQuestions := input.Questions != nil
	if replaceQuestions {
		questions, err := buildQuestions(entity.ID, input.Questions)
		if err != nil {
			return nil, err
		}
		entity.Questions = questions
	}

	if err := service.repository.Update(context, entity, replaceQuestions); err != nil {
		return nil, err
	}

	return entity, nil
}

func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}
	service.logger.Info("quiz_deleted", slog.String("quiz_id", id))
	return nil
}

// # Questions

// AddQuestion appends one question to an existing quiz.
func (service *Service) AddQuestion(context context.Context, quizID string, input QuestionInput) (*Question, error) {
	entity, err := service.repository.FindByID(context, quizID)
	if err != nil {
		return nil, err
	}

	if err := checkAnswer(input); err != nil {
		return nil, err
	}

	question := &Question{
		ID:        uuidv7.New(),
		QuizID:    entity.ID,
		Question:  input.Question,
		Options:   input.Options,
		Answer:    input.Answer,
		TimeLimit: input.TimeLimit,
		Position:  len(entity.Questions),
	}

	if err := service.repository.AddQuestion(context, question); err != nil {
		return nil, err
	}

	return question, nil
}

// UpdateQuestionInput defines the mutable subset of a question.
type UpdateQuestionInput struct {
	Question  *string
	Options   []string
	Answer    *string
	TimeLimit *int
}

// UpdateQuestion applies a partial update to a single question, keeping the
// answer consistent with the option set.
func (service *Service) UpdateQuestion(context context.Context, questionID string, input UpdateQuestionInput) (*Question, error) {
	entity, err := service.repository.FindQuestion(context, questionID)
	if err != nil {
		return nil, err
	}

	if input.Question != nil {
		entity.Question = *input.Question
	}
	if input.Options != nil {
		entity.Options = input.Options
	}
	if input.Answer != nil {
		entity.Answer = *input.Answer
	}
	if input.TimeLimit != nil {
		entity.TimeLimit = *input.TimeLimit
	}

	if err := checkAnswer(QuestionInput{Options: entity.Options, Answer: entity.Answer}); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateQuestion(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// DeleteQuestion removes a single question from its quiz.
func (service *Service) DeleteQuestion(context context.Context, questionID string) error {
	return service.repository.DeleteQuestion(context, questionID)
}

// # Facets

func (service *Service) Levels(context context.Context) ([]string, error) {
	return service.repository.DistinctLevels(context)
}

func (service *Service) Subjects(context context.Context, level book.EducationLevel) ([]string, error) {
	return service.repository.DistinctSubjects(context, level)
}

func (service *Service) Classes(context context.Context, level book.EducationLevel) ([]string, error) {
	return service.repository.DistinctClasses(context, level)
}

// # Internals

// buildQuestions materialises question inputs into entities with assigned
// ids and positions.
func buildQuestions(quizID string, inputs []QuestionInput) ([]Question, error) {
	questions := make([]Question, 0, len(inputs))
	for position, input := range inputs {
		if err := checkAnswer(input); err != nil {
			return nil, err
		}
		questions = append(questions, Question{
			ID:        uuidv7.New(),
			QuizID:    quizID,
			Question:  input.Question,
			Options:   input.Options,
			Answer:    input.Answer,
			TimeLimit: input.TimeLimit,
			Position:  position,
		})
	}
	return questions, nil
}

// checkAnswer enforces that the answer is one of the question's options.
func checkAnswer(input QuestionInput) error {
	for _, option := range input.Options {
		if input.Answer == option {
			return nil
		}
	}
	return apperr.BadRequest("Question answer must be one of its options")
}
