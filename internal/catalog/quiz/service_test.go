// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package quiz_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmasanja/elimu/internal/catalog/book"
	"github.com/jmasanja/elimu/internal/catalog/quiz"
	"github.com/jmasanja/elimu/internal/platform/apperr"
)

// # In-Memory Fakes

// fakeRepository is a mutex-guarded in-memory quiz Repository.
type fakeRepository struct {
	mu      sync.Mutex
	quizzes map[string]*quiz.Quiz
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{quizzes: make(map[string]*quiz.Quiz)}
}

func cloneQuiz(entity *quiz.Quiz) *quiz.Quiz {
	copied := *entity
	copied.Questions = append([]quiz.Question{}, entity.Questions...)
	return &copied
}

func (repo *fakeRepository) Create(_ context.Context, entity *quiz.Quiz) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.quizzes[entity.ID] = cloneQuiz(entity)
	return nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*quiz.Quiz, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if entity, ok := repo.quizzes[id]; ok {
		return cloneQuiz(entity), nil
	}
	return nil, apperr.NotFound("Quiz")
}

func (repo *fakeRepository) List(_ context.Context, filter quiz.ListFilter) ([]quiz.Quiz, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := []quiz.Quiz{}
	for _, entity := range repo.quizzes {
		if filter.Level != "" && entity.Level != filter.Level {
			continue
		}
		if filter.Subject != "" && entity.Subject != filter.Subject {
			continue
		}
		result = append(result, *cloneQuiz(entity))
	}
	return result, nil
}

func (repo *fakeRepository) Update(_ context.Context, entity *quiz.Quiz, replaceQuestions bool) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	stored, ok := repo.quizzes[entity.ID]
	if !ok {
		return apperr.NotFound("Quiz")
	}
	updated := cloneQuiz(entity)
	if !replaceQuestions {
		updated.Questions = stored.Questions
	}
	repo.quizzes[entity.ID] = updated
	return nil
}

func (repo *fakeRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.quizzes[id]; !ok {
		return apperr.NotFound("Quiz")
	}
	delete(repo.quizzes, id)
	return nil
}

func (repo *fakeRepository) AddQuestion(_ context.Context, question *quiz.Question) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	entity, ok := repo.quizzes[question.QuizID]
	if !ok {
		return apperr.NotFound("Quiz")
	}
	entity.Questions = append(entity.Questions, *question)
	return nil
}

func (repo *fakeRepository) FindQuestion(_ context.Context, questionID string) (*quiz.Question, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, entity := range repo.quizzes {
		for _, question := range entity.Questions {
			if question.ID == questionID {
				copied := question
				return &copied, nil
			}
		}
	}
	return nil, apperr.NotFound("Question")
}

func (repo *fakeRepository) UpdateQuestion(_ context.Context, question *quiz.Question) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, entity := range repo.quizzes {
		for index := range entity.Questions {
			if entity.Questions[index].ID == question.ID {
				entity.Questions[index] = *question
				return nil
			}
		}
	}
	return apperr.NotFound("Question")
}

func (repo *fakeRepository) DeleteQuestion(_ context.Context, questionID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, entity := range repo.quizzes {
		for index := range entity.Questions {
			if entity.Questions[index].ID == questionID {
				entity.Questions = append(entity.Questions[:index], entity.Questions[index+1:]...)
				return nil
			}
		}
	}
	return apperr.NotFound("Question")
}

func (repo *fakeRepository) DistinctLevels(_ context.Context) ([]string, error) {
	return []string{"primary", "secondary"}, nil
}

func (repo *fakeRepository) DistinctSubjects(_ context.Context, _ book.EducationLevel) ([]string, error) {
	return []string{"Mathematics"}, nil
}

func (repo *fakeRepository) DistinctClasses(_ context.Context, _ book.EducationLevel) ([]string, error) {
	return []string{"Form 2"}, nil
}

// # Helpers

func newService(t *testing.T) (*quiz.Service, *fakeRepository) {
	t.Helper()
	repository := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return quiz.NewService(repository, logger), repository
}

func validQuestion() quiz.QuestionInput {
	return quiz.QuestionInput{
		Question:  "What is 7 x 8?",
		Options:   []string{"54", "56", "64"},
		Answer:    "56",
		TimeLimit: 30,
	}
}

func seedQuiz(t *testing.T, service *quiz.Service) *quiz.Quiz {
	t.Helper()
	entity, err := service.Create(context.Background(), quiz.CreateInput{
		Title:      "Form Two Mathematics",
		Level:      book.LevelSecondary,
		Subject:    "Mathematics",
		Difficulty: quiz.DifficultyMedium,
		Class:      "Form 2",
		TotalTime:  600,
		Questions:  []quiz.QuestionInput{validQuestion()},
	})
	require.NoError(t, err)
	return entity
}

// # Tests

func TestCreate_AssignsQuestionPositions(t *testing.T) {
	service, _ := newService(t)

	entity, err := service.Create(context.Background(), quiz.CreateInput{
		Title:      "Positions",
		Level:      book.LevelPrimary,
		Subject:    "Science",
		Difficulty: quiz.DifficultyEasy,
		Class:      "Standard 5",
		TotalTime:  300,
		Questions: []quiz.QuestionInput{
			validQuestion(),
			{Question: "Second", Options: []string{"a", "b"}, Answer: "a", TimeLimit: 20},
			{Question: "Third", Options: []string{"x", "y"}, Answer: "y", TimeLimit: 20},
		},
	})
	require.NoError(t, err)

	require.Len(t, entity.Questions, 3)
	for index, question := range entity.Questions {
		assert.Equal(t, index, question.Position)
		assert.Equal(t, entity.ID, question.QuizID)
		assert.NotEmpty(t, question.ID)
	}
}

func TestCreate_AnswerMustBeAnOption(t *testing.T) {
	service, _ := newService(t)

	_, err := service.Create(context.Background(), quiz.CreateInput{
		Title:      "Broken",
		Level:      book.LevelPrimary,
		Subject:    "Science",
		Difficulty: quiz.DifficultyEasy,
		Class:      "Standard 5",
		TotalTime:  300,
		Questions: []quiz.QuestionInput{
			{Question: "Pick one", Options: []string{"a", "b"}, Answer: "z", TimeLimit: 20},
		},
	})
	requireStatus(t, err, 400)
}

func TestUpdate_ReplacesQuestionSet(t *testing.T) {
	service, repository := newService(t)
	entity := seedQuiz(t, service)

	updated, err := service.Update(context.Background(), entity.ID, quiz.UpdateInput{
		Questions: []quiz.QuestionInput{
			{Question: "Fresh one", Options: []string{"yes", "no"}, Answer: "yes", TimeLimit: 15},
			{Question: "Fresh two", Options: []string{"1", "2"}, Answer: "2", TimeLimit: 15},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Questions, 2)
	assert.Equal(t, "Fresh one", updated.Questions[0].Question)

	stored, err := repository.FindByID(context.Background(), entity.ID)
	require.NoError(t, err)
	require.Len(t, stored.Questions, 2)
}

func TestUpdate_NilQuestionsKeepsExistingSet(t *testing.T) {
	service, repository := newService(t)
	entity := seedQuiz(t, service)

	title := "Renamed"
	_, err := service.Update(context.Background(), entity.ID, quiz.UpdateInput{Title: &title})
	require.NoError(t, err)

	stored, err := repository.FindByID(context.Background(), entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	require.Len(t, stored.Questions, 1)
}

func TestAddQuestion_AppendsAtEnd(t *testing.T) {
	service, repository := newService(t)
	entity := seedQuiz(t, service)

	question, err := service.AddQuestion(context.Background(), entity.ID, quiz.QuestionInput{
		Question:  "Appended",
		Options:   []string{"a", "b"},
		Answer:    "b",
		TimeLimit: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, question.Position)

	stored, err := repository.FindByID(context.Background(), entity.ID)
	require.NoError(t, err)
	require.Len(t, stored.Questions, 2)
}

func TestUpdateQuestion_KeepsAnswerConsistent(t *testing.T) {
	service, _ := newService(t)
	entity := seedQuiz(t, service)
	questionID := entity.Questions[0].ID

	// Shrinking the options so the stored answer falls outside must fail.
	_, err := service.UpdateQuestion(context.Background(), questionID, quiz.UpdateQuestionInput{
		Options: []string{"54", "64"},
	})
	requireStatus(t, err, 400)

	// Moving answer and options together succeeds.
	answer := "64"
	updated, err := service.UpdateQuestion(context.Background(), questionID, quiz.UpdateQuestionInput{
		Options: []string{"54", "64"},
		Answer:  &answer,
	})
	require.NoError(t, err)
	assert.Equal(t, "64", updated.Answer)
}

func TestDeleteQuestion(t *testing.T) {
	service, repository := newService(t)
	entity := seedQuiz(t, service)

	require.NoError(t, service.DeleteQuestion(context.Background(), entity.Questions[0].ID))

	stored, err := repository.FindByID(context.Background(), entity.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Questions)
}

// requireStatus asserts err carries the expected HTTP status.
func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an application error, got %v", err)
	assert.Equal(t, status, appError.HTTPStatus)
}
