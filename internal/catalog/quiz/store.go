// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package quiz

import (
	"context"

	"github.com/jmasanja/elimu/internal/catalog/book"
)

// Repository abstracts quiz persistence.
type Repository interface {
	// Create persists the quiz and its questions in one transaction.
	Create(context context.Context, quiz *Quiz) error
	FindByID(context context.Context, id string) (*Quiz, error)
	List(context context.Context, filter ListFilter) ([]Quiz, error)
	// Update persists quiz fields; when replaceQuestions is set the stored
	// question set is swapped for quiz.Questions in the same transaction.
	Update(context context.Context, quiz *Quiz, replaceQuestions bool) error
	Delete(context context.Context, id string) error

	AddQuestion(context context.Context, question *Question) error
	FindQuestion(context context.Context, questionID string) (*Question, error)
	UpdateQuestion(context context.Context, question *Question) error
	DeleteQuestion(context context.Context, questionID string) error

	DistinctLevels(context context.Context) ([]string, error)
	DistinctSubjects(context context.Context, level book.EducationLevel) ([]string, error)
	DistinctClasses(context context.Context, level book.EducationLevel) ([]string, error)
}
