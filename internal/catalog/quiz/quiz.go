// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

// Package quiz manages practice quizzes and their nested questions.
//
// A quiz and its questions form one aggregate: creation and full question
// replacement are transactional, and deleting a quiz cascades to its
// questions at the database level.
package quiz

import (
	"time"

	"github.com/jmasanja/elimu/internal/catalog/book"
)

// Difficulty grades a quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is a known grade.
func (difficulty Difficulty) Valid() bool {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is one question inside a quiz. Options hold the candidate
// answers; Answer must be one of them.
type Question struct {
	ID        string   `json:"id"`
	QuizID    string   `json:"quizId"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Answer    string   `json:"answer"`
	TimeLimit int      `json:"timeLimit"`
	Position  int      `json:"position"`
}

// Quiz is one practice quiz with its questions.
type Quiz struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Level      book.EducationLevel `json:"level"`
	Subject    string              `json:"subject"`
	Difficulty Difficulty          `json:"difficulty"`
	Class      string              `json:"class"`
	TotalTime  int                 `json:"totalTime"`
	Questions  []Question          `json:"questions"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// ListFilter narrows a quiz listing. Zero values mean "no constraint";
// the sentinel "all" is accepted and ignored.
type ListFilter struct {
	Level      book.EducationLevel
	Subject    string
	Difficulty Difficulty
	Class      string
}
