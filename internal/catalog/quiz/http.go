// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmasanja/elimu/internal/catalog/book"
	"github.com/jmasanja/elimu/internal/platform/middleware"
	requestutil "github.com/jmasanja/elimu/internal/platform/request"
	"github.com/jmasanja/elimu/internal/platform/respond"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/platform/validate"
)

// Handler implements the HTTP layer for quizzes.
type Handler struct {
	quizService *Service
	gate        *middleware.Gate
}

// NewHandler constructs a new quiz [Handler].
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{quizService: service, gate: gate}
}

// capabilities is the route-capability table for this module.
var capabilities = map[string]middleware.Capability{
	"list":      middleware.Public,
	"facets":    middleware.Public,
	"get":       middleware.Public,
	"create":    middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher),
	"update":    middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher),
	"delete":    middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher),
	"questions": middleware.RequireRoles(sec.RoleAdmin, sec.RoleTeacher),
}

// Routes returns a [chi.Router] configured with the quiz endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.gate.Allow(capabilities["list"])).Get("/", handler.list)
	router.With(handler.gate.Allow(capabilities["create"])).Post("/", handler.create)

	router.With(handler.gate.Allow(capabilities["facets"])).Get("/levels", handler.levels)
	router.With(handler.gate.Allow(capabilities["facets"])).Get("/subjects", handler.subjects)
	router.With(handler.gate.Allow(capabilities["facets"])).Get("/classes", handler.classes)

	router.With(handler.gate.Allow(capabilities["questions"])).Patch("/questions/{questionId}", handler.updateQuestion)
	router.With(handler.gate.Allow(capabilities["questions"])).Delete("/questions/{questionId}", handler.removeQuestion)

	router.With(handler.gate.Allow(capabilities["get"])).Get("/{id}", handler.get)
	router.With(handler.gate.Allow(capabilities["update"])).Patch("/{id}", handler.update)
	router.With(handler.gate.Allow(capabilities["delete"])).Delete("/{id}", handler.remove)
	router.With(handler.gate.Allow(capabilities["questions"])).Post("/{id}/questions", handler.addQuestion)

	return router
}

// # Request Payloads

type questionRequest struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Answer    string   `json:"answer"`
	TimeLimit int      `json:"timeLimit"`
}

type createQuizRequest struct {
	Title      string            `json:"title"`
	Level      string            `json:"level"`
	Subject    string            `json:"subject"`
	Difficulty string            `json:"difficulty"`
	Class      string            `json:"class"`
	TotalTime  int               `json:"totalTime"`
	Questions  []questionRequest `json:"questions"`
}

type updateQuizRequest struct {
	Title      *string           `json:"title"`
	Level      *string           `json:"level"`
	Subject    *string           `json:"subject"`
	Difficulty *string           `json:"difficulty"`
	Class      *string           `json:"class"`
	TotalTime  *int              `json:"totalTime"`
	Questions  []questionRequest `json:"questions"`
}

type updateQuestionRequest struct {
	Question  *string  `json:"question"`
	Options   []string `json:"options"`
	Answer    *string  `json:"answer"`
	TimeLimit *int     `json:"timeLimit"`
}

// validateQuestion applies the per-question field rules to the validator.
func validateQuestion(validator *validate.Validator, input questionRequest) {
	validator.Required("question", input.Question).
		Required("answer", input.Answer).
		Range("timeLimit", input.TimeLimit, 1, 300).
		Custom("options", len(input.Options) < 2, "must contain at least two options")
}

func questionInputs(requests []questionRequest) []QuestionInput {
	inputs := make([]QuestionInput, 0, len(requests))
	for _, request := range requests {
		inputs = append(inputs, QuestionInput{
			Question:  request.Question,
			Options:   request.Options,
			Answer:    request.Answer,
			TimeLimit: request.TimeLimit,
		})
	}
	return inputs
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	difficulty := Difficulty(query.Get("difficulty"))
	if !difficulty.Valid() {
		difficulty = ""
	}

	filter := ListFilter{
		Level:      levelFromQuery(request),
		Subject:    query.Get("subject"),
		Difficulty: difficulty,
		Class:      query.Get("class"),
	}

	quizzes, err := handler.quizService.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, quizzes)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createQuizRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title).
		MaxLen("title", input.Title, 255).
		Required("subject", input.Subject).
		Required("class", input.Class).
		OneOf("level", input.Level, string(book.LevelPrimary), string(book.LevelSecondary)).
		OneOf("difficulty", input.Difficulty, string(DifficultyEasy), string(DifficultyMedium), string(DifficultyHard)).
		Range("totalTime", input.TotalTime, 1, 24*60*60)
	validator.Custom("questions", len(input.Questions) == 0, "must contain at least one question")
	for _, question := range input.Questions {
		validateQuestion(validator, question)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.quizService.Create(request.Context(), CreateInput{
		Title:      input.Title,
		Level:      book.EducationLevel(input.Level),
		Subject:    input.Subject,
		Difficulty: Difficulty(input.Difficulty),
		Class:      input.Class,
		TotalTime:  input.TotalTime,
		Questions:  questionInputs(input.Questions),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.quizService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateQuizRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required("title", *input.Title).MaxLen("title", *input.Title, 255)
	}
	if input.Level != nil {
		validator.OneOf("level", *input.Level, string(book.LevelPrimary), string(book.LevelSecondary))
	}
	if input.Difficulty != nil {
		validator.OneOf("difficulty", *input.Difficulty, string(DifficultyEasy), string(DifficultyMedium), string(DifficultyHard))
	}
	if input.TotalTime != nil {
		validator.Range("totalTime", *input.TotalTime, 1, 24*60*60)
	}
	for _, question := range input.Questions {
		validateQuestion(validator, question)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceInput := UpdateInput{
		Title:     input.Title,
		Subject:   input.Subject,
		Class:     input.Class,
		TotalTime: input.TotalTime,
	}
	if input.Level != nil {
		level := book.EducationLevel(*input.Level)
		serviceInput.Level = &level
	}
	if input.Difficulty != nil {
		difficulty := Difficulty(*input.Difficulty)
		serviceInput.Difficulty = &difficulty
	}
	if input.Questions != nil {
		serviceInput.Questions = questionInputs(input.Questions)
	}

	entity, err := handler.quizService.Update(request.Context(), requestutil.Param(request, "id"), serviceInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.quizService.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Questions

func (handler *Handler) addQuestion(writer http.ResponseWriter, request *http.Request) {
	var input questionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validateQuestion(validator, input)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	question, err := handler.quizService.AddQuestion(request.Context(), requestutil.Param(request, "id"), QuestionInput{
		Question:  input.Question,
		Options:   input.Options,
		Answer:    input.Answer,
		TimeLimit: input.TimeLimit,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, question)
}

func (handler *Handler) updateQuestion(writer http.ResponseWriter, request *http.Request) {
	var input updateQuestionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.TimeLimit != nil {
		validator.Range("timeLimit", *input.TimeLimit, 1, 300)
	}
	validator.Custom("options", input.Options != nil && len(input.Options) < 2, "must contain at least two options")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	question, err := handler.quizService.UpdateQuestion(request.Context(), requestutil.Param(request, "questionId"), UpdateQuestionInput{
		Question:  input.Question,
		Options:   input.Options,
		Answer:    input.Answer,
		TimeLimit: input.TimeLimit,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, question)
}

func (handler *Handler) removeQuestion(writer http.ResponseWriter, request *http.Request) {
	if err := handler.quizService.DeleteQuestion(request.Context(), requestutil.Param(request, "questionId")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Facets

func (handler *Handler) levels(writer http.ResponseWriter, request *http.Request) {
	levels, err := handler.quizService.Levels(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string][]string{"levels": levels})
}

func (handler *Handler) subjects(writer http.ResponseWriter, request *http.Request) {
	subjects, err := handler.quizService.Subjects(request.Context(), levelFromQuery(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string][]string{"subjects": subjects})
}

func (handler *Handler) classes(writer http.ResponseWriter, request *http.Request) {
	classes, err := handler.quizService.Classes(request.Context(), levelFromQuery(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string][]string{"classes": classes})
}

// levelFromQuery parses and validates the optional level query parameter.
func levelFromQuery(request *http.Request) book.EducationLevel {
	level := book.EducationLevel(request.URL.Query().Get("level"))
	if !level.Valid() {
		return ""
	}
	return level
}
