// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jmasanja/elimu/internal/catalog/book"
	"github.com/jmasanja/elimu/internal/catalog/career"
	"github.com/jmasanja/elimu/internal/catalog/news"
	"github.com/jmasanja/elimu/internal/catalog/pastpaper"
	"github.com/jmasanja/elimu/internal/catalog/quiz"
	"github.com/jmasanja/elimu/internal/catalog/tutorial"
	"github.com/jmasanja/elimu/internal/dashboard"
	"github.com/jmasanja/elimu/internal/platform/config"
	"github.com/jmasanja/elimu/internal/platform/constants"
	"github.com/jmasanja/elimu/internal/platform/middleware"
	"github.com/jmasanja/elimu/internal/support/message"
	"github.com/jmasanja/elimu/internal/users/account"
	"github.com/jmasanja/elimu/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles authentication routes (register, login, token refresh).
	Auth *auth.Handler

	// Account handles member profile and administration routes.
	Account *account.Handler

	// Book handles the study-notes catalogue.
	Book *book.Handler

	// PastPaper handles the examination archive.
	PastPaper *pastpaper.Handler

	// News handles articles and the publish workflow.
	News *news.Handler

	// Tutorial handles the video tutorial catalogue.
	Tutorial *tutorial.Handler

	// Quiz handles quizzes and their nested questions.
	Quiz *quiz.Handler

	// Career handles career guidance resources.
	Career *career.Handler

	// Message handles contact-form submissions.
	Message *message.Handler

	// Dashboard handles the staff statistics endpoint.
	Dashboard *dashboard.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	// Authentication is decided per route by each handler's capability table.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())
		api.Mount("/books", h.Book.Routes())
		api.Mount("/past-papers", h.PastPaper.Routes())
		api.Mount("/news", h.News.Routes())
		api.Mount("/tutorials", h.Tutorial.Routes())
		api.Mount("/quizzes", h.Quiz.Routes())
		api.Mount("/career-resources", h.Career.Routes())
		api.Mount("/messages", h.Message.Routes())
		api.Mount("/dashboard", h.Dashboard.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
