// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

// Command api is the entry point for the Elimu HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Connect to object storage.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmasanja/elimu/internal/api"
	"github.com/jmasanja/elimu/internal/catalog/book"
	"github.com/jmasanja/elimu/internal/catalog/career"
	"github.com/jmasanja/elimu/internal/catalog/news"
	"github.com/jmasanja/elimu/internal/catalog/pastpaper"
	"github.com/jmasanja/elimu/internal/catalog/quiz"
	"github.com/jmasanja/elimu/internal/catalog/trending"
	"github.com/jmasanja/elimu/internal/catalog/tutorial"
	"github.com/jmasanja/elimu/internal/dashboard"
	"github.com/jmasanja/elimu/internal/platform/config"
	"github.com/jmasanja/elimu/internal/platform/constants"
	"github.com/jmasanja/elimu/internal/platform/middleware"
	"github.com/jmasanja/elimu/internal/platform/migration"
	pgstore "github.com/jmasanja/elimu/internal/platform/postgres"
	redisstore "github.com/jmasanja/elimu/internal/platform/redis"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/platform/storage"
	"github.com/jmasanja/elimu/internal/support/message"
	"github.com/jmasanja/elimu/internal/users/account"
	"github.com/jmasanja/elimu/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "elimu"))
	slog.SetDefault(log)

	log.Info("[Elimu] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "elimu"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Object Storage ─────────────────────────────────────────────────
	files, err := storage.NewS3(storage.S3Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		PublicBaseURL:   cfg.S3PublicURL,
	})
	must(log, err, "connect to object storage")

	// ── 7. Security Services ──────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	gate := middleware.NewGate(tokenService)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckStorage: func() error {
			return files.Ping(context.Background())
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	recorder := trending.NewRecorder(rdb, log)

	userRepository := auth.NewUserRepository(pool)
	refreshTokenRepository := auth.NewRefreshTokenRepository(pool)
	authService := auth.NewService(userRepository, refreshTokenRepository, tokenService)
	authHandler := auth.NewHandler(authService, gate)

	accountRepository := account.NewAccountRepository(pool)
	accountService := account.NewService(userRepository, accountRepository, refreshTokenRepository, log)
	accountHandler := account.NewHandler(accountService, gate)

	bookRepository := book.NewRepository(pool)
	bookService := book.NewService(bookRepository, files, recorder, log)
	bookHandler := book.NewHandler(bookService, gate)

	pastPaperRepository := pastpaper.NewRepository(pool)
	pastPaperService := pastpaper.NewService(pastPaperRepository, files, recorder, log)
	pastPaperHandler := pastpaper.NewHandler(pastPaperService, gate)

	newsRepository := news.NewRepository(pool)
	newsService := news.NewService(newsRepository, files, log)
	newsHandler := news.NewHandler(newsService, gate)

	tutorialRepository := tutorial.NewRepository(pool)
	tutorialService := tutorial.NewService(tutorialRepository, log)
	tutorialHandler := tutorial.NewHandler(tutorialService, gate)

	quizRepository := quiz.NewRepository(pool)
	quizService := quiz.NewService(quizRepository, log)
	quizHandler := quiz.NewHandler(quizService, gate)

	careerRepository := career.NewRepository(pool)
	careerService := career.NewService(careerRepository, log)
	careerHandler := career.NewHandler(careerService, gate)

	messageRepository := message.NewRepository(pool)
	messageService := message.NewService(messageRepository, log)
	messageHandler := message.NewHandler(messageService, gate)

	dashboardRepository := dashboard.NewRepository(pool)
	dashboardService := dashboard.NewService(dashboardRepository, recorder, log)
	dashboardHandler := dashboard.NewHandler(dashboardService, gate)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		Book:      bookHandler,
		PastPaper: pastPaperHandler,
		News:      newsHandler,
		Tutorial:  tutorialHandler,
		Quiz:      quizHandler,
		Career:    careerHandler,
		Message:   messageHandler,
		Dashboard: dashboardHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
