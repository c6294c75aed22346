package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"scheduler_service/internal/activity"
	"scheduler_service/internal/auth"
	"scheduler_service/internal/config"
	activitieshandler "scheduler_service/internal/http_server/handlers/activities"
	"scheduler_service/internal/http_server/handlers/health"
	"scheduler_service/internal/http_server/handlers/login"
	"scheduler_service/internal/http_server/handlers/register"
	timerhandler "scheduler_service/internal/http_server/handlers/timer"
	timespenthandler "scheduler_service/internal/http_server/handlers/timespent"
	"scheduler_service/internal/http_server/middleware/ratelimit"
	"scheduler_service/internal/http_server/middleware/session"
	"scheduler_service/internal/lib/token"
	"scheduler_service/internal/rabbitmq"
	"scheduler_service/internal/storage/postgres"
	"scheduler_service/internal/storage/redis"
	"scheduler_service/internal/timer"
	"scheduler_service/internal/timespent"

	sl "scheduler_service/internal/lib/logger"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting scheduler service", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("shutdown signal received")
		cancel()
	}()

	if err := postgres.RunMigrations(ctx, cfg); err != nil {
		log.Error("failed to run migrations", sl.Err(err))
		os.Exit(1)
	}

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", sl.Err(err))
		os.Exit(1)
	}
	defer storage.Close()

	cache, err := redis.New(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Error("failed to connect redis", sl.Err(err))
		os.Exit(1)
	}
	defer cache.Close()

	msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to connect rabbitmq", sl.Err(err))
		os.Exit(1)
	}
	defer msgBroker.Close()

	issuer := token.NewIssuer(cfg.SecretKey, token.DefaultTTL)

	authService := auth.New(log, storage, storage, msgBroker, issuer, cfg.PasswordPolicy)
	timerService := timer.New(log, storage, cache)
	activityService := activity.New(log, storage)
	timeSpentService := timespent.New(log, storage)

	router := setupRouter(log, issuer, authService, timerService, activityService, timeSpentService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", sl.Err(err))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down HTTP server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", sl.Err(err))
	} else {
		log.Info("server stopped gracefully")
	}
}

func setupRouter(
	log *slog.Logger,
	issuer *token.Issuer,
	authService *auth.Auth,
	timerService *timer.Timer,
	activityService *activity.Service,
	timeSpentService *timespent.Service,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", health.New())

	r.With(ratelimit.Registration()).Post("/registration", register.New(log, authService))
	r.With(ratelimit.Login()).Post("/login", login.New(log, authService))

	r.Group(func(r chi.Router) {
		r.Use(session.New(log, issuer))

		r.Post("/timer/start/{activity_id}", timerhandler.NewStart(log, timerService))
		r.Post("/timer/stop/{activity_id}", timerhandler.NewStop(log, timerService))

		r.Get("/activities", activitieshandler.NewList(log, activityService))
		r.Post("/activities", activitieshandler.NewSave(log, activityService))
		r.Get("/activities/{id}", activitieshandler.NewGet(log, activityService))
		r.Put("/activities/{id}", activitieshandler.NewUpdate(log, activityService))
		r.Delete("/activities/{id}", activitieshandler.NewDelete(log, activityService))

		r.Post("/time_spent", timespenthandler.NewAdd(log, timeSpentService))
		r.Get("/time_spent/{activity_id}", timespenthandler.NewList(log, timeSpentService))
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
