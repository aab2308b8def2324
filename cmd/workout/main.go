package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/workout-platform/internal/api/http"
	"github.com/spec-kit/workout-platform/internal/api/http/handlers"
	"github.com/spec-kit/workout-platform/internal/auth"
	"github.com/spec-kit/workout-platform/internal/config"
	"github.com/spec-kit/workout-platform/internal/events"
	"github.com/spec-kit/workout-platform/internal/identity"
	"github.com/spec-kit/workout-platform/internal/observability"
	"github.com/spec-kit/workout-platform/internal/persistence"
	"github.com/spec-kit/workout-platform/internal/repository"
	"github.com/spec-kit/workout-platform/internal/service"
	"github.com/spec-kit/workout-platform/internal/worker"
)

func main() {
	cfg, err := config.LoadWorkout()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	tokenMgr, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	resolver := identity.NewHTTPResolver(cfg.UserAPI.BaseURL, cfg.UserAPI.Timeout(), logger)
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger))

	pool := pg.PoolHandle()
	sessionRepo := repository.NewSessionRepository(pool)
	exerciseRepo := repository.NewExerciseRepository(pool)
	biometricRepo := repository.NewBiometricRepository(pool)

	sessionService := service.NewSessionService(service.SessionDependencies{
		SessionRepo:  sessionRepo,
		ExerciseRepo: exerciseRepo,
		Resolver:     resolver,
		Dispatcher:   dispatcher,
	})
	biometricService := service.NewBiometricService(biometricRepo, resolver, dispatcher)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterWorkoutRoutes(app, httptransport.WorkoutRouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, nil),
		Metrics:      handlers.NewMetricsHandler(metrics),
		Sessions:     handlers.NewSessionsHandler(sessionService),
		Biometrics:   handlers.NewBiometricsHandler(biometricService),
		TokenManager: tokenMgr,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
