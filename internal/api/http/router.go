package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workout-platform/internal/api/http/handlers"
	"github.com/spec-kit/workout-platform/internal/auth"
)

// AuthRouteConfig bundles dependencies for the auth service's routes.
type AuthRouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterAuthRoutes wires the auth service's HTTP routes. The by-username
// and by-id lookups are the contract consumed by the workout service.
func RegisterAuthRoutes(app *fiber.App, cfg AuthRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Counters)

	users := app.Group("/users")
	users.Post("/", cfg.Users.Register)
	users.Post("/token", cfg.Users.Login)
	users.Get("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.List)
	users.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)
	users.Get("/by-username/:username", cfg.Users.GetByUsername)
	users.Patch("/by-username/:username", cfg.AuthMiddleware.Handle, cfg.Users.UpdateByUsername)
	users.Delete("/by-username/:username", cfg.AuthMiddleware.Handle, cfg.Users.DeleteByUsername)
	users.Get("/:id", cfg.Users.GetByID)
}

// WorkoutRouteConfig bundles dependencies for the workout service's routes.
type WorkoutRouteConfig struct {
	Health       *handlers.HealthHandler
	Metrics      *handlers.MetricsHandler
	Sessions     *handlers.SessionsHandler
	Biometrics   *handlers.BiometricsHandler
	TokenManager *auth.TokenManager
}

// RegisterWorkoutRoutes wires the workout service's HTTP routes. All business
// routes require a valid bearer token; the workout service verifies tokens
// locally and never round-trips to the auth service for that.
func RegisterWorkoutRoutes(app *fiber.App, cfg WorkoutRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Counters)

	requireToken := auth.RequireToken(cfg.TokenManager)

	sessions := app.Group("/sessions", requireToken)
	sessions.Post("/", cfg.Sessions.Create)
	sessions.Get("/", cfg.Sessions.ListAll)
	sessions.Get("/mine", cfg.Sessions.Mine)
	sessions.Get("/by-username/:username", cfg.Sessions.GetByUsername)
	sessions.Delete("/by-username/:username/:name", cfg.Sessions.Delete)
	sessions.Post("/exercises", cfg.Sessions.AddExercise)

	exercises := app.Group("/exercises", requireToken)
	exercises.Get("/by-username/:username", cfg.Sessions.ExercisesByUsername)

	biometrics := app.Group("/biometrics", requireToken)
	biometrics.Post("/", cfg.Biometrics.Create)
	biometrics.Get("/by-username/:username", cfg.Biometrics.ListByUsername)
	biometrics.Patch("/:id", cfg.Biometrics.Update)
	biometrics.Delete("/:id", cfg.Biometrics.Delete)
}
