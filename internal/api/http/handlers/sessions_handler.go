package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workout-platform/internal/api/dto"
	"github.com/spec-kit/workout-platform/internal/auth"
	"github.com/spec-kit/workout-platform/internal/service"
	apperrors "github.com/spec-kit/workout-platform/pkg/util"
)

// SessionsHandler exposes workout session and exercise endpoints.
type SessionsHandler struct {
	sessions *service.SessionService
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(sessions *service.SessionService) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// Create handles POST /sessions.
func (h *SessionsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Name == "" {
		return apperrors.NewValidationError("username and name required", nil)
	}

	input := service.SessionCreateInput{
		Name:  req.Name,
		Date:  req.Date,
		Notes: req.Notes,
	}
	for _, ex := range req.Exercises {
		if ex.Name == "" {
			return apperrors.NewValidationError("exercise name required", nil)
		}
		input.Exercises = append(input.Exercises, ex.ToExerciseInput())
	}

	session, err := h.sessions.Create(c.UserContext(), req.Username, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromSession(session))
}

// ListAll handles GET /sessions; every record carries its owner's current
// username, or the sentinel when the owner can no longer be resolved.
func (h *SessionsHandler) ListAll(c *fiber.Ctx) error {
	sessions, err := h.sessions.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromSessions(sessions))
}

// Mine handles GET /sessions/mine, listing the sessions of the token subject.
func (h *SessionsHandler) Mine(c *fiber.Ctx) error {
	username, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("could not validate credentials")
	}
	sessions, err := h.sessions.GetByUsername(c.UserContext(), username)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromSessions(sessions))
}

// GetByUsername handles GET /sessions/by-username/:username. An unknown
// username yields an empty list, not a 404.
func (h *SessionsHandler) GetByUsername(c *fiber.Ctx) error {
	sessions, err := h.sessions.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromSessions(sessions))
}

// Delete handles DELETE /sessions/by-username/:username/:name.
func (h *SessionsHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.sessions.Delete(c.UserContext(), c.Params("username"), c.Params("name"))
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("session", map[string]any{
			"username": c.Params("username"),
			"name":     c.Params("name"),
		})
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddExercise handles POST /sessions/exercises.
func (h *SessionsHandler) AddExercise(c *fiber.Ctx) error {
	var req dto.AddExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.SessionName == "" || req.Name == "" {
		return apperrors.NewValidationError("username, session_name and name required", nil)
	}

	exercise, err := h.sessions.AddExercise(c.UserContext(), req.Username, req.SessionName, req.ToExerciseInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromExercise(exercise))
}

// ExercisesByUsername handles GET /exercises/by-username/:username.
func (h *SessionsHandler) ExercisesByUsername(c *fiber.Ctx) error {
	exercises, err := h.sessions.ExercisesByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromExercises(exercises))
}
