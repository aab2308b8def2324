package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workout-platform/internal/api/dto"
	"github.com/spec-kit/workout-platform/internal/auth"
	"github.com/spec-kit/workout-platform/internal/service"
	apperrors "github.com/spec-kit/workout-platform/pkg/util"
)

// UsersHandler exposes the auth service's user endpoints, including the
// lookup endpoints consumed by sibling services.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email, password required", nil)
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Age:       req.Age,
		Sex:       req.Sex,
		Objective: req.Objective,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.FromUser(user))
}

// Login handles POST /users/token. Failures are reported with one generic
// message regardless of whether the username exists.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, _, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("incorrect username or password")
		}
		return err
	}

	return c.JSON(dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /users/me for the authenticated caller.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("could not validate credentials")
	}
	return c.JSON(dto.FromUser(user))
}

// List handles GET /users with offset/limit pagination.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)

	users, err := h.auth.List(c.UserContext(), offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUsers(users))
}

// GetByID handles GET /users/:id, the id-based lookup used by siblings.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	user, err := h.auth.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(user))
}

// GetByUsername handles GET /users/by-username/:username.
func (h *UsersHandler) GetByUsername(c *fiber.Ctx) error {
	user, err := h.auth.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(user))
}

// UpdateByUsername handles PATCH /users/by-username/:username.
func (h *UsersHandler) UpdateByUsername(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.UpdateByUsername(c.UserContext(), c.Params("username"), service.UserUpdateInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Roles:     req.Roles,
		Age:       req.Age,
		Sex:       req.Sex,
		Objective: req.Objective,
		IsActive:  req.IsActive,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(user))
}

// DeleteByUsername handles DELETE /users/by-username/:username.
func (h *UsersHandler) DeleteByUsername(c *fiber.Ctx) error {
	if err := h.auth.DeleteByUsername(c.UserContext(), c.Params("username")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
