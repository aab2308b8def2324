package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workout-platform/internal/domain"
	"github.com/spec-kit/workout-platform/internal/repository"
	apperrors "github.com/spec-kit/workout-platform/pkg/util"
)

const (
	principalKey = "auth_principal"
	subjectKey   = "auth_subject"
)

// AuthMiddleware validates bearer tokens and, for the auth service, loads the
// full user record behind the subject claim.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware backed by a user repository.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication and loads the caller's user record.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	username, err := bearerSubject(c, m.tokens)
	if err != nil {
		return err
	}

	user, err := m.users.GetByUsername(c.UserContext(), username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("could not validate credentials")
		}
		return apperrors.MapError(err)
	}
	if !user.IsActive {
		return apperrors.NewUnauthorized("could not validate credentials")
	}

	c.Locals(principalKey, user)
	c.Locals(subjectKey, username)
	return c.Next()
}

// RequireToken verifies the bearer token without a local user lookup. The
// workout service has no users table; the verified subject is all it needs.
func RequireToken(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := bearerSubject(c, tokens)
		if err != nil {
			return err
		}
		c.Locals(subjectKey, username)
		return c.Next()
	}
}

// RequireAdmin ensures the loaded principal has admin rights.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok || !user.IsAdmin {
			return apperrors.NewForbidden("admin required")
		}
		return c.Next()
	}
}

// UserFromContext retrieves the authenticated user loaded by Handle.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}

// SubjectFromContext retrieves the verified token subject.
func SubjectFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(subjectKey)
	if val == nil {
		return "", false
	}
	username, ok := val.(string)
	return username, ok
}

func bearerSubject(c *fiber.Ctx, tokens *TokenManager) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}

	username, err := tokens.Verify(parts[1])
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return "", apperrors.NewUnauthorized("token expired")
		}
		return "", apperrors.NewUnauthorized("invalid token")
	}
	return username, nil
}
