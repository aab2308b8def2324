package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workout-platform/internal/auth"
	"github.com/spec-kit/workout-platform/internal/config"
	"github.com/spec-kit/workout-platform/internal/domain"
	"github.com/spec-kit/workout-platform/internal/repository"
	apperrors "github.com/spec-kit/workout-platform/pkg/util"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords, so responses never reveal which one it was.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// AuthService coordinates registration, login and user management.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	throttle   *LoginThrottle
	bcryptCost int
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Age       *int
	Sex       *string
	Objective *string
}

// UserUpdateInput carries optional fields for a partial update. Nil means
// leave the stored value alone.
type UserUpdateInput struct {
	Username  *string
	Email     *string
	Password  *string
	Roles     []string
	Age       *int
	Sex       *string
	Objective *string
	IsActive  *bool
	IsAdmin   *bool
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, throttle *LoginThrottle) (*AuthService, error) {
	tokenMgr, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:      users,
		tokenMgr:   tokenMgr,
		throttle:   throttle,
		bcryptCost: cfg.Auth.BcryptCost,
	}, nil
}

// Register creates a new user, rejecting duplicate usernames and emails.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.NewConflict("username already registered", map[string]any{"username": input.Username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Roles:        []string{"user"},
		Age:          input.Age,
		Sex:          input.Sex,
		Objective:    input.Objective,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a username/password pair and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if !s.throttle.Allow(ctx, username) {
		return "", time.Time{}, apperrors.NewDomainError(
			"RATE_LIMITED", "too many failed login attempts", http.StatusTooManyRequests, nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.throttle.RecordFailure(ctx, username)
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		s.throttle.RecordFailure(ctx, username)
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.Issue(user.Username)
	if err != nil {
		return "", time.Time{}, err
	}
	s.throttle.Reset(ctx, username)
	return token, exp, nil
}

// GetByUsername fetches a user for the lookup endpoints.
func (s *AuthService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"username": username})
		}
		return nil, err
	}
	return user, nil
}

// GetByID fetches a user by its opaque id.
func (s *AuthService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

// List returns a page of users.
func (s *AuthService) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, offset, limit)
}

// UpdateByUsername applies a partial update to an existing user.
func (s *AuthService) UpdateByUsername(ctx context.Context, username string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != user.Username {
		if _, err := s.users.GetByUsername(ctx, *input.Username); err == nil {
			return nil, apperrors.NewConflict("username already registered", map[string]any{"username": *input.Username})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		user.Username = *input.Username
	}
	if input.Email != nil && *input.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, *input.Email); err == nil {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": *input.Email})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
		}
		user.PasswordHash = hash
	}
	if input.Roles != nil {
		user.Roles = input.Roles
	}
	if input.Age != nil {
		user.Age = input.Age
	}
	if input.Sex != nil {
		user.Sex = input.Sex
	}
	if input.Objective != nil {
		user.Objective = input.Objective
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteByUsername removes a user. Records owned by the user in sibling
// services are left behind on purpose; their reads degrade to a sentinel
// username.
func (s *AuthService) DeleteByUsername(ctx context.Context, username string) error {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, user.ID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
