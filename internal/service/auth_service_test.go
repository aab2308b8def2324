package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workout-platform/internal/config"
	"github.com/spec-kit/workout-platform/internal/domain"
	apperrors "github.com/spec-kit/workout-platform/pkg/util"
)

// memUsers is an in-memory UserRepository keyed by id.
type memUsers struct {
	users map[string]domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]domain.User)}
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		return &user, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUsers) List(_ context.Context, offset, limit int) ([]domain.User, error) {
	out := []domain.User{}
	for _, user := range m.users {
		out = append(out, user)
	}
	if offset >= len(out) {
		return []domain.User{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestAuthService(t *testing.T, users *memUsers) *AuthService {
	t.Helper()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 30,
			BcryptCost:            4,
		},
	}
	// Nil throttle backend: throttling is disabled and logins fail open.
	svc, err := NewAuthService(cfg, users, nil)
	require.NoError(t, err)
	return svc
}

func registerAlice(t *testing.T, svc *AuthService) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAssignsDefaults(t *testing.T) {
	svc := newTestAuthService(t, newMemUsers())

	user := registerAlice(t, svc)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
	assert.Equal(t, []string{"user"}, user.Roles)
	assert.NotEqual(t, "s3cret-password", user.PasswordHash, "password must be stored hashed")
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc := newTestAuthService(t, newMemUsers())
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "s3cret-password",
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t, newMemUsers())
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newTestAuthService(t, newMemUsers())
	registerAlice(t, svc)

	token, exp, err := svc.Login(context.Background(), "alice", "s3cret-password")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	subject, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestLoginFailureIsIndistinguishable(t *testing.T) {
	svc := newTestAuthService(t, newMemUsers())
	registerAlice(t, svc)

	_, _, unknownErr := svc.Login(context.Background(), "ghost", "s3cret-password")
	_, _, wrongPassErr := svc.Login(context.Background(), "alice", "wrong-password")

	// Unknown username and wrong password must produce the same error, so a
	// caller cannot probe which usernames exist.
	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc := newTestAuthService(t, newMemUsers())
	registerAlice(t, svc)

	inactive := false
	_, err := svc.UpdateByUsername(context.Background(), "alice", UserUpdateInput{IsActive: &inactive})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "alice", "s3cret-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetByUsernameNotFound(t *testing.T) {
	svc := newTestAuthService(t, newMemUsers())

	_, err := svc.GetByUsername(context.Background(), "ghost")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
}

func TestUpdateByUsernamePartial(t *testing.T) {
	svc := newTestAuthService(t, newMemUsers())
	registerAlice(t, svc)

	age := 31
	updated, err := svc.UpdateByUsername(context.Background(), "alice", UserUpdateInput{Age: &age})
	require.NoError(t, err)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 31, *updated.Age)
	assert.Equal(t, "alice@example.com", updated.Email, "untouched fields keep their value")
}

func TestUpdateByUsernameRejectsTakenUsername(t *testing.T) {
	users := newMemUsers()
	svc := newTestAuthService(t, users)
	registerAlice(t, svc)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	taken := "alice"
	_, err = svc.UpdateByUsername(context.Background(), "bob", UserUpdateInput{Username: &taken})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
}

func TestDeleteByUsername(t *testing.T) {
	users := newMemUsers()
	svc := newTestAuthService(t, users)
	registerAlice(t, svc)

	require.NoError(t, svc.DeleteByUsername(context.Background(), "alice"))
	assert.Empty(t, users.users)

	err := svc.DeleteByUsername(context.Background(), "alice")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
}
