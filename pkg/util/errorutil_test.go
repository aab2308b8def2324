package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewConflict("username already registered", nil)

	mapped := ToDomainError(original)
	require.NotNil(t, mapped)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainErrorUnwrapsWrapped(t *testing.T) {
	wrapped := fmt.Errorf("while deleting: %w", NewNotFound("session", nil))

	mapped := ToDomainError(wrapped)
	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
}

func TestToDomainErrorMapsUniqueViolation(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	mapped := ToDomainError(fmt.Errorf("create user: %w", cause))
	require.NotNil(t, mapped)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainErrorMapsMissingRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, mapped)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	mapped := ToDomainError(errors.New("disk on fire"))
	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	// Raw cause stays server side; the message clients see is generic.
	assert.Equal(t, "internal server error", mapped.Message)
}

func TestUpstreamUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstreamUnavailable("auth service", cause)

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusServiceUnavailable, domainErr.HTTPStatus)
	assert.ErrorIs(t, err, cause)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
