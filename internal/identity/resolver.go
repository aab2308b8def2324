// Package identity resolves usernames and user ids against the auth service.
// It is the only place in the workout service that speaks HTTP to a sibling;
// callers see exactly three outcomes: an Identity, ErrNotFound, or
// ErrUnavailable.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the auth service reported the user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrUnavailable means the auth service could not answer: transport
	// failure, timeout, unexpected status, or an unparseable body.
	ErrUnavailable = errors.New("user service unavailable")
)

// Identity is the normalized user shape returned by the auth service.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}

// Resolver maps usernames and ids to canonical identities.
type Resolver interface {
	ResolveByUsername(ctx context.Context, username string) (*Identity, error)
	ResolveByID(ctx context.Context, id string) (*Identity, error)
}
