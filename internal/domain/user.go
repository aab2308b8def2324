package domain

import "time"

// User is the canonical identity record owned by the auth service. Other
// services never read this table directly; they resolve users over HTTP.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Roles        []string
	Age          *int
	Sex          *string
	Objective    *string
	IsActive     bool
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
