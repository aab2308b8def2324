package dto

import "github.com/spec-kit/workout-platform/internal/domain"

// RegisterRequest payload.
type RegisterRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Age       *int    `json:"age"`
	Sex       *string `json:"sex"`
	Objective *string `json:"objective"`
}

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned from the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserUpdateRequest carries optional fields for a partial update.
type UserUpdateRequest struct {
	Username  *string  `json:"username"`
	Email     *string  `json:"email"`
	Password  *string  `json:"password"`
	Roles     []string `json:"roles"`
	Age       *int     `json:"age"`
	Sex       *string  `json:"sex"`
	Objective *string  `json:"objective"`
	IsActive  *bool    `json:"is_active"`
	IsAdmin   *bool    `json:"is_admin"`
}

// UserResponse is the public user shape, also consumed by sibling services
// through the lookup endpoints.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}

// FromUser maps a domain user to its public shape.
func FromUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsActive: user.IsActive,
		IsAdmin:  user.IsAdmin,
	}
}

// FromUsers maps a slice of domain users.
func FromUsers(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, FromUser(&users[i]))
	}
	return out
}
