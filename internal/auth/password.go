package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt operates on at most 72 bytes; longer input is silently truncated by
// some implementations, so reject it outright.
const maxPasswordLen = 72

var (
	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordTooLong is returned when the password exceeds the bcrypt input bound.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// HashPassword hashes a plaintext password with the configured cost. The
// output embeds a per-call random salt, so hashing the same input twice
// yields different digests.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > maxPasswordLen {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain was the input originally hashed into
// digest. A malformed digest yields false, never an error; the comparison is
// constant-time with respect to mismatch position.
func VerifyPassword(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
