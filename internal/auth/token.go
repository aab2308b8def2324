package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret indicates the signing secret was not configured.
	ErrMissingSecret = errors.New("jwt signing secret is empty")
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed indicates a token that does not parse or whose
	// signature does not verify.
	ErrTokenMalformed = errors.New("token malformed")
)

// TokenManager issues and validates stateless JWT access tokens. The subject
// claim carries the username; validity is entirely a function of the token
// content and the signing key, so there is no revocation path besides expiry.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager signing with HS256. It fails when the
// secret is empty so a misconfigured service cannot issue unverifiable tokens.
func NewTokenManager(secret string, ttlMinutes int) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttlMinutes <= 0 {
		ttlMinutes = 30
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}, nil
}

// Claims describes the JWT payload.
type Claims struct {
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the given username using the manager's
// configured TTL.
func (tm *TokenManager) Issue(username string) (string, time.Time, error) {
	return tm.IssueWithTTL(username, tm.ttl)
}

// IssueWithTTL builds and signs a token with an explicit lifetime. A
// non-positive ttl produces an already-expired token.
func (tm *TokenManager) IssueWithTTL(username string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates signature and expiry and returns the subject username.
// The subject is never returned from a token that failed either check.
func (tm *TokenManager) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

// TTL exposes the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}
