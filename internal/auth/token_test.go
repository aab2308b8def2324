package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager("test-secret", 30)
	require.NoError(t, err)
	return tm
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", 30)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestIssueAndVerify(t *testing.T) {
	tm := newTestManager(t)

	token, exp, err := tm.Issue("alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	subject, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := newTestManager(t)

	token, _, err := tm.IssueWithTTL("alice", -time.Minute)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTamperedToken(t *testing.T) {
	tm := newTestManager(t)

	token, _, err := tm.Issue("alice")
	require.NoError(t, err)

	// Flip the last signature character; any byte change must surface as
	// malformed, never as a different accepted subject.
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = tm.Verify(string(tampered))
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyGarbageToken(t *testing.T) {
	tm := newTestManager(t)

	_, err := tm.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = tm.Verify("")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyTokenSignedWithDifferentSecret(t *testing.T) {
	tm := newTestManager(t)
	other, err := NewTokenManager("other-secret", 30)
	require.NoError(t, err)

	token, _, err := other.Issue("alice")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
