package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenRoundTrip(t *testing.T) {
	rt, err := NewResetTokens(testSecret, time.Hour)
	require.NoError(t, err)

	tok, exp, err := rt.Issue("alice", "$2a$10$hash-one")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	got, err := rt.Verify(tok, "alice", "$2a$10$hash-one")
	require.NoError(t, err)
	assert.Equal(t, exp.Unix(), got.Unix())
}

func TestResetTokenDiesWithPasswordChange(t *testing.T) {
	rt, err := NewResetTokens(testSecret, time.Hour)
	require.NoError(t, err)
	tok, _, err := rt.Issue("alice", "$2a$10$hash-one")
	require.NoError(t, err)

	_, err = rt.Verify(tok, "alice", "$2a$10$hash-two")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestResetTokenBoundToSubject(t *testing.T) {
	rt, err := NewResetTokens(testSecret, time.Hour)
	require.NoError(t, err)
	tok, _, err := rt.Issue("alice", "h")
	require.NoError(t, err)

	_, err = rt.Verify(tok, "bob", "h")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestResetTokenExpires(t *testing.T) {
	rt, err := NewResetTokens(testSecret, time.Hour)
	require.NoError(t, err)
	rt.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := rt.Issue("alice", "h")
	require.NoError(t, err)

	rt.now = time.Now
	_, err = rt.Verify(tok, "alice", "h")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestSessionCredentialIsNotAResetToken(t *testing.T) {
	is, _ := newPair(t, time.Hour)
	rt, err := NewResetTokens(testSecret, time.Hour)
	require.NoError(t, err)
	cred, err := is.Issue("alice", RoleUser)
	require.NoError(t, err)

	_, err = rt.Verify(cred.Token, "alice", "")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
