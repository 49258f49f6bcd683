package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef-test"

func newPair(t *testing.T, ttl time.Duration) (*Issuer, *Verifier) {
	t.Helper()
	is, err := NewIssuer(testSecret, ttl)
	require.NoError(t, err)
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)
	return is, v
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	is, v := newPair(t, 240*time.Hour)

	for _, tc := range []struct {
		subject string
		role    Role
		kind    Kind
	}{
		{"alice", RoleUser, KindUser},
		{"root", RoleAdmin, KindAdmin},
		{"bob.smith", RoleUser, KindUser},
	} {
		cred, err := is.Issue(tc.subject, tc.role)
		require.NoError(t, err)
		assert.NotEmpty(t, cred.ID)
		assert.True(t, cred.ExpiresAt.After(cred.IssuedAt))
		assert.Equal(t, 240*time.Hour, cred.ExpiresAt.Sub(cred.IssuedAt))

		id, err := v.Verify(cred.Token)
		require.NoError(t, err)
		assert.Equal(t, tc.subject, id.SubjectID)
		assert.Equal(t, tc.role, id.Role)
		assert.Equal(t, tc.kind, id.Kind)
		assert.NoError(t, id.AuthError())
	}
}

func TestIssueUniqueIDs(t *testing.T) {
	is, _ := newPair(t, time.Hour)
	a, err := is.Issue("alice", RoleUser)
	require.NoError(t, err)
	b, err := is.Issue("alice", RoleUser)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestIssueRejectsUnknownRole(t *testing.T) {
	is, _ := newPair(t, time.Hour)
	for _, r := range []Role{"", "admine", "Admin", "superuser"} {
		_, err := is.Issue("alice", r)
		assert.ErrorIs(t, err, ErrUnknownRole, "role %q", r)
	}
	_, err := is.Issue("  ", RoleUser)
	assert.Error(t, err)
}

func TestNewIssuerValidation(t *testing.T) {
	_, err := NewIssuer("short", time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)
	_, err = NewIssuer(testSecret, 0)
	assert.Error(t, err)
	_, err = NewVerifier("short")
	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestVerifyExpired(t *testing.T) {
	is, v := newPair(t, 24*time.Hour)
	is.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	cred, err := is.Issue("alice", RoleUser)
	require.NoError(t, err)

	id, err := v.Verify(cred.Token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
	assert.False(t, id.Authenticated())
	assert.ErrorIs(t, id.AuthError(), ErrInvalidCredential)
}

func TestVerifyValidUntilExpiry(t *testing.T) {
	is, v := newPair(t, time.Hour)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	is.now = func() time.Time { return base }
	cred, err := is.Issue("alice", RoleUser)
	require.NoError(t, err)

	v.now = func() time.Time { return base.Add(59 * time.Minute) }
	_, err = v.Verify(cred.Token)
	require.NoError(t, err)

	v.now = func() time.Time { return base.Add(61 * time.Minute) }
	_, err = v.Verify(cred.Token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyEmptyIsNoCredential(t *testing.T) {
	_, v := newPair(t, time.Hour)
	id, err := v.Verify("   ")
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.ErrorIs(t, id.AuthError(), ErrNoCredential)
}

func TestVerifyRejectsTampering(t *testing.T) {
	is, v := newPair(t, time.Hour)
	cred, err := is.Issue("alice", RoleUser)
	require.NoError(t, err)

	parts := strings.Split(cred.Token, ".")
	require.Len(t, parts, 3)

	// Swap in a payload claiming admin, keep the original signature.
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("another-secret-another-secret-0000"))
	require.NoError(t, err)
	fparts := strings.Split(forged, ".")
	spliced := parts[0] + "." + fparts[1] + "." + parts[2]

	cases := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": forged,
		"spliced":      spliced,
		"truncated":    parts[0] + "." + parts[1],
	}
	for name, raw := range cases {
		_, err := v.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidCredential, name)
		assert.NotContains(t, err.Error(), raw, "error must not echo the token (%s)", name)
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	_, v := newPair(t, time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "mallory", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsUnknownRoleAndMissingClaims(t *testing.T) {
	_, v := newPair(t, time.Hour)
	sign := func(c claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	_, err := v.Verify(sign(claims{Role: "admine", RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp}}))
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = v.Verify(sign(claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}))
	assert.ErrorIs(t, err, ErrInvalidCredential)

	// No exp claim at all.
	_, err = v.Verify(sign(claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}}))
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole(" user ")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	for _, bad := range []string{"", "ADMIN", "admine", "root"} {
		_, err := ParseRole(bad)
		assert.ErrorIs(t, err, ErrUnknownRole, bad)
	}
}
