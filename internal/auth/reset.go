package auth // password reset tokens bound to the current password hash

import (
	"errors"  // errors builds the empty-subject error
	"fmt"     // fmt wraps signing and parse failures
	"strings" // strings trims raw tokens and subjects
	"time"    // time computes iat and exp

	"github.com/golang-jwt/jwt/v5" // JWT library for signing and parsing reset tokens
)

const resetAudience = "password-reset"

// ResetTokens mints and checks password reset tokens.  A reset token is
// signed with the server secret concatenated with the subject's current
// password hash, so it stops verifying as soon as the password changes.
type ResetTokens struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// NewResetTokens returns a ResetTokens with the given validity window.
func NewResetTokens(secret string, ttl time.Duration) (*ResetTokens, error) {
	if len(secret) < minSecretLen {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("reset token ttl must be positive, got %s", ttl)
	}
	return &ResetTokens{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue returns a reset token for subject and its expiry.
func (rt *ResetTokens) Issue(subject, passwordHash string) (string, time.Time, error) {
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, errors.New("reset subject is empty")
	}
	// Whole seconds, as stored in NumericDate.
	iat := rt.now().UTC().Truncate(time.Second)
	exp := iat.Add(rt.ttl)
	// The audience keeps session credentials and reset tokens apart even
	// though both are HS256 JWTs.
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Audience:  jwt.ClaimStrings{resetAudience},
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	// Keyed on the password hash: changing the password kills the token.
	signed, err := t.SignedString(rt.key(passwordHash))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign reset token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks that raw is an unexpired reset token for subject signed
// against passwordHash.  It returns the token expiry on success and
// ErrInvalidCredential otherwise.
func (rt *ResetTokens) Verify(raw, subject, passwordHash string) (time.Time, error) {
	// Audience, subject and expiry are all mandatory; any mismatch fails.
	var cl jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &cl, func(t *jwt.Token) (interface{}, error) {
		return rt.key(passwordHash), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(resetAudience),
		jwt.WithSubject(subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(rt.now),
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidCredential, reason(err))
	}
	return cl.ExpiresAt.Time, nil
}

func (rt *ResetTokens) key(passwordHash string) []byte {
	return []byte(rt.secret + passwordHash)
}
