package auth // package auth holds the credential lifecycle and the authorization guard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
	"github.com/google/uuid"       // random credential identifiers (jti)
)

// Credential is a signed token bound to a subject and role, together with
// the instants it was issued and stops being valid.
type Credential struct {
	Token     string    // the serialized JWT string
	ID        string    // jti claim; unique per issuance
	Subject   string    // sub claim
	Role      Role      // role claim
	IssuedAt  time.Time // UTC issue time
	ExpiresAt time.Time // UTC expiration time
}

// claims is the JWT payload: the registered claims plus the role.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// minSecretLen is the shortest HMAC key accepted by NewIssuer/NewVerifier.
const minSecretLen = 32

// ErrWeakSecret is returned when the signing secret is shorter than 32 bytes.
var ErrWeakSecret = errors.New("signing secret must be at least 32 bytes")

// Issuer mints HS256 credentials with a fixed validity window.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer signing with secret.  ttl must be positive; a
// credential issued at t is valid until t+ttl.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < minSecretLen {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("credential ttl must be positive, got %s", ttl)
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the validity window applied to every credential.
func (is *Issuer) TTL() time.Duration { return is.ttl }

// Issue signs a credential for subject with role.  The role must belong to
// the canonical set; free-form strings never reach a token.
func (is *Issuer) Issue(subject string, role Role) (Credential, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Credential{}, errors.New("credential subject is empty")
	}
	if !role.Valid() {
		return Credential{}, fmt.Errorf("%w: %q", ErrUnknownRole, string(role))
	}
	// Truncate to whole seconds; that is the precision JWT NumericDate keeps.
	iat := is.now().UTC().Truncate(time.Second)
	exp := iat.Add(is.ttl)
	jti := uuid.NewString()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := t.SignedString(is.secret)
	if err != nil {
		return Credential{}, fmt.Errorf("sign credential: %w", err)
	}
	return Credential{
		Token:     signed,
		ID:        jti,
		Subject:   subject,
		Role:      role,
		IssuedAt:  iat,
		ExpiresAt: exp,
	}, nil
}

// Verifier checks credentials minted by an Issuer sharing the same secret.
// Verification is pure: it never touches storage.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier builds a Verifier for secret.
func NewVerifier(secret string) (*Verifier, error) {
	if len(secret) < minSecretLen {
		return nil, ErrWeakSecret
	}
	return &Verifier{secret: []byte(secret), now: time.Now}, nil
}

// Verify parses raw and returns the identity it asserts.  Every failure
// (bad signature, wrong algorithm, expired, missing subject, unknown role)
// is reported as ErrInvalidCredential; the cause is wrapped for logging but
// never includes the token itself.
func (v *Verifier) Verify(raw string) (Identity, error) {
	// Absence is its own outcome, distinct from a bad credential.
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Anonymous(), ErrNoCredential
	}
	// Only HS256 is accepted; "none" and RS/ES algorithms fail here.
	var cl claims
	_, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return AnonymousBecause(ErrInvalidCredential), fmt.Errorf("%w: %v", ErrInvalidCredential, reason(err))
	}
	// The signature is good; the claims still have to make sense.
	if strings.TrimSpace(cl.Subject) == "" {
		return AnonymousBecause(ErrInvalidCredential), fmt.Errorf("%w: missing subject", ErrInvalidCredential)
	}
	role, err := ParseRole(cl.Role)
	if err != nil {
		return AnonymousBecause(ErrInvalidCredential), fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return NewIdentity(cl.Subject, role), nil
}

// Authenticate implements Authenticator.
func (v *Verifier) Authenticate(raw string) (Identity, error) { return v.Verify(raw) }

// Authenticator turns a raw credential into an Identity.  An empty raw
// value yields ErrNoCredential; anything unusable yields
// ErrInvalidCredential.
type Authenticator interface {
	Authenticate(raw string) (Identity, error)
}

var _ Authenticator = (*Verifier)(nil)

// reason reduces a jwt parse error to a short category so wrapped errors
// stay free of token material.
func reason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued), errors.Is(err, jwt.ErrTokenNotValidYet):
		return "not yet valid"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "missing claim"
	default:
		return "rejected"
	}
}
