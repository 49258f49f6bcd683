package auth // identity is the per-request view of the caller

import (
	"context" // context stores the identity for the lifetime of a request
	"errors"  // errors classifies authentication failures
)

// Kind classifies the caller of a single request.
type Kind int

const (
	KindAnonymous Kind = iota
	KindUser
	KindAdmin
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

// Identity is the resolved caller of one request.  It is built from a verified
// credential (or the lack of one) and dropped when the request ends.
type Identity struct {
	Kind      Kind
	SubjectID string // users.user; empty for anonymous callers
	Role      Role   // mirrors Kind; empty for anonymous callers

	// authErr records why an anonymous identity has no subject: either no
	// credential was presented or the presented one failed verification.
	authErr error
}

// Anonymous returns the identity of a caller that presented no credential.
func Anonymous() Identity {
	return Identity{Kind: KindAnonymous, authErr: ErrNoCredential}
}

// AnonymousBecause returns an anonymous identity remembering why
// authentication failed.  Only ErrNoCredential and ErrInvalidCredential are
// meaningful; anything else is recorded as ErrInvalidCredential.
func AnonymousBecause(err error) Identity {
	if !errors.Is(err, ErrNoCredential) {
		err = ErrInvalidCredential
	}
	return Identity{Kind: KindAnonymous, authErr: err}
}

// NewIdentity builds an authenticated identity for subject with role.  The
// Kind is Admin exactly when role is RoleAdmin.
func NewIdentity(subject string, role Role) Identity {
	kind := KindUser
	if role == RoleAdmin {
		kind = KindAdmin
	}
	return Identity{Kind: kind, SubjectID: subject, Role: role}
}

// Authenticated reports whether the identity carries a verified subject.
func (id Identity) Authenticated() bool {
	return id.Kind == KindUser || id.Kind == KindAdmin
}

// IsAdmin reports whether the identity has the admin role.
func (id Identity) IsAdmin() bool { return id.Kind == KindAdmin }

// AuthError returns the authentication failure for anonymous identities and
// nil for authenticated ones.
func (id Identity) AuthError() error {
	if id.Authenticated() {
		return nil
	}
	if id.authErr == nil {
		return ErrNoCredential
	}
	return id.authErr
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored in ctx, or an anonymous identity
// when none was attached.
func FromContext(ctx context.Context) Identity {
	// A request that bypassed Authenticate is treated as anonymous.
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return id
	}
	return Anonymous()
}
