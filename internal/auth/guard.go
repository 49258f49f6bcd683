package auth // the guard turns an identity and a policy into a decision

import (
	"context" // context bounds the ownership lookup
	"errors"  // errors matches resolver sentinels
	"fmt"     // fmt wraps storage failures with the resource reference
)

// Policy selects the rule a protected operation is checked against.
type Policy int

const (
	// PolicyPublic allows every caller, anonymous included.
	PolicyPublic Policy = iota
	// PolicyAuthenticated requires a verified user or admin.
	PolicyAuthenticated
	// PolicyAdminOnly requires the admin role.
	PolicyAdminOnly
	// PolicyOwnerOrAdmin requires the admin role or ownership of the
	// referenced resource.
	PolicyOwnerOrAdmin
)

func (p Policy) String() string {
	switch p {
	case PolicyPublic:
		return "public"
	case PolicyAuthenticated:
		return "authenticated"
	case PolicyAdminOnly:
		return "admin_only"
	case PolicyOwnerOrAdmin:
		return "owner_or_admin"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Decision is the outcome of one authorization check.
type Decision struct {
	reason error
}

// Allow is the permitting decision.
func Allow() Decision { return Decision{} }

// Deny is a refusing decision carrying one of ErrNoCredential,
// ErrInvalidCredential, ErrForbidden or ErrNotFound.
func Deny(reason error) Decision { return Decision{reason: reason} }

// Allowed reports whether the operation may proceed.
func (d Decision) Allowed() bool { return d.reason == nil }

// Err returns the denial reason, or nil when allowed.
func (d Decision) Err() error { return d.reason }

func (d Decision) String() string {
	if d.Allowed() {
		return "allow"
	}
	return "deny(" + d.reason.Error() + ")"
}

// ErrMissingRef is returned when PolicyOwnerOrAdmin is evaluated without a
// resource reference.  It is a programming error, not a denial.
var ErrMissingRef = errors.New("owner_or_admin policy requires a resource reference")

// Guard evaluates policies.  It holds no mutable state and is safe for
// concurrent use; the only blocking step is the resolver query.
type Guard struct {
	owners OwnerResolver
}

// NewGuard returns a Guard resolving ownership through owners.
func NewGuard(owners OwnerResolver) *Guard {
	return &Guard{owners: owners}
}

// Authorize decides whether id may perform an operation protected by policy.
// ref is only consulted for PolicyOwnerOrAdmin.  The returned error is
// reserved for failures that are not decisions (storage faults, a missing
// ref); callers surface it as a server error.
//
// For PolicyOwnerOrAdmin the resource is resolved before the identity is
// compared, so a missing resource is denied with ErrNotFound for users and
// admins alike.  Anonymous callers are turned away with their authentication
// failure before any lookup happens.
func (g *Guard) Authorize(ctx context.Context, id Identity, policy Policy, ref *ResourceRef) (Decision, error) {
	switch policy {
	case PolicyPublic:
		return Allow(), nil
	case PolicyAuthenticated:
		if !id.Authenticated() {
			return Deny(id.AuthError()), nil
		}
		return Allow(), nil
	case PolicyAdminOnly:
		if !id.Authenticated() {
			return Deny(id.AuthError()), nil
		}
		if !id.IsAdmin() {
			return Deny(ErrForbidden), nil
		}
		return Allow(), nil
	case PolicyOwnerOrAdmin:
		// A route wired without a reference is a bug, not a denial.
		if ref == nil {
			return Decision{}, ErrMissingRef
		}
		// Anonymous callers get their authentication failure and no lookup,
		// so they cannot learn which ids exist.
		if !id.Authenticated() {
			return Deny(id.AuthError()), nil
		}
		// Existence is settled before identity: missing is 404 for everyone.
		owner, err := g.owners.ResolveOwner(ctx, *ref)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Deny(ErrNotFound), nil
			}
			return Decision{}, fmt.Errorf("resolve owner of %s: %w", ref, err)
		}
		// Admins pass unconditionally; users only for their own resources.
		if id.IsAdmin() || id.SubjectID == owner {
			return Allow(), nil
		}
		return Deny(ErrForbidden), nil
	default:
		return Decision{}, fmt.Errorf("unknown policy %s", policy)
	}
}
