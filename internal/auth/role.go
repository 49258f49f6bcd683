package auth // roles are the closed enum carried in the role claim

import (
	"errors"  // errors defines ErrUnknownRole
	"fmt"     // fmt wraps the offending value into the error
	"strings" // strings trims claim values before matching
)

// Role is the closed set of roles a credential may carry.  Every role
// comparison in the code base goes through this type; raw claim strings are
// converted with ParseRole and rejected when unknown.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ErrUnknownRole is returned by ParseRole and by the issuer when a role is
// outside the canonical set.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole converts a stored or decoded role string into a Role.  Matching is
// exact after trimming whitespace; "Admin" or "admine" are not admins.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Valid reports whether r is one of the canonical roles.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

func (r Role) String() string { return string(r) }
