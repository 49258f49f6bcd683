package repository // owner lookups for the authorization guard

import (
	"context"      // context carries request deadlines into queries
	"database/sql" // sql provides DB primitives
	"errors"       // errors matches sql.ErrNoRows and sentinels
	"fmt"          // fmt wraps storage errors with context
	"strconv"      // strconv parses numeric resource ids

	"github.com/iliyamo/storefront-api/internal/auth" // auth defines the resolver contract
)

// ownerQueries holds one single-column lookup per resource type.  Every
// query selects exactly the owning username for one id.  Order items carry
// no owner column, so their lookup walks order_items -> orders explicitly.
var ownerQueries = map[auth.ResourceType]string{
	auth.ResourceUserAccount: "SELECT `user` FROM users WHERE `user` = ?",
	auth.ResourceOrder:       "SELECT `user` FROM orders WHERE id = ?",
	auth.ResourceOrderItem:   "SELECT o.`user` FROM order_items oi JOIN orders o ON o.id = oi.order_id WHERE oi.id = ?",
	auth.ResourceCartEntry:   "SELECT `user` FROM cart WHERE id = ?",
	auth.ResourceReview:      "SELECT `user` FROM reviews WHERE id = ?",
}

// OwnershipRepo answers "who owns this resource" for the authorization
// guard.  It only reads and is safe for concurrent use.
type OwnershipRepo struct {
	db *sql.DB
}

func NewOwnershipRepo(db *sql.DB) *OwnershipRepo { return &OwnershipRepo{db: db} }

// ResolveOwner returns the username owning ref.  It returns auth.ErrNotFound
// when the row does not exist or the id cannot name a row at all.
func (r *OwnershipRepo) ResolveOwner(ctx context.Context, ref auth.ResourceRef) (string, error) {
	// Pick the lookup for this resource type; an unknown type is a wiring bug.
	q, ok := ownerQueries[ref.Type]
	if !ok {
		return "", fmt.Errorf("resolve owner: unknown resource type %q", ref.Type)
	}

	// Numeric ids that cannot name a row resolve to "not found" without
	// touching the database.
	var arg any = ref.ID
	if ref.Type != auth.ResourceUserAccount {
		id, err := strconv.ParseUint(ref.ID, 10, 64)
		if err != nil || id == 0 {
			return "", auth.ErrNotFound
		}
		arg = id
	} else if ref.ID == "" {
		return "", auth.ErrNotFound
	}

	// One query, one column: the owning username.
	var owner string
	if err := r.db.QueryRowContext(ctx, q, arg).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", auth.ErrNotFound
		}
		return "", fmt.Errorf("resolve owner of %s: %w", ref, err)
	}
	return owner, nil
}

var _ auth.OwnerResolver = (*OwnershipRepo)(nil)
