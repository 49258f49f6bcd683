package auth // ownership facts: which subject owns which resource

import (
	"context" // context carries deadlines into resolver queries
	"fmt"     // fmt renders references for logs and errors
)

// ResourceType names a kind of mutable resource that has exactly one owning
// subject.
type ResourceType string

const (
	ResourceUserAccount ResourceType = "user"       // owned by itself (users.user)
	ResourceOrder       ResourceType = "order"      // orders.user
	ResourceOrderItem   ResourceType = "order_item" // order_items.order_id -> orders.user
	ResourceCartEntry   ResourceType = "cart"       // cart.user
	ResourceReview      ResourceType = "review"     // reviews.user
)

// ResourceRef points at one resource instance.  ID is the raw identifier as
// it appears in the request (a username for user accounts, a numeric id for
// everything else).
type ResourceRef struct {
	Type ResourceType
	ID   string
}

// Ref is a shorthand constructor for ResourceRef.
func Ref(t ResourceType, id string) ResourceRef { return ResourceRef{Type: t, ID: id} }

func (r ResourceRef) String() string { return fmt.Sprintf("%s/%s", r.Type, r.ID) }

// OwnerResolver maps a resource reference to the subject that owns it.
// Implementations return ErrNotFound when the reference does not resolve and
// pass storage failures through unchanged.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, ref ResourceRef) (string, error)
}

// OwnerResolverFunc adapts a function to OwnerResolver.
type OwnerResolverFunc func(ctx context.Context, ref ResourceRef) (string, error)

// ResolveOwner calls f.
func (f OwnerResolverFunc) ResolveOwner(ctx context.Context, ref ResourceRef) (string, error) {
	return f(ctx, ref)
}
