package handler

import (
	"context"
	"time"

	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/queue"
)

// The interfaces below are the slices of the repositories each handler
// needs.  The repository package satisfies all of them.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, username, name, email string, phone *string) error
	UpdatePassword(ctx context.Context, username, hash string) error
	Delete(ctx context.Context, username string) error
}

type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id uint64) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint64) error
}

type OrderStore interface {
	List(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, username string) ([]model.Order, error)
	GetByID(ctx context.Context, id uint64) (*model.Order, error)
	Create(ctx context.Context, o *model.Order) error
	Update(ctx context.Context, o *model.Order) error
	Delete(ctx context.Context, id uint64) error
	FullOrder(ctx context.Context, id uint64) ([]model.OrderLine, error)
	FullOrdersByUser(ctx context.Context, username string) ([]model.OrderLine, error)
}

type OrderItemStore interface {
	List(ctx context.Context) ([]model.OrderItem, error)
	GetByID(ctx context.Context, id uint64) (*model.OrderItem, error)
	ListByUser(ctx context.Context, username string) ([]model.OrderLine, error)
	Create(ctx context.Context, it *model.OrderItem) error
	Update(ctx context.Context, it *model.OrderItem) error
	Delete(ctx context.Context, id uint64) error
}

type CartStore interface {
	List(ctx context.Context) ([]model.CartEntry, error)
	GetByID(ctx context.Context, id uint64) (*model.CartEntry, error)
	LinesByUser(ctx context.Context, username string) ([]model.CartLine, error)
	Create(ctx context.Context, e *model.CartEntry) error
	Update(ctx context.Context, e *model.CartEntry) error
	Delete(ctx context.Context, id uint64) error
}

type ReviewStore interface {
	List(ctx context.Context) ([]model.Review, error)
	ListByProduct(ctx context.Context, productID uint64) ([]model.Review, error)
	GetByID(ctx context.Context, id uint64) (*model.Review, error)
	Create(ctx context.Context, rv *model.Review) error
	Update(ctx context.Context, rv *model.Review) error
	Delete(ctx context.Context, id uint64) error
}

// ResetMarker makes password reset tokens single-use.
type ResetMarker interface {
	MarkUsed(ctx context.Context, raw string, expiresAt time.Time) error
	Release(ctx context.Context, raw string) error
}

// ResetMailer hands a reset link to the mail pipeline.
type ResetMailer interface {
	PublishPasswordReset(ctx context.Context, ev queue.PasswordResetRequestedEvent) error
}
