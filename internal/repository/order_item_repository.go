package repository // order lines, owned through their order

import (
	"context"      // context carries request deadlines into queries
	"database/sql" // sql provides DB primitives
	"errors"       // errors matches sql.ErrNoRows and sentinels

	"github.com/iliyamo/storefront-api/internal/model" // domain structs returned to handlers
)

// OrderItemRepo reads and writes 'order_items'.
type OrderItemRepo struct {
	db *sql.DB
}

func NewOrderItemRepo(db *sql.DB) *OrderItemRepo { return &OrderItemRepo{db: db} }

const orderItemColumns = "id, order_id, product_id, quantity, price"

func scanOrderItem(s rowScanner) (*model.OrderItem, error) {
	var it model.OrderItem
	if err := s.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
		return nil, err
	}
	return &it, nil
}

// List returns every order item.
func (r *OrderItemRepo) List(ctx context.Context) ([]model.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+orderItemColumns+" FROM order_items ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.OrderItem
	for rows.Next() {
		it, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

// GetByID returns ErrNotFound when the item does not exist.
func (r *OrderItemRepo) GetByID(ctx context.Context, id uint64) (*model.OrderItem, error) {
	it, err := scanOrderItem(r.db.QueryRowContext(ctx, "SELECT "+orderItemColumns+" FROM order_items WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return it, err
}

// ListByUser returns the item lines of every order placed by username.
func (r *OrderItemRepo) ListByUser(ctx context.Context, username string) ([]model.OrderLine, error) {
	return (&OrderRepo{db: r.db}).FullOrdersByUser(ctx, username)
}

// Create inserts it.  A missing order or product yields ErrConflict.
func (r *OrderItemRepo) Create(ctx context.Context, it *model.OrderItem) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO order_items (order_id, product_id, quantity, price) VALUES (?, ?, ?, ?)",
		it.OrderID, it.ProductID, it.Quantity, it.Price)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

// Update overwrites the item, possibly moving it to another order.
func (r *OrderItemRepo) Update(ctx context.Context, it *model.OrderItem) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE order_items SET order_id = ?, product_id = ?, quantity = ?, price = ? WHERE id = ?",
		it.OrderID, it.ProductID, it.Quantity, it.Price, it.ID)
	if err != nil {
		return translate(err)
	}
	return affectedOrNotFound(res)
}

func (r *OrderItemRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM order_items WHERE id = ?", id)
	if err != nil {
		return translate(err)
	}
	return affectedOrNotFound(res)
}
