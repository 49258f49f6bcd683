package repository // orders and the joined full-order views

import (
	"context"      // context carries request deadlines into queries
	"database/sql" // sql provides DB primitives
	"errors"       // errors matches sql.ErrNoRows and sentinels

	"github.com/iliyamo/storefront-api/internal/model" // domain structs returned to handlers
)

// OrderRepo reads and writes 'orders'.  Ownership is not checked here; the
// authorization guard resolves the owner before any call reaches the repo.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = "id, `user`, total, status, address, created_at"

func scanOrder(s rowScanner) (*model.Order, error) {
	var o model.Order
	if err := s.Scan(&o.ID, &o.User, &o.Total, &o.Status, &o.Address, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) collect(ctx context.Context, q string, args ...any) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// List returns every order, newest first.
func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	return r.collect(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY id DESC")
}

// ListByUser returns the orders placed by username, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, username string) ([]model.Order, error) {
	return r.collect(ctx, "SELECT "+orderColumns+" FROM orders WHERE `user` = ? ORDER BY id DESC", username)
}

// GetByID returns ErrNotFound when the order does not exist.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

// Create inserts o with status pending unless o.Status is set.  o.User must
// already be stamped with the owning username.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	if o.Status == "" {
		o.Status = model.OrderPending
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO orders (`user`, total, status, address) VALUES (?, ?, ?, ?)",
		o.User, o.Total, o.Status, o.Address)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// Update changes total, status and address.  The owner never changes.
func (r *OrderRepo) Update(ctx context.Context, o *model.Order) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET total = ?, status = ?, address = ? WHERE id = ?",
		o.Total, o.Status, o.Address, o.ID)
	if err != nil {
		return translate(err)
	}
	return affectedOrNotFound(res)
}

// Delete removes an order together with its items in one transaction.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// Rollback is a no-op once Commit has succeeded.
	defer tx.Rollback() //nolint:errcheck

	// Children first so the foreign key on order_items never blocks the delete.
	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = ?", id); err != nil {
		return translate(err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return translate(err)
	}
	// A missing order rolls back the (empty) item delete and reports 404.
	if err := affectedOrNotFound(res); err != nil {
		return err
	}
	return tx.Commit()
}

const orderLineSelect = `SELECT o.id, oi.id, o.status, o.address, u.name, p.id, p.name, oi.quantity, oi.price,
       (oi.quantity * oi.price) AS total_line_price
  FROM orders o
  JOIN users u ON u.` + "`user`" + ` = o.` + "`user`" + `
  JOIN order_items oi ON oi.order_id = o.id
  JOIN products p ON p.id = oi.product_id`

func (r *OrderRepo) lines(ctx context.Context, where string, arg any) ([]model.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, orderLineSelect+" WHERE "+where+" ORDER BY o.id, oi.id", arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.OrderLine{}
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.OrderID, &l.OrderItemID, &l.Status, &l.Address, &l.CustomerName,
			&l.ProductID, &l.ProductName, &l.Quantity, &l.Price, &l.LineTotal); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// FullOrder returns the joined item lines of one order.  An order without
// items yields an empty slice.
func (r *OrderRepo) FullOrder(ctx context.Context, id uint64) ([]model.OrderLine, error) {
	return r.lines(ctx, "o.id = ?", id)
}

// FullOrdersByUser returns the joined item lines of every order of username.
func (r *OrderRepo) FullOrdersByUser(ctx context.Context, username string) ([]model.OrderLine, error) {
	return r.lines(ctx, "o.`user` = ?", username)
}
