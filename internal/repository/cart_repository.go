package repository // cart entries and per-user cart views

import (
	"context"      // context carries request deadlines into queries
	"database/sql" // sql provides DB primitives
	"errors"       // errors matches sql.ErrNoRows and sentinels

	"github.com/iliyamo/storefront-api/internal/model" // domain structs returned to handlers
)

// CartRepo reads and writes the 'cart' table.
type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

func scanCartEntry(s rowScanner) (*model.CartEntry, error) {
	var e model.CartEntry
	if err := s.Scan(&e.ID, &e.User, &e.ProductID, &e.Quantity); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns every cart entry of every user.
func (r *CartRepo) List(ctx context.Context) ([]model.CartEntry, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, `user`, product_id, quantity FROM cart ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CartEntry
	for rows.Next() {
		e, err := scanCartEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// GetByID returns ErrNotFound when the entry does not exist.
func (r *CartRepo) GetByID(ctx context.Context, id uint64) (*model.CartEntry, error) {
	e, err := scanCartEntry(r.db.QueryRowContext(ctx,
		"SELECT id, `user`, product_id, quantity FROM cart WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// LinesByUser returns the cart of username joined with product data.
func (r *CartRepo) LinesByUser(ctx context.Context, username string) ([]model.CartLine, error) {
	const q = "SELECT c.id, u.name, p.id, p.name, c.quantity, p.price, (c.quantity * p.price) AS total_line_price " +
		"FROM cart c JOIN users u ON u.`user` = c.`user` JOIN products p ON p.id = c.product_id " +
		"WHERE c.`user` = ? ORDER BY c.id"
	rows, err := r.db.QueryContext(ctx, q, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.CartLine{}
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.CartID, &l.CustomerName, &l.ProductID, &l.ProductName, &l.Quantity, &l.Price, &l.LineTotal); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Create inserts e; e.User must be stamped by the caller.
func (r *CartRepo) Create(ctx context.Context, e *model.CartEntry) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO cart (`user`, product_id, quantity) VALUES (?, ?, ?)",
		e.User, e.ProductID, e.Quantity)
	if err != nil {
		return translate(err)
	}
	// Hand the generated id back to the handler for the 201 body.
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// Update changes product and quantity.  The owner never changes.
func (r *CartRepo) Update(ctx context.Context, e *model.CartEntry) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE cart SET product_id = ?, quantity = ? WHERE id = ?",
		e.ProductID, e.Quantity, e.ID)
	if err != nil {
		return translate(err)
	}
	return affectedOrNotFound(res)
}

func (r *CartRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cart WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
