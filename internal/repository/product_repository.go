package repository // catalog persistence

import (
	"context"      // context carries request deadlines into queries
	"database/sql" // sql provides DB primitives
	"errors"       // errors matches sql.ErrNoRows and sentinels

	"github.com/iliyamo/storefront-api/internal/model" // domain structs returned to handlers
)

// ProductRepo encapsulates queries over the catalog.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = "id, name, description, price, stock, image_url"

func scanProduct(s rowScanner) (*model.Product, error) {
	var (
		p   model.Product
		img sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &img); err != nil {
		return nil, err
	}
	if img.Valid {
		p.ImageURL = &img.String
	}
	return &p, nil
}

// List returns the whole catalog ordered by id.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetByID returns ErrNotFound when no product has the id.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// Create inserts p and populates its ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO products (name, description, price, stock, image_url) VALUES (?, ?, ?, ?, ?)",
		p.Name, p.Description, p.Price, p.Stock, p.ImageURL)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Update overwrites every mutable column of p.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET name = ?, description = ?, price = ?, stock = ?, image_url = ? WHERE id = ?",
		p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.ID)
	if err != nil {
		return translate(err)
	}
	return affectedOrNotFound(res)
}

// Delete removes a product.  Products referenced by order items cannot be
// deleted and yield ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return translate(err)
	}
	return affectedOrNotFound(res)
}
