package repository // product reviews

import (
	"context"      // context carries request deadlines into queries
	"database/sql" // sql provides DB primitives
	"errors"       // errors matches sql.ErrNoRows and sentinels

	"github.com/iliyamo/storefront-api/internal/model" // domain structs returned to handlers
)

// ReviewRepo reads and writes 'reviews'.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewColumns = "id, product_id, `user`, rating, comment, created_at"

func scanReview(s rowScanner) (*model.Review, error) {
	var rv model.Review
	if err := s.Scan(&rv.ID, &rv.ProductID, &rv.User, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepo) collect(ctx context.Context, q string, args ...any) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

func (r *ReviewRepo) List(ctx context.Context) ([]model.Review, error) {
	return r.collect(ctx, "SELECT "+reviewColumns+" FROM reviews ORDER BY id")
}

// ListByProduct returns the reviews of one product, newest first.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID uint64) ([]model.Review, error) {
	return r.collect(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE product_id = ? ORDER BY id DESC", productID)
}

// GetByID returns ErrNotFound when the review does not exist.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rv, err
}

// Create inserts rv; rv.User must be stamped by the caller.  Reviews of a
// missing product yield ErrConflict.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (product_id, `user`, rating, comment) VALUES (?, ?, ?, ?)",
		rv.ProductID, rv.User, rv.Rating, rv.Comment)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// Update changes rating and comment.
func (r *ReviewRepo) Update(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET rating = ?, comment = ? WHERE id = ?", rv.Rating, rv.Comment, rv.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}
