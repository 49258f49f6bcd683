package repository // accounts keyed by username

import (
	"context"      // context carries request deadlines into queries
	"database/sql" // sql provides DB primitives
	"errors"       // errors matches sql.ErrNoRows and sentinels
	"strings"      // strings normalizes input before writes

	"github.com/iliyamo/storefront-api/internal/model" // domain structs returned to handlers
)

const userColumns = "`user`, name, email, password, phone, role, created_at"

// UserRepo reads and writes the 'users' table.  The username is the primary
// key and never changes once created.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*model.User, error) {
	var (
		u     model.User
		phone sql.NullString
	)
	if err := s.Scan(&u.Username, &u.Name, &u.Email, &u.PasswordHash, &phone, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	return &u, nil
}

// Create inserts u.  The email is normalized to lower case.  A clash on the
// username or email yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	// Lower-case the email so the unique key catches case variants.
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (`user`, name, email, password, phone, role) VALUES (?,?,?,?,?,?)",
		u.Username, u.Name, u.Email, u.PasswordHash, u.Phone, u.Role)
	if err != nil {
		return translate(err)
	}
	return nil
}

// GetByUsername fetches a user by primary key.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE `user` = ? LIMIT 1", username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// List returns every user ordered by username.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY `user`")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// UpdateProfile changes the mutable profile columns.  Role and password are
// never touched here.
func (r *UserRepo) UpdateProfile(ctx context.Context, username, name, email string, phone *string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, phone = ? WHERE `user` = ?",
		name, email, phone, username)
	if err != nil {
		return translate(err)
	}
	return affectedOrNotFound(res)
}

// UpdatePassword stores a new bcrypt hash for username.
func (r *UserRepo) UpdatePassword(ctx context.Context, username, hash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET password = ? WHERE `user` = ?", hash, username)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// Delete removes the account.  Owned rows that still reference it make the
// delete fail with ErrConflict.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE `user` = ?", username)
	if err != nil {
		return translate(err)
	}
	return affectedOrNotFound(res)
}

// affectedOrNotFound turns a zero-row UPDATE/DELETE into ErrNotFound.  The
// connection is opened with clientFoundRows so an UPDATE that matches a row
// without changing it still counts as one.
func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
