package model

import "time"

// User represents an account record as stored in the `users` table.
// The username in the `user` column is the stable subject identifier
// carried by credentials and stamped on every owned row.
//
// Fields:
//
//	Username     – primary key; the subject id.
//	Name         – display name.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password, never serialized.
//	Phone        – optional phone number.
//	Role         – "user" or "admin".
//	CreatedAt    – timestamp of creation.
type User struct {
	Username     string    `json:"user"`       // users.user
	Name         string    `json:"name"`       // users.name
	Email        string    `json:"email"`      // users.email
	PasswordHash string    `json:"-"`          // users.password
	Phone        *string   `json:"phone"`      // users.phone (nullable)
	Role         string    `json:"role"`       // users.role
	CreatedAt    time.Time `json:"created_at"` // users.created_at
}
