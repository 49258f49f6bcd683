// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors.
package repository

import (
	"errors" // errors defines the sentinels and unwraps driver errors

	"github.com/go-sql-driver/mysql" // MySQL driver error type for constraint codes
)

// ErrNotFound is returned when a row addressed by id does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique key
// (MySQL error 1062), e.g. registering a username or email twice.
var ErrDuplicate = errors.New("duplicate entry")

// ErrConflict is returned when a write cannot be performed because of
// dependent rows (MySQL errors 1451/1452), such as deleting a product that
// is still referenced by order items or adding an item for a missing
// product.
var ErrConflict = errors.New("conflict")

// translate maps MySQL constraint violations onto the sentinels above and
// passes every other error through.
func translate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case 1062:
		return ErrDuplicate
	case 1451, 1452:
		return ErrConflict
	}
	return err
}
