package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/httpx"
	"github.com/iliyamo/storefront-api/internal/middleware"
)

// dbTimeout bounds every storage call made by a handler.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// decode binds the JSON body into dst and validates it.  It returns the
// message for a 400 response, or "" when dst is usable.
func decode(c echo.Context, dst any) string {
	if err := c.Bind(dst); err != nil {
		return "invalid request body"
	}
	if err := c.Validate(dst); err != nil {
		return err.Error()
	}
	return ""
}

// idParam parses a numeric path parameter.  ok is false when the response
// has already been written.
func idParam(c echo.Context, name string) (id uint64, ok bool, err error) {
	id, perr := strconv.ParseUint(c.Param(name), 10, 64)
	if perr != nil || id == 0 {
		return 0, false, httpx.BadRequest(c, "invalid "+name)
	}
	return id, true, nil
}

// caller returns the identity attached by the authenticate middleware.
func caller(c echo.Context) auth.Identity { return middleware.Identity(c) }

// authorizeOwner runs the owner-or-admin check for a reference taken from
// the request body rather than the path.  ok is false when the denial has
// already been written.
func authorizeOwner(c echo.Context, g *auth.Guard, ref auth.ResourceRef) (ok bool, err error) {
	d, aerr := g.Authorize(c.Request().Context(), caller(c), auth.PolicyOwnerOrAdmin, &ref)
	if aerr != nil {
		return false, httpx.Error(c, aerr)
	}
	if !d.Allowed() {
		return false, httpx.Error(c, d.Err())
	}
	return true, nil
}

// list writes items as a JSON array, never null.
func list[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, items)
}

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
