package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/httpx"
)

// Require returns a middleware enforcing a policy that needs no resource
// reference.  Denials are written through the shared status table.
func Require(guard *auth.Guard, policy auth.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d, err := guard.Authorize(c.Request().Context(), Identity(c), policy, nil)
			if err != nil {
				return httpx.Error(c, err)
			}
			if !d.Allowed() {
				return httpx.Error(c, d.Err())
			}
			return next(c)
		}
	}
}

// RequireAuthenticated admits any verified user or admin.
func RequireAuthenticated(guard *auth.Guard) echo.MiddlewareFunc {
	return Require(guard, auth.PolicyAuthenticated)
}

// RequireAdmin admits admins only.
func RequireAdmin(guard *auth.Guard) echo.MiddlewareFunc {
	return Require(guard, auth.PolicyAdminOnly)
}

// RequireOwnerOrAdmin admits admins and the owner of the resource of type t
// whose id is the path parameter param.  The owner is resolved before the
// handler runs.
func RequireOwnerOrAdmin(guard *auth.Guard, t auth.ResourceType, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ref := auth.Ref(t, c.Param(param))
			d, err := guard.Authorize(c.Request().Context(), Identity(c), auth.PolicyOwnerOrAdmin, &ref)
			if err != nil {
				return httpx.Error(c, err)
			}
			if !d.Allowed() {
				return httpx.Error(c, d.Err())
			}
			return next(c)
		}
	}
}
