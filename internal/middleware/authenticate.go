// Package middleware holds the echo middleware that authenticates requests
// and enforces route policies.
package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/auth"
)

// identityKey is the echo context key holding the caller's auth.Identity.
const identityKey = "identity"

// Authenticate extracts the credential from transport, verifies it and
// attaches the resulting Identity to both the echo context and the request
// context.  It never rejects a request: a missing or bad credential yields
// an anonymous identity that remembers why, and the policy middleware or
// handler decides whether that matters.
func Authenticate(authn auth.Authenticator, transport auth.Transport) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			raw := transport.Extract(req)
			id, err := authn.Authenticate(raw)
			if err != nil {
				id = auth.AnonymousBecause(err)
				if raw != "" {
					slog.DebugContext(req.Context(), "credential rejected",
						slog.String("path", c.Path()), slog.Any("reason", err))
				}
			}
			c.Set(identityKey, id)
			c.SetRequest(req.WithContext(auth.WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}

// Identity returns the identity attached by Authenticate, or an anonymous
// identity when the middleware did not run.
func Identity(c echo.Context) auth.Identity {
	if id, ok := c.Get(identityKey).(auth.Identity); ok {
		return id
	}
	return auth.FromContext(c.Request().Context())
}
