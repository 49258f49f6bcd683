package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/middleware"
)

// RegisterAuth registers the session and password reset routes.  Only /me
// needs a credential; the rest are public by nature.
func RegisterAuth(api *echo.Group, d Deps) {
	a := d.Auth
	g := api.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.RequireAuthenticated(d.Guard))

	p := api.Group("/password")
	p.POST("/forgot", a.ForgotPassword)
	p.POST("/reset/:user/:token", a.ResetPassword)
}

// RegisterUsers registers account management.  Listing is admin-only; a
// single account is reachable by its owner and by admins.
func RegisterUsers(api *echo.Group, d Deps) {
	u := d.Users
	owner := middleware.RequireOwnerOrAdmin(d.Guard, auth.ResourceUserAccount, "user")

	g := api.Group("/users")
	g.GET("", u.List, middleware.RequireAdmin(d.Guard))
	g.GET("/:user", u.Get, owner)
	g.PUT("/:user", u.Update, owner)
	g.DELETE("/:user", u.Delete, owner)
	g.PUT("/:user/password", u.ChangePassword, owner)
}
