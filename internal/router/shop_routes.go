package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/middleware"
)

// RegisterCatalog registers products and reviews.  Reading is public.
func RegisterCatalog(api *echo.Group, d Deps) {
	admin := middleware.RequireAdmin(d.Guard)

	p := api.Group("/products")
	p.GET("", d.Products.List)
	p.GET("/:id", d.Products.Get)
	p.POST("", d.Products.Create, admin)
	p.PUT("/:id", d.Products.Update, admin)
	p.DELETE("/:id", d.Products.Delete, admin)

	owner := middleware.RequireOwnerOrAdmin(d.Guard, auth.ResourceReview, "id")
	r := api.Group("/reviews")
	r.GET("", d.Reviews.List)
	r.GET("/:id", d.Reviews.Get)
	r.GET("/product/:id", d.Reviews.ListByProduct)
	r.POST("", d.Reviews.Create, middleware.RequireAuthenticated(d.Guard))
	r.PUT("/:id", d.Reviews.Update, owner)
	r.DELETE("/:id", d.Reviews.Delete, owner)
}

// RegisterOrders registers orders and order items.  Order items resolve
// their owner through the parent order.
func RegisterOrders(api *echo.Group, d Deps) {
	admin := middleware.RequireAdmin(d.Guard)
	authed := middleware.RequireAuthenticated(d.Guard)
	userOwner := middleware.RequireOwnerOrAdmin(d.Guard, auth.ResourceUserAccount, "user")

	o := api.Group("/orders")
	orderOwner := middleware.RequireOwnerOrAdmin(d.Guard, auth.ResourceOrder, "id")
	o.GET("", d.Orders.List, admin)
	o.POST("", d.Orders.Create, authed)
	o.GET("/user/:user", d.Orders.ListByUser, userOwner)
	o.GET("/user/:user/full", d.Orders.FullByUser, userOwner)
	o.GET("/:id", d.Orders.Get, orderOwner)
	o.GET("/:id/full", d.Orders.Full, orderOwner)
	o.PUT("/:id", d.Orders.Update, admin)
	o.DELETE("/:id", d.Orders.Delete, admin)

	i := api.Group("/order-items")
	itemOwner := middleware.RequireOwnerOrAdmin(d.Guard, auth.ResourceOrderItem, "id")
	i.GET("", d.OrderItems.List, admin)
	i.POST("", d.OrderItems.Create, authed)
	i.GET("/user/:user", d.OrderItems.ListByUser, userOwner)
	i.GET("/:id", d.OrderItems.Get, itemOwner)
	i.PUT("/:id", d.OrderItems.Update, itemOwner)
	i.DELETE("/:id", d.OrderItems.Delete, itemOwner)
}

// RegisterCart registers cart entries.
func RegisterCart(api *echo.Group, d Deps) {
	owner := middleware.RequireOwnerOrAdmin(d.Guard, auth.ResourceCartEntry, "id")

	g := api.Group("/cart")
	g.GET("", d.Cart.List, middleware.RequireAdmin(d.Guard))
	g.POST("", d.Cart.Create, middleware.RequireAuthenticated(d.Guard))
	g.GET("/user/:user", d.Cart.ListByUser, middleware.RequireOwnerOrAdmin(d.Guard, auth.ResourceUserAccount, "user"))
	g.GET("/:id", d.Cart.Get, owner)
	g.PUT("/:id", d.Cart.Update, owner)
	g.DELETE("/:id", d.Cart.Delete, owner)
}
