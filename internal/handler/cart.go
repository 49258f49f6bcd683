package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/httpx"
	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/validation"
)

// CartHandler serves cart entries.
type CartHandler struct {
	Cart CartStore
}

func (h *CartHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	entries, err := h.Cart.List(ctx)
	if err != nil {
		return httpx.Error(c, err)
	}
	return list(c, entries)
}

func (h *CartHandler) Get(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	e, err := h.Cart.GetByID(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// ListByUser returns one user's cart with product names and line totals.
func (h *CartHandler) ListByUser(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	lines, err := h.Cart.LinesByUser(ctx, c.Param("user"))
	if err != nil {
		return httpx.Error(c, err)
	}
	return list(c, lines)
}

// Create puts a product in the caller's cart.
func (h *CartHandler) Create(c echo.Context) error {
	var req validation.CartRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	e := &model.CartEntry{User: caller(c).SubjectID, ProductID: req.ProductID, Quantity: req.Quantity}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Cart.Create(ctx, e); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *CartHandler) Update(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	var req validation.CartRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	e, err := h.Cart.GetByID(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	e.ProductID, e.Quantity = req.ProductID, req.Quantity
	if err := h.Cart.Update(ctx, e); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *CartHandler) Delete(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Cart.Delete(ctx, id); err != nil {
		return httpx.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
