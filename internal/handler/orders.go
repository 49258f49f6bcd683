package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/httpx"
	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/validation"
)

// OrderHandler serves orders.  Reads of one order or one user's orders are
// owner-or-admin; listing everything and changing status are admin-only.
type OrderHandler struct {
	Orders OrderStore
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	orders, err := h.Orders.List(ctx)
	if err != nil {
		return httpx.Error(c, err)
	}
	return list(c, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	o, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// Full returns the order with its item lines, product names and line
// totals.
func (h *OrderHandler) Full(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	o, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	lines, err := h.Orders.FullOrder(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	if lines == nil {
		lines = []model.OrderLine{}
	}
	return c.JSON(http.StatusOK, echo.Map{"order": o, "items": lines})
}

func (h *OrderHandler) ListByUser(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	orders, err := h.Orders.ListByUser(ctx, c.Param("user"))
	if err != nil {
		return httpx.Error(c, err)
	}
	return list(c, orders)
}

func (h *OrderHandler) FullByUser(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	lines, err := h.Orders.FullOrdersByUser(ctx, c.Param("user"))
	if err != nil {
		return httpx.Error(c, err)
	}
	return list(c, lines)
}

// Create places an order owned by the caller.  An admin may name another
// user in the body to order on their behalf; for everyone else the field
// is ignored.
func (h *OrderHandler) Create(c echo.Context) error {
	var req validation.OrderRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	id := caller(c)
	owner := id.SubjectID
	if on := strings.TrimSpace(req.User); on != "" && id.IsAdmin() {
		owner = on
	}
	o := &model.Order{User: owner, Total: req.Total, Address: strings.TrimSpace(req.Address)}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Orders.Create(ctx, o); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// Update changes total, status and address (admin).
func (h *OrderHandler) Update(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	var req validation.UpdateOrderRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	o, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	o.Total, o.Status, o.Address = req.Total, req.Status, strings.TrimSpace(req.Address)
	if err := h.Orders.Update(ctx, o); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Delete(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Orders.Delete(ctx, id); err != nil {
		return httpx.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
