package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/httpx"
	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/validation"
)

// OrderItemHandler serves order items.  An item belongs to whoever owns its
// order, so writes that name an order in the body are checked against that
// order here; the route middleware only sees the path.
type OrderItemHandler struct {
	Items OrderItemStore
	Guard *auth.Guard
}

func orderRef(id uint64) auth.ResourceRef {
	return auth.Ref(auth.ResourceOrder, strconv.FormatUint(id, 10))
}

func (h *OrderItemHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	items, err := h.Items.List(ctx)
	if err != nil {
		return httpx.Error(c, err)
	}
	return list(c, items)
}

func (h *OrderItemHandler) Get(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	it, err := h.Items.GetByID(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

func (h *OrderItemHandler) ListByUser(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	lines, err := h.Items.ListByUser(ctx, c.Param("user"))
	if err != nil {
		return httpx.Error(c, err)
	}
	return list(c, lines)
}

// Create adds an item to an order the caller owns (or any order, for
// admins).
func (h *OrderItemHandler) Create(c echo.Context) error {
	var req validation.OrderItemRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	if ok, err := authorizeOwner(c, h.Guard, orderRef(req.OrderID)); !ok {
		return err
	}
	it := &model.OrderItem{OrderID: req.OrderID, ProductID: req.ProductID, Quantity: req.Quantity, Price: req.Price}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Items.Create(ctx, it); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusCreated, it)
}

// Update rewrites an item.  Moving it to another order also requires
// ownership of the target order.
func (h *OrderItemHandler) Update(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	var req validation.OrderItemRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	cur, err := h.Items.GetByID(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	if req.OrderID != cur.OrderID {
		if ok, err := authorizeOwner(c, h.Guard, orderRef(req.OrderID)); !ok {
			return err
		}
	}
	it := &model.OrderItem{ID: id, OrderID: req.OrderID, ProductID: req.ProductID, Quantity: req.Quantity, Price: req.Price}
	if err := h.Items.Update(ctx, it); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

func (h *OrderItemHandler) Delete(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Items.Delete(ctx, id); err != nil {
		return httpx.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
