package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/httpx"
	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/validation"
)

// ProductHandler serves the catalog.  Reads are public, writes admin-only.
type ProductHandler struct {
	Products ProductStore
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	products, err := h.Products.List(ctx)
	if err != nil {
		return httpx.Error(c, err)
	}
	return list(c, products)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func productFrom(req validation.ProductRequest) *model.Product {
	return &model.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req validation.ProductRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	p := productFrom(req)
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Products.Create(ctx, p); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	var req validation.ProductRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	p := productFrom(req)
	p.ID = id
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Products.Update(ctx, p); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Products.Delete(ctx, id); err != nil {
		return httpx.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
