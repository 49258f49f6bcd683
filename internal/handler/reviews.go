package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/httpx"
	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/validation"
)

// ReviewHandler serves product reviews.  Anyone may read them.
type ReviewHandler struct {
	Reviews ReviewStore
}

func (h *ReviewHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	reviews, err := h.Reviews.List(ctx)
	if err != nil {
		return httpx.Error(c, err)
	}
	return list(c, reviews)
}

func (h *ReviewHandler) Get(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	rv, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, rv)
}

func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	reviews, err := h.Reviews.ListByProduct(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	return list(c, reviews)
}

// Create posts a review authored by the caller.
func (h *ReviewHandler) Create(c echo.Context) error {
	var req validation.ReviewRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	rv := &model.Review{
		ProductID: req.ProductID,
		User:      caller(c).SubjectID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: time.Now().UTC(),
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Reviews.Create(ctx, rv); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusCreated, rv)
}

func (h *ReviewHandler) Update(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	var req validation.UpdateReviewRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	rv, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	rv.Rating, rv.Comment = req.Rating, strings.TrimSpace(req.Comment)
	if err := h.Reviews.Update(ctx, rv); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, rv)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Reviews.Delete(ctx, id); err != nil {
		return httpx.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
