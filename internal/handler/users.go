package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/httpx"
	"github.com/iliyamo/storefront-api/internal/utils"
	"github.com/iliyamo/storefront-api/internal/validation"
)

// UserHandler serves account endpoints.  Routes reach it only after the
// owner-or-admin check on :user has passed.
type UserHandler struct {
	Users      UserStore
	Sessions   *auth.Sessions
	BcryptCost int
	Logger     *slog.Logger
}

// List handles GET /api/users (admin).
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		return httpx.Error(c, err)
	}
	return list(c, users)
}

// Get handles GET /api/users/:user.
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByUsername(ctx, c.Param("user"))
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PUT /api/users/:user.  Only profile fields change; the
// role cannot be set through the API.
func (h *UserHandler) Update(c echo.Context) error {
	var req validation.UpdateUserRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	username := c.Param("user")

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Users.UpdateProfile(ctx, username, strings.TrimSpace(req.Name), req.Email, req.Phone); err != nil {
		return httpx.Error(c, err)
	}
	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// ChangePassword handles PUT /api/users/:user/password.  The current
// password is required even for admins.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req validation.ChangePasswordRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByUsername(ctx, c.Param("user"))
	if err != nil {
		return httpx.Error(c, err)
	}
	if err := utils.CheckPassword(u.PasswordHash, req.OldPassword); err != nil {
		return httpx.Unauthorized(c, "current password is incorrect")
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return httpx.Error(c, err)
	}
	if err := h.Users.UpdatePassword(ctx, u.Username, hash); err != nil {
		return httpx.Error(c, err)
	}
	h.Logger.InfoContext(ctx, "password changed", slog.String("user", u.Username), slog.String("by", caller(c).SubjectID))
	return c.JSON(http.StatusOK, messageResp{Message: "password updated"})
}

// Delete handles DELETE /api/users/:user.  Deleting one's own account also
// ends the session.
func (h *UserHandler) Delete(c echo.Context) error {
	username := c.Param("user")
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Users.Delete(ctx, username); err != nil {
		return httpx.Error(c, err)
	}
	if caller(c).SubjectID == username {
		h.Sessions.End(c.Response())
	}
	h.Logger.InfoContext(ctx, "user deleted", slog.String("user", username), slog.String("by", caller(c).SubjectID))
	return c.NoContent(http.StatusNoContent)
}
