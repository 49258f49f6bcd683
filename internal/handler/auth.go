package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/httpx"
	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/queue"
	"github.com/iliyamo/storefront-api/internal/repository"
	"github.com/iliyamo/storefront-api/internal/utils"
	"github.com/iliyamo/storefront-api/internal/validation"
)

// AuthHandler bundles dependencies for the session and password endpoints.
type AuthHandler struct {
	Users      UserStore
	Sessions   *auth.Sessions
	Reset      *auth.ResetTokens
	ResetStore ResetMarker
	Mailer     ResetMailer
	BcryptCost int
	// ResetLinkBase is prefixed to "/<user>/<token>" in reset mail.
	ResetLinkBase string
	Logger        *slog.Logger
}

// ----- DTOs -----

type sessionResp struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token,omitempty"` // only for the header transport
	ExpiresAt time.Time   `json:"expires_at"`
}

type messageResp struct {
	Message string `json:"message"`
}

func (h *AuthHandler) begin(c echo.Context, status int, u *model.User) error {
	role, err := auth.ParseRole(u.Role)
	if err != nil {
		return httpx.Error(c, err)
	}
	cred, err := h.Sessions.Begin(c.Response(), u.Username, role)
	if err != nil {
		return httpx.Error(c, err)
	}
	resp := sessionResp{User: u, ExpiresAt: cred.ExpiresAt}
	if h.Sessions.Transport().TokenInBody() {
		resp.Token = cred.Token
	}
	return c.JSON(status, resp)
}

// Register creates a user account and begins a session.  New accounts are
// always plain users; admins are minted by an operator.
func (h *AuthHandler) Register(c echo.Context) error {
	var req validation.RegisterRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return httpx.Error(c, err)
	}
	u := &model.User{
		Username:     strings.TrimSpace(req.User),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         string(auth.RoleUser),
		CreatedAt:    time.Now().UTC(),
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Users.Create(ctx, u); err != nil {
		return httpx.Error(c, err)
	}
	h.Logger.InfoContext(ctx, "user registered", slog.String("user", u.Username))
	return h.begin(c, http.StatusCreated, u)
}

// Login checks email and password and begins a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req validation.LoginRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		utils.BurnCompare(req.Password, h.BcryptCost)
		return httpx.Unauthorized(c, "invalid email or password")
	}
	if err != nil {
		return httpx.Error(c, err)
	}
	if err := utils.CheckPassword(u.PasswordHash, req.Password); err != nil {
		h.Logger.InfoContext(ctx, "login failed", slog.String("user", u.Username))
		return httpx.Unauthorized(c, "invalid email or password")
	}
	return h.begin(c, http.StatusOK, u)
}

// Logout tells the client to discard its credential.  It needs no valid
// credential and may be repeated.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Sessions.End(c.Response())
	return c.NoContent(http.StatusNoContent)
}

// Me returns the account of the caller.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByUsername(ctx, caller(c).SubjectID)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// ForgotPassword mails a reset link when the email belongs to an account.
// Both paths do the same lookup and answer before any token is signed or
// mail is queued.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req validation.ForgotPasswordRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return httpx.Error(c, err)
	}
	if err == nil {
		// The response must not wait on signing or the broker.
		go h.sendResetMail(context.WithoutCancel(c.Request().Context()), *u)
	}
	return c.JSON(http.StatusAccepted, messageResp{Message: "if the email is registered, a reset link has been sent"})
}

// mailTimeout bounds signing and queueing one reset mail.
const mailTimeout = 10 * time.Second

func (h *AuthHandler) sendResetMail(ctx context.Context, u model.User) {
	ctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()

	token, exp, err := h.Reset.Issue(u.Username, u.PasswordHash)
	if err != nil {
		h.Logger.ErrorContext(ctx, "reset token not issued", slog.String("user", u.Username), slog.Any("error", err))
		return
	}
	ev := queue.PasswordResetRequestedEvent{
		User:        u.Username,
		Name:        u.Name,
		Email:       u.Email,
		Link:        strings.TrimRight(h.ResetLinkBase, "/") + "/" + url.PathEscape(u.Username) + "/" + token,
		ExpiresAt:   exp.Format(time.RFC3339),
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Mailer.PublishPasswordReset(ctx, ev); err != nil {
		h.Logger.WarnContext(ctx, "reset mail not queued", slog.String("user", u.Username), slog.Any("error", err))
	}
}

// ResetPassword sets a new password using the link from ForgotPassword.  A
// link works once and stops working when the password changes.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req validation.ResetPasswordRequest
	if msg := decode(c, &req); msg != "" {
		return httpx.BadRequest(c, msg)
	}
	username, token := c.Param("user"), c.Param("token")

	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return httpx.Unauthorized(c, "invalid or expired reset link")
	}
	if err != nil {
		return httpx.Error(c, err)
	}
	exp, err := h.Reset.Verify(token, u.Username, u.PasswordHash)
	if err != nil {
		return httpx.Unauthorized(c, "invalid or expired reset link")
	}
	switch err := h.ResetStore.MarkUsed(ctx, token, exp); {
	case errors.Is(err, repository.ErrTokenUsed):
		return httpx.Unauthorized(c, "invalid or expired reset link")
	case err != nil:
		h.Logger.WarnContext(ctx, "reset token not marked as used", slog.Any("error", err))
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err == nil {
		err = h.Users.UpdatePassword(ctx, u.Username, hash)
	}
	if err != nil {
		_ = h.ResetStore.Release(ctx, token)
		return httpx.Error(c, err)
	}
	h.Logger.InfoContext(ctx, "password reset", slog.String("user", u.Username))
	return c.JSON(http.StatusOK, messageResp{Message: "password updated"})
}
