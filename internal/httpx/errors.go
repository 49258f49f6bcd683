// Package httpx holds the single table that turns errors into HTTP
// responses.  Middleware and handlers both go through it so a given failure
// always produces the same status and code.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/repository"
)

// Problem is the JSON body of every error response.
type Problem struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type mapping struct {
	target error
	status int
	code   string
	msg    string
}

// table is ordered; the first matching entry wins.
var table = []mapping{
	{auth.ErrNoCredential, http.StatusForbidden, "no_credential", "no credential provided"},
	{auth.ErrInvalidCredential, http.StatusUnauthorized, "invalid_credential", "invalid credential"},
	{auth.ErrForbidden, http.StatusForbidden, "forbidden", "you are not allowed to do that"},
	{auth.ErrNotFound, http.StatusNotFound, "not_found", "resource not found"},
	{repository.ErrNotFound, http.StatusNotFound, "not_found", "resource not found"},
	{repository.ErrDuplicate, http.StatusConflict, "conflict", "resource already exists"},
	{repository.ErrConflict, http.StatusConflict, "conflict", "operation conflicts with existing data"},
}

// Status returns the status code and stable code string for err.  Unknown
// errors map to 500/internal_error.
func Status(err error) (int, string) {
	for _, m := range table {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// Error writes the response for err.  Messages come from the table, never
// from err itself, so nothing from a credential or a query leaks out.
// Server errors are logged with the request id.
func Error(c echo.Context, err error) error {
	for _, m := range table {
		if errors.Is(err, m.target) {
			return c.JSON(m.status, Problem{Error: m.msg, Code: m.code})
		}
	}
	slog.Default().ErrorContext(c.Request().Context(), "request failed",
		slog.String("method", c.Request().Method),
		slog.String("path", c.Path()),
		slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		slog.Any("error", err),
	)
	return c.JSON(http.StatusInternalServerError, Problem{Error: "internal server error", Code: "internal_error"})
}

// BadRequest writes a 400 with a caller-facing message, typically the first
// validation error.
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, Problem{Error: msg, Code: "bad_request"})
}

// Unauthorized writes a 401 for failed logins and bad passwords.  It uses
// the invalid_credential code.
func Unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, Problem{Error: msg, Code: "invalid_credential"})
}

// HTTPErrorHandler routes errors returned from handlers (and echo's own
// 404/405 errors) through the same table.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		_ = c.JSON(he.Code, Problem{Error: msg, Code: codeFor(he.Code)})
		return
	}
	_ = Error(c, err)
}

func codeFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	case http.StatusUnauthorized:
		return "invalid_credential"
	case http.StatusForbidden:
		return "forbidden"
	default:
		return "bad_request"
	}
}
