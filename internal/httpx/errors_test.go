package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront-api/internal/auth"
	"github.com/iliyamo/storefront-api/internal/repository"
)

func TestStatusTable(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{auth.ErrNoCredential, http.StatusForbidden, "no_credential"},
		{auth.ErrInvalidCredential, http.StatusUnauthorized, "invalid_credential"},
		{fmt.Errorf("%w: expired", auth.ErrInvalidCredential), http.StatusUnauthorized, "invalid_credential"},
		{auth.ErrForbidden, http.StatusForbidden, "forbidden"},
		{auth.ErrNotFound, http.StatusNotFound, "not_found"},
		{repository.ErrNotFound, http.StatusNotFound, "not_found"},
		{repository.ErrDuplicate, http.StatusConflict, "conflict"},
		{errors.New("dial tcp: refused"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		status, code := Status(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestErrorDoesNotLeakCause(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Error(c, errors.New("Error 1045: Access denied for user 'shop'@'10.0.0.4'")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "1045")

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, Error(c, fmt.Errorf("%w: bad signature on eyJhbGciOi", auth.ErrInvalidCredential)))
	var p Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "invalid_credential", p.Code)
	assert.NotContains(t, rec.Body.String(), "eyJ")
}

func TestHTTPErrorHandlerRouteNotFound(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var p Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "not_found", p.Code)
}
