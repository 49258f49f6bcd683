package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieSessionLifecycle(t *testing.T) {
	is, v := newPair(t, 240*time.Hour)
	tr, err := NewTransport("cookie", "token", false)
	require.NoError(t, err)
	s := NewSessions(is, tr)

	rec := httptest.NewRecorder()
	cred, err := s.Begin(rec, "alice", RoleUser)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, cred.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	id, err := v.Verify(tr.Extract(req))
	require.NoError(t, err)
	assert.Equal(t, "alice", id.SubjectID)
}

func TestEndSessionIsIdempotent(t *testing.T) {
	is, _ := newPair(t, time.Hour)
	tr, err := NewTransport("cookie", "token", true)
	require.NoError(t, err)
	s := NewSessions(is, tr)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		s.End(rec)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1, "call %d", i)
		assert.Equal(t, "token", cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Less(t, cookies[0].MaxAge, 0)
	}

	// Twice on the same response still only asks the client to drop it.
	rec := httptest.NewRecorder()
	s.End(rec)
	s.End(rec)
	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
	}
}

func TestHeaderTransport(t *testing.T) {
	tr, err := NewTransport("header", "", false)
	require.NoError(t, err)
	assert.True(t, tr.TokenInBody())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, tr.Extract(req))

	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", tr.Extract(req))

	req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	assert.Empty(t, tr.Extract(req))

	rec := httptest.NewRecorder()
	tr.Clear(rec)
	tr.Clear(rec)
	assert.Empty(t, rec.Result().Cookies())
}

func TestNewTransportUnknown(t *testing.T) {
	_, err := NewTransport("query", "", false)
	assert.Error(t, err)
}

func TestCookieExtractMissing(t *testing.T) {
	tr := CookieTransport{Name: "token"}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, tr.Extract(req))
}
