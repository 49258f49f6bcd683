package auth // transports carry credentials between client and server

import (
	"fmt"      // fmt reports unknown transport names
	"net/http" // net/http provides cookies, headers and response writers
	"strings"  // strings normalizes header values
	"time"     // time derives cookie max-age from credential expiry
)

// Transport moves credentials between the server and the client.  One
// transport is chosen at startup and used for every route.
type Transport interface {
	// Extract returns the raw credential carried by r, or "" when absent.
	Extract(r *http.Request) string
	// Attach hands cred to the client on w.
	Attach(w http.ResponseWriter, cred Credential)
	// Clear instructs the client to discard any held credential.  Calling it
	// more than once is harmless.
	Clear(w http.ResponseWriter)
	// TokenInBody reports whether handlers must echo the token in the
	// response body because Attach cannot deliver it.
	TokenInBody() bool
}

const (
	TransportCookie = "cookie"
	TransportHeader = "header"
)

// NewTransport returns the transport named kind ("cookie" or "header").
func NewTransport(kind, cookieName string, secure bool) (Transport, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case TransportCookie, "":
		if cookieName == "" {
			cookieName = "token"
		}
		return CookieTransport{Name: cookieName, Secure: secure}, nil
	case TransportHeader:
		return HeaderTransport{}, nil
	default:
		return nil, fmt.Errorf("unknown auth transport %q", kind)
	}
}

// CookieTransport keeps the credential in an HttpOnly cookie.
type CookieTransport struct {
	Name   string
	Secure bool
}

func (t CookieTransport) Extract(r *http.Request) string {
	c, err := r.Cookie(t.Name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

func (t CookieTransport) Attach(w http.ResponseWriter, cred Credential) {
	// The cookie lives exactly as long as the credential inside it.
	maxAge := int(time.Until(cred.ExpiresAt) / time.Second)
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     t.Name,
		Value:    cred.Token,
		Path:     "/",
		Expires:  cred.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (t CookieTransport) Clear(w http.ResponseWriter) {
	// Overwrite with an expired, empty cookie; browsers drop it at once.
	http.SetCookie(w, &http.Cookie{
		Name:     t.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (CookieTransport) TokenInBody() bool { return false }

// HeaderTransport reads "Authorization: Bearer <token>".  The client stores
// the token itself, so Attach and Clear have nothing to write.
type HeaderTransport struct{}

func (HeaderTransport) Extract(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func (HeaderTransport) Attach(http.ResponseWriter, Credential) {}

func (HeaderTransport) Clear(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

func (HeaderTransport) TokenInBody() bool { return true }
