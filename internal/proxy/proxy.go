// Package proxy forwards authenticated dashboard traffic to the upstream
// store API.  The CRUD screens of the dashboard have no contract of their
// own: the gateway attaches the session's bearer token and passes the
// request and response through untouched.  In particular an upstream 401 is
// not intercepted — a token the identity service no longer honors is
// discovered lazily, and the client resolves it by logging in again.
package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bazarnik/admin-gateway/internal/middleware"
)

// StoreAPI proxies requests under /:locale/app/api/* to the store backend.
type StoreAPI struct {
	target *url.URL
	apiKey string
	rp     *httputil.ReverseProxy
}

func New(rawURL, apiKey string, log *slog.Logger) (*StoreAPI, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse store API URL: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("store API URL %q must be absolute", rawURL)
	}

	p := &StoreAPI{target: target, apiKey: apiKey}
	p.rp = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.Out.Host = target.Host
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error("store API unreachable", "path", r.URL.Path, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"store API unavailable"}`))
		},
	}
	return p, nil
}

// Handle rewrites the request path to the upstream's namespace, swaps the
// session cookie for the session's bearer token and forwards.
func (p *StoreAPI) Handle(c echo.Context) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := c.Request()
	req.URL.Path = "/" + c.Param("*")
	req.URL.RawPath = ""

	typ := s.TokenType
	if typ == "" || strings.EqualFold(typ, "bearer") {
		typ = "Bearer"
	}
	req.Header.Set("Authorization", typ+" "+s.Token)
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}
	// Gateway cookies are meaningless upstream and must not leak.
	req.Header.Del("Cookie")

	p.rp.ServeHTTP(c.Response(), req)
	return nil
}
