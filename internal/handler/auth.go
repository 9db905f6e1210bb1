package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bazarnik/admin-gateway/internal/config"
	"github.com/bazarnik/admin-gateway/internal/identity"
	"github.com/bazarnik/admin-gateway/internal/middleware"
	"github.com/bazarnik/admin-gateway/internal/session"
)

// AuthHandler bundles dependencies for the login/logout endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Identity *identity.Client
	Sessions session.Store
	Log      *slog.Logger
}

func NewAuthHandler(cfg config.Config, id *identity.Client, st session.Store, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Identity: id, Sessions: st, Log: log}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Next     string `json:"next" form:"next"`
}

// LoginPage renders a bare login form.  The dashboard's real markup lives
// with the front-end; this page only has to exist so the guest route renders
// something and the form can round-trip the return-to parameter.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	loc := middleware.Locale(c)
	next := template.HTMLEscapeString(sanitizeNext(c.QueryParam("next")))
	page := `<!doctype html><html lang="` + loc + `"><body>
<form method="post" action="/` + loc + `/login">
  <input type="hidden" name="next" value="` + next + `">
  <label>Username <input name="username" autocomplete="username"></label>
  <label>Password <input name="password" type="password" autocomplete="current-password"></label>
  <button type="submit">Sign in</button>
</form>
</body></html>`
	return c.HTML(http.StatusOK, page)
}

// Login exchanges the submitted credential pair for a bearer token at the
// identity service, creates the server-side session and hands the browser a
// signed cookie.  No application-level timeout is layered over the identity
// client's transport timeout.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	u, err := h.Identity.Login(ctx, req.Username, req.Password)
	if err != nil {
		var ve *identity.ValidationError
		var ae *identity.AuthError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
		case errors.As(err, &ae):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": ae.Reason})
		case errors.Is(err, identity.ErrUnreachable):
			h.Log.Warn("identity service unreachable", "error", err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "identity service unavailable, try again"})
		case errors.Is(err, identity.ErrMalformedResponse):
			h.Log.Error("identity service returned malformed response", "error", err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to complete login"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	sid, err := session.NewID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	s := session.Session{Username: u.Username, Token: u.Token, TokenType: u.TokenType}
	if err := h.Sessions.Create(ctx, sid, s); err != nil {
		h.Log.Error("session create failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	signed, err := session.SignCookie(h.Cfg.SessionSecret, sid, h.Cfg.SessionTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(h.Cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})

	loc := middleware.Locale(c)
	target := sanitizeNext(req.Next)
	if target == "" {
		target = "/" + loc + "/app"
	}
	h.Log.Info("login succeeded", "username", u.Username, "locale", loc)
	return c.Redirect(http.StatusSeeOther, target)
}

// Logout destroys the server-side session and expires the cookie.  The
// locale preference cookie survives logout on purpose.
func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(session.CookieName); err == nil && ck.Value != "" {
		if sid, err := session.ParseCookie(h.Cfg.SessionSecret, ck.Value); err == nil {
			if err := h.Sessions.Delete(c.Request().Context(), sid); err != nil {
				// The cookie is expired below either way; the orphaned
				// entry ages out via its TTL.
				h.Log.Warn("session delete failed", "error", err)
			}
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/"+middleware.Locale(c)+"/login")
}

// Dashboard is the authenticated landing endpoint; it surfaces the session's
// identity to the dashboard shell.
func (h *AuthHandler) Dashboard(c echo.Context) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"username":   s.Username,
		"token_type": s.TokenType,
		"locale":     middleware.Locale(c),
	})
}

// sanitizeNext accepts only same-site relative paths as post-login targets.
// Anything else (absolute URLs, protocol-relative //host paths) is dropped.
func sanitizeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n") {
		return ""
	}
	return next
}
