package middleware

import (
    "errors"
    "log/slog"
    "net/http"
    "net/url"

    "github.com/labstack/echo/v4"

    "github.com/bazarnik/admin-gateway/internal/session"
)

// sessionKey is the context key under which the guard stores the session.
const sessionKey = "session"

// Verdict is the outcome of a guard evaluation: either the request may
// render, or it must be redirected.  Guards produce verdicts as plain values
// and leave realizing the redirect to the Echo adapters below.
type Verdict struct {
    Allow      bool
    RedirectTo string
}

// CheckProtected decides whether a protected route may render.  s and err are
// the result of the session lookup.  Any failure — absent cookie, malformed
// cookie, missing session, empty token, or a lookup error — resolves to a
// redirect to the login route under the active locale, carrying the original
// destination.  A broken session store must never grant access, so lookup
// errors fail closed here.
func CheckProtected(s session.Session, err error, loc, returnTo string) Verdict {
    if err == nil && s.Present() {
        return Verdict{Allow: true}
    }
    target := "/" + loc + "/login"
    if returnTo != "" {
        target += "?next=" + url.QueryEscape(returnTo)
    }
    return Verdict{RedirectTo: target}
}

// CheckGuest decides whether a guest-only route (login, password reset) may
// render.  An established session is sent to the authenticated landing page.
// A lookup error falls through to the guest page: the login page is how
// sessions get re-established, so an auth-check outage must not block it.
// The second return value reports that degraded case so the caller can log it.
func CheckGuest(s session.Session, err error, loc string) (Verdict, bool) {
    if err != nil {
        if errors.Is(err, session.ErrLookup) {
            return Verdict{Allow: true}, true
        }
        return Verdict{Allow: true}, false
    }
    if s.Present() {
        return Verdict{RedirectTo: "/" + loc + "/app"}, false
    }
    return Verdict{Allow: true}, false
}

// resolveSession reads the signed session cookie and looks the session up in
// the store.  A missing or unverifiable cookie is reported as ErrNotFound,
// not as a lookup failure.
func resolveSession(c echo.Context, secret string, store session.Store) (session.Session, error) {
    ck, err := c.Cookie(session.CookieName)
    if err != nil || ck.Value == "" {
        return session.Session{}, session.ErrNotFound
    }
    sid, err := session.ParseCookie(secret, ck.Value)
    if err != nil {
        return session.Session{}, session.ErrNotFound
    }
    return store.Get(c.Request().Context(), sid)
}

// SessionGuard protects a route group by requiring a present session.  On
// pass, the session is stored in the context for handlers and the proxy.
func SessionGuard(secret string, store session.Store) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            s, err := resolveSession(c, secret, store)
            v := CheckProtected(s, err, Locale(c), c.Request().RequestURI)
            if !v.Allow {
                return c.Redirect(http.StatusFound, v.RedirectTo)
            }
            c.Set(sessionKey, s)
            return next(c)
        }
    }
}

// GuestGate keeps already-authenticated callers away from guest-only routes.
func GuestGate(secret string, store session.Store, log *slog.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            s, err := resolveSession(c, secret, store)
            v, degraded := CheckGuest(s, err, Locale(c))
            if degraded {
                log.Error("session lookup failed; serving guest page anyway",
                    "path", c.Request().URL.Path, "error", err)
            }
            if !v.Allow {
                return c.Redirect(http.StatusFound, v.RedirectTo)
            }
            return next(c)
        }
    }
}

// CurrentSession returns the session stored by SessionGuard.
func CurrentSession(c echo.Context) (session.Session, bool) {
    s, ok := c.Get(sessionKey).(session.Session)
    return s, ok
}
