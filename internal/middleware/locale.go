package middleware // middleware provides shared request processing for handlers

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/bazarnik/admin-gateway/internal/locale"
)

// PrefCookieName is the cookie holding the visitor's saved locale preference.
const PrefCookieName = "lang"

// localeKey is the context key under which the resolved locale is stored.
const localeKey = "locale"

// LocaleResolver returns a middleware that canonicalizes the locale segment
// of every request URL before routing.  It must be registered with e.Pre so
// that redirects fire even for paths that match no route.  Resolution always
// completes before any guard runs: guards read the locale from the context,
// never from the raw URL.
func LocaleResolver(set *locale.Set) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            path := c.Request().URL.Path

            // Operational endpoints live outside the localized URL space.
            if path == "/healthz" {
                c.Set(localeKey, set.Default())
                return next(c)
            }

            pref := ""
            if ck, err := c.Cookie(PrefCookieName); err == nil {
                pref = ck.Value
            }

            d := locale.Resolve(set, path, pref)
            c.Set(localeKey, d.Locale)

            if d.RedirectTo != "" {
                target := d.RedirectTo
                if q := c.Request().URL.RawQuery; q != "" {
                    target += "?" + q
                }
                // Preserve the method for non-GET requests.
                code := http.StatusFound
                m := c.Request().Method
                if m != http.MethodGet && m != http.MethodHead {
                    code = http.StatusTemporaryRedirect
                }
                return c.Redirect(code, target)
            }

            if d.Persist {
                c.SetCookie(&http.Cookie{
                    Name:     PrefCookieName,
                    Value:    d.Locale,
                    Path:     "/",
                    MaxAge:   365 * 24 * 3600,
                    SameSite: http.SameSiteLaxMode,
                })
            }
            return next(c)
        }
    }
}

// Locale returns the locale resolved for this request.  It is only empty
// when the LocaleResolver middleware was not registered.
func Locale(c echo.Context) string {
    if v, ok := c.Get(localeKey).(string); ok {
        return v
    }
    // Fall back to the route parameter; it has passed resolution whenever
    // the resolver ran, and tests may exercise handlers without it.
    return strings.ToLower(c.Param("locale"))
}
