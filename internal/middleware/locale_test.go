package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarnik/admin-gateway/internal/locale"
)

func newLocaleApp(t *testing.T) *echo.Echo {
	t.Helper()
	set, err := locale.NewSet([]string{"en", "fa"}, "en")
	require.NoError(t, err)

	e := echo.New()
	e.Pre(LocaleResolver(set))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/:locale/login", func(c echo.Context) error {
		return c.String(http.StatusOK, "login "+Locale(c))
	})
	return e
}

func prefCookie(v string) *http.Cookie {
	return &http.Cookie{Name: PrefCookieName, Value: v}
}

func savedPref(rec *httptest.ResponseRecorder) string {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == PrefCookieName {
			return ck.Value
		}
	}
	return ""
}

func TestLocaleResolverPrefixesDefaultWhenSegmentMissing(t *testing.T) {
	e := newLocaleApp(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/en/login", rec.Header().Get("Location"))
}

func TestLocaleResolverPersistsFirstSeenLocale(t *testing.T) {
	e := newLocaleApp(t)

	req := httptest.NewRequest(http.MethodGet, "/en/login", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "login en", rec.Body.String())
	assert.Equal(t, "en", savedPref(rec))
}

func TestLocaleResolverRedirectsOnStalePreference(t *testing.T) {
	e := newLocaleApp(t)

	req := httptest.NewRequest(http.MethodGet, "/en/login", nil)
	req.AddCookie(prefCookie("fa"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/fa/login", rec.Header().Get("Location"))

	// Following the redirect settles: no further redirect, no re-persist.
	req = httptest.NewRequest(http.MethodGet, "/fa/login", nil)
	req.AddCookie(prefCookie("fa"))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "login fa", rec.Body.String())
	assert.Empty(t, savedPref(rec))
}

func TestLocaleResolverPreservesQueryAcrossRedirect(t *testing.T) {
	e := newLocaleApp(t)

	req := httptest.NewRequest(http.MethodGet, "/login?next=%2Fen%2Fapp", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/en/login?next=%2Fen%2Fapp", rec.Header().Get("Location"))
}

func TestLocaleResolverPreservesMethodOnRedirect(t *testing.T) {
	e := newLocaleApp(t)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/en/login", rec.Header().Get("Location"))
}

func TestLocaleResolverSkipsHealthEndpoint(t *testing.T) {
	e := newLocaleApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestLocaleResolverIgnoresJunkPreference(t *testing.T) {
	e := newLocaleApp(t)

	req := httptest.NewRequest(http.MethodGet, "/fa/login", nil)
	req.AddCookie(prefCookie("zz"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "login fa", rec.Body.String())
	assert.Equal(t, "fa", savedPref(rec), "junk cookie is overwritten by the URL's locale")
}
