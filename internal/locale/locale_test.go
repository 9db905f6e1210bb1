package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSet(t *testing.T) *Set {
	t.Helper()
	s, err := NewSet([]string{"en", "fa"}, "en")
	require.NoError(t, err)
	return s
}

func TestNewSetRejectsDefaultOutsideSet(t *testing.T) {
	_, err := NewSet([]string{"en", "fa"}, "de")
	assert.Error(t, err)

	_, err = NewSet(nil, "en")
	assert.Error(t, err)
}

func TestResolveUnsupportedCodesNeverPropagate(t *testing.T) {
	s := newTestSet(t)

	// Neither an unsupported path segment nor an unsupported preference may
	// ever become the resolved locale.
	for _, l := range []string{"xx", "de", "EN-us", "zz"} {
		d := Resolve(s, "/"+l+"/products", "")
		assert.Equal(t, "en", d.Locale, "segment %q", l)
		assert.NotEqual(t, l, d.Locale)

		d = Resolve(s, "/en/products", l)
		assert.Equal(t, "en", d.Locale, "preference %q", l)
	}
}

func TestResolveMissingSegmentRedirectsToDefault(t *testing.T) {
	s := newTestSet(t)

	d := Resolve(s, "/login", "")
	assert.Equal(t, "/en/login", d.RedirectTo)
	assert.Equal(t, "en", d.Locale)

	d = Resolve(s, "/", "")
	assert.Equal(t, "/en", d.RedirectTo)
}

func TestResolveStalePreferenceRedirects(t *testing.T) {
	s := newTestSet(t)

	d := Resolve(s, "/en/products", "fa")
	assert.Equal(t, "/fa/products", d.RedirectTo)
	assert.Equal(t, "fa", d.Locale)
	assert.False(t, d.Persist)

	// Resolving the redirect target again is a no-op.
	d = Resolve(s, d.RedirectTo, "fa")
	assert.Empty(t, d.RedirectTo)
	assert.Equal(t, "fa", d.Locale)
	assert.False(t, d.Persist)
}

func TestResolveAdoptsSegmentWhenNoPreference(t *testing.T) {
	s := newTestSet(t)

	d := Resolve(s, "/fa/brands", "")
	assert.Empty(t, d.RedirectTo)
	assert.Equal(t, "fa", d.Locale)
	assert.True(t, d.Persist)
}

func TestResolveUnsupportedPreferenceIsOverwritten(t *testing.T) {
	s := newTestSet(t)

	// A junk cookie value behaves like no preference at all: the current
	// segment wins and replaces it.
	d := Resolve(s, "/fa/discounts", "zz")
	assert.Empty(t, d.RedirectTo)
	assert.Equal(t, "fa", d.Locale)
	assert.True(t, d.Persist)
}

func TestResolveCanonicalURLIsIdempotent(t *testing.T) {
	s := newTestSet(t)

	d := Resolve(s, "/en/invoices", "en")
	assert.Empty(t, d.RedirectTo)
	assert.False(t, d.Persist)
	assert.Equal(t, "en", d.Locale)
}

func TestCanonicalCoercesUnsupportedToDefault(t *testing.T) {
	s := newTestSet(t)

	assert.Equal(t, "fa", s.Canonical("FA"))
	assert.Equal(t, "en", s.Canonical("xx"))
	assert.Equal(t, "en", s.Canonical(""))
}
