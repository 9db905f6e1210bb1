// Package locale decides which language variant of the dashboard a request
// is served with.  Every user-facing URL begins with a locale segment; the
// resolver compares that segment against the supported set and the visitor's
// saved preference and produces a single decision: render with a locale,
// possibly persisting it as the new preference, or redirect to the canonical
// URL.  The decision is a plain value so the HTTP layer stays free of
// control-flow side effects and the rules stay testable in isolation.
package locale

import (
	"fmt"
	"strings"
)

// Set is the process-wide, read-only collection of supported locale codes
// with one distinguished default.  Codes are matched case-insensitively.
type Set struct {
	supported map[string]bool
	def       string
}

// NewSet builds a Set from the configured codes and default.  The default
// must be a member of the set.
func NewSet(codes []string, def string) (*Set, error) {
	def = strings.ToLower(strings.TrimSpace(def))
	s := &Set{supported: make(map[string]bool, len(codes)), def: def}
	for _, c := range codes {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			s.supported[c] = true
		}
	}
	if len(s.supported) == 0 {
		return nil, fmt.Errorf("locale set is empty")
	}
	if !s.supported[def] {
		return nil, fmt.Errorf("default locale %q is not in the supported set", def)
	}
	return s, nil
}

// Default returns the configured default locale.
func (s *Set) Default() string { return s.def }

// Contains reports whether code is a supported locale.
func (s *Set) Contains(code string) bool {
	return s.supported[strings.ToLower(code)]
}

// Canonical returns code itself when supported, otherwise the default.
// Unsupported codes never leave this package unreplaced.
func (s *Set) Canonical(code string) string {
	if s.Contains(code) {
		return strings.ToLower(code)
	}
	return s.def
}

// Decision is the outcome of resolving one request path.
//
// When RedirectTo is non-empty the caller must redirect there instead of
// rendering; Locale is the locale embedded in that target.  Otherwise the
// request renders with Locale, and Persist tells the caller to save Locale
// as the visitor's new preference.
type Decision struct {
	Locale     string
	RedirectTo string
	Persist    bool
}

// Resolve determines the locale for a request path given the visitor's saved
// preference (empty string when none is saved).
//
// Rules, in order:
//   - Path without a supported leading locale segment: redirect to the same
//     path prefixed with the default locale.
//   - Saved supported preference that differs from the path's locale segment:
//     the preference wins; redirect to the same path with the segment
//     replaced (the URL in the address bar is stale).
//   - No saved preference: adopt the path's segment and persist it.
//   - Otherwise the URL is already canonical; render as-is.
//
// An unsupported saved preference is treated as absent and overwritten, so a
// bad cookie value never propagates into a redirect target.  Resolving the
// target of any redirect produced here yields no further redirect.
func Resolve(s *Set, path string, pref string) Decision {
	if path == "" || !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	seg, rest := splitLocaleSegment(path)

	if !s.Contains(seg) {
		// No locale in the URL; the whole path is kept beneath the default.
		return Decision{Locale: s.def, RedirectTo: "/" + s.def + strings.TrimSuffix(path, "/")}
	}

	seg = strings.ToLower(seg)
	pref = strings.ToLower(strings.TrimSpace(pref))
	if pref != "" && s.Contains(pref) {
		if pref != seg {
			return Decision{Locale: pref, RedirectTo: "/" + pref + rest}
		}
		return Decision{Locale: seg}
	}

	// Preference missing (or junk): the current segment becomes the new one.
	return Decision{Locale: seg, Persist: true}
}

// splitLocaleSegment returns the first path segment and the remainder of the
// path (including its leading slash, empty when there is none).
func splitLocaleSegment(path string) (seg, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return "", ""
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i], trimmed[i:]
	}
	return trimmed, ""
}
