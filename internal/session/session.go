// Package session holds the client-facing proof of authentication.  The
// browser carries a signed cookie containing nothing but an opaque session
// id; the bearer token issued by the identity service lives server-side in
// the store, keyed by that id.  Presence of a session is always evaluated as
// "token string is non-empty" — no multi-field transaction.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the signed session cookie.
const CookieName = "admin_session"

// Session is the server-side record behind one session id.
type Session struct {
	Username  string `json:"username"`
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// Present reports whether the session proves authentication.
func (s Session) Present() bool { return s.Token != "" }

// NewID returns a cryptographically random session id (64 hex chars).
func NewID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// SignCookie wraps a session id in an HS256 JWT so the cookie value is
// tamper-evident.  The exp claim mirrors the store TTL; an expired cookie is
// simply an absent session.
func SignCookie(secret, sid string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

var errBadCookie = errors.New("malformed session cookie")

// ParseCookie verifies a cookie value and returns the session id it carries.
// Any verification failure (bad signature, wrong algorithm, expiry, missing
// claim) comes back as an error; callers treat that as "no session".
func ParseCookie(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errBadCookie
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", errBadCookie
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errBadCookie
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errBadCookie
	}
	return sid, nil
}
