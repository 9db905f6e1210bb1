package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIdentity spins up an identity endpoint that accepts exactly one
// credential pair and counts how many requests it has seen.
func fakeIdentity(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/api/users/login" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		if req.Username == "admin" && req.Password == "secret123" {
			_ = json.NewEncoder(w).Encode(map[string]string{
				"access_token": "tok123",
				"token_type":   "bearer",
			})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid username or password"})
	}))
}

func TestLoginSuccess(t *testing.T) {
	var calls atomic.Int64
	srv := fakeIdentity(t, &calls)
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, 4)
	u, err := c.Login(context.Background(), "admin", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok123", u.Token)
	assert.Equal(t, "bearer", u.TokenType)
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, int64(1), calls.Load())
}

func TestLoginValidationFailsBeforeAnyNetworkCall(t *testing.T) {
	var calls atomic.Int64
	srv := fakeIdentity(t, &calls)
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, 4)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty password", "admin", ""},
		{"short password", "admin", "abc"},
		{"empty username", "", "secret123"},
		{"whitespace username", "   ", "secret123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Login(context.Background(), tc.username, tc.password)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Fields)
		})
	}
	assert.Equal(t, int64(0), calls.Load(), "validation failures must not reach the network")
}

func TestLoginRejectedCarriesServerReason(t *testing.T) {
	var calls atomic.Int64
	srv := fakeIdentity(t, &calls)
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, 4)
	_, err := c.Login(context.Background(), "admin", "wrongpass")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Invalid username or password", ae.Reason)
}

func TestLoginRejectedWithoutBodyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, 4)
	_, err := c.Login(context.Background(), "admin", "wrongpass")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "invalid username or password", ae.Reason)
}

func TestLoginMalformedSuccessPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"bearer"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, 4)
	_, err := c.Login(context.Background(), "admin", "secret123")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestLoginTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := NewClient(srv.URL, "", time.Second, 4)
	_, err := c.Login(context.Background(), "admin", "secret123")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestLoginSendsAPIKeyWhenConfigured(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok123","token_type":"bearer"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "deploy-key", 5*time.Second, 4)
	_, err := c.Login(context.Background(), "admin", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "deploy-key", gotKey)
}
