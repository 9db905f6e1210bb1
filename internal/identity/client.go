// Package identity exchanges a username/password pair for a bearer token by
// calling the remote identity endpoint.  It is the only component in the
// gateway that ever sees a password, and it holds no state: a successful call
// hands back a transient user record and the caller decides what becomes a
// session.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// User is the transient record produced by a successful login.  It exists
// only to be handed off into a session; nothing persists it.
type User struct {
	Username  string
	Token     string
	TokenType string
}

// Client calls the remote identity service.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	validate     *validator.Validate
	passwordRule string
}

// NewClient creates an identity client with a tuned HTTP transport.  The
// timeout bounds the whole login exchange; no additional application-level
// timeout is layered on top.  minPasswordLen is the local structural policy
// applied before any network call.
func NewClient(baseURL, apiKey string, timeout time.Duration, minPasswordLen int) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	if minPasswordLen < 1 {
		minPasswordLen = 1
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		validate:     validator.New(),
		passwordRule: fmt.Sprintf("required,min=%d", minPasswordLen),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// failureResponse covers the error shapes the identity service is known to
// produce: FastAPI-style {detail} and generic {error}/{message}.
type failureResponse struct {
	Detail  string `json:"detail"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (f failureResponse) reason() string {
	switch {
	case f.Detail != "":
		return f.Detail
	case f.Error != "":
		return f.Error
	case f.Message != "":
		return f.Message
	}
	return ""
}

// Login validates the credential pair locally, then posts it to the identity
// endpoint and normalizes the response into a User.
//
// Failure modes:
//   - *ValidationError: structurally invalid input, zero network calls made
//   - ErrUnreachable: transport failure
//   - *AuthError: the endpoint rejected the credentials
//   - ErrMalformedResponse: success status without an access token
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := c.checkInput(username, password); err != nil {
		return nil, err
	}

	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	// Bound the read; token responses are tiny.
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fail failureResponse
		_ = json.Unmarshal(payload, &fail)
		reason := fail.reason()
		if reason == "" {
			reason = "invalid username or password"
		}
		return nil, &AuthError{Reason: reason}
	}

	var ok loginResponse
	if err := json.Unmarshal(payload, &ok); err != nil || ok.AccessToken == "" {
		return nil, fmt.Errorf("%w: status %d without access token", ErrMalformedResponse, resp.StatusCode)
	}
	if ok.TokenType == "" {
		ok.TokenType = "bearer"
	}

	return &User{Username: username, Token: ok.AccessToken, TokenType: ok.TokenType}, nil
}

// checkInput applies the local structural policy: username required, password
// required and at least the configured minimum length.
func (c *Client) checkInput(username, password string) error {
	fields := map[string]string{}
	if err := c.validate.Var(username, "required"); err != nil {
		fields["username"] = "username is required"
	}
	if err := c.validate.Var(password, c.passwordRule); err != nil {
		fields["password"] = "password is missing or too short"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
