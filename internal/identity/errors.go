package identity

import "errors"

// Transport and protocol failures are sentinels so callers can branch with
// errors.Is; credential rejections carry a reason and get their own type.
var (
	// ErrUnreachable marks a transport-level failure before any HTTP
	// status was received.  No session is ever created from it.
	ErrUnreachable = errors.New("identity service unreachable")

	// ErrMalformedResponse marks a success status whose payload did not
	// contain an access token.
	ErrMalformedResponse = errors.New("malformed identity response")
)

// AuthError is returned when the identity endpoint explicitly rejected the
// credentials.  Reason is the server-provided human-readable message when one
// was present, otherwise a fixed fallback.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

// ValidationError is returned for structurally invalid input detected before
// any network call.  Fields maps field names to user-visible messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for _, msg := range e.Fields {
		return msg
	}
	return "invalid credentials input"
}
