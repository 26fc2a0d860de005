package ispconfig

import (
	"errors"
	"log"
)

var (
	// ErrRemoteUnavailable is returned when the panel cannot be reached
	ErrRemoteUnavailable = errors.New("remote panel unavailable")

	// ErrAuthenticationFailed is returned when the panel rejects the remote user's credentials
	ErrAuthenticationFailed = errors.New("remote panel rejected credentials")

	// ErrPermissionDenied is returned when the remote user lacks the required API functions
	ErrPermissionDenied = errors.New("remote panel permission denied")

	// ErrProtocolError is returned for malformed or unexpected responses
	ErrProtocolError = errors.New("unexpected response from remote panel")

	// ErrNotConnected is returned when a session method runs without an active session
	ErrNotConnected = errors.New("remote session not established")

	// ErrMailUserNotFound is returned when a lookup matches no mail user
	ErrMailUserNotFound = errors.New("mail user not found")

	// ErrUpdateRejected is returned when an update affected no rows
	ErrUpdateRejected = errors.New("mail user update affected no rows")
)

// requiredFunctions lists the remote user permissions the client relies on.
const requiredFunctions = "Customer Functions, Server Functions, E-Mail User Functions"

// logError writes one log line per failure class so operators can tell
// configuration problems apart from an unreachable panel.
func (c *Client) logError(op string, err error) {
	switch {
	case errors.Is(err, ErrAuthenticationFailed):
		log.Printf("[ISPConfig] %s failed: invalid credentials of remote user %s", op, c.remoteUser)
	case errors.Is(err, ErrPermissionDenied):
		log.Printf(
			"[ISPConfig] %s failed: ensure remote user %s has the following permissions: %s",
			op, c.remoteUser, requiredFunctions,
		)
	case errors.Is(err, ErrNotConnected):
		log.Printf("[ISPConfig] %s failed: remote session not established", op)
	case errors.Is(err, ErrRemoteUnavailable):
		log.Printf("[ISPConfig] %s failed: panel unreachable: %v", op, err)
	case errors.Is(err, ErrProtocolError):
		log.Printf("[ISPConfig] %s failed: malformed response: %v", op, err)
	default:
		log.Printf("[ISPConfig] %s failed: %v", op, err)
	}
}
