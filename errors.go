package sessionclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is an exported constant or variable used by the session client.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is an exported constant or variable used by the session client.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is an exported constant or variable used by the session client.
	ErrConflict = errors.New("business conflict")
	// ErrNetwork is an exported constant or variable used by the session client.
	ErrNetwork = errors.New("network failure")
	// ErrRefreshFailed is an exported constant or variable used by the session client.
	ErrRefreshFailed = errors.New("credential refresh failed")
	// ErrClientNotReady is an exported constant or variable used by the session client.
	ErrClientNotReady = errors.New("client not initialized")
	// ErrInvalidBody is an exported constant or variable used by the session client.
	ErrInvalidBody = errors.New("request body not encodable")
)

// APIError is the structured error surfaced for any non-2xx response that the
// recovery coordinator did not resolve. Status carries the HTTP status code;
// Message the server-supplied "message" field of the error body, verbatim;
// Body the raw response payload for callers that need more than the message.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

// Error describes the error operation and its observable behavior.
//
// Error does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: status %d", e.Status)
}

// Unwrap maps well-known statuses onto the package sentinels so callers can
// branch with errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusConflict:
		return ErrConflict
	default:
		return nil
	}
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{
		Status:  status,
		Message: extractMessage(body),
		Body:    body,
	}
}

// extractMessage pulls the conventional "message" field out of a JSON error
// body. Non-JSON bodies yield an empty message; the raw body stays available
// on the APIError.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
