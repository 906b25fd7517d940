package internal

import "github.com/google/uuid"

// NewRequestID returns a fresh identifier for correlating a request across
// its replay, audit events, and server logs.
func NewRequestID() string {
	return uuid.NewString()
}
