package sessionclient

import (
	"context"
	"net/http"

	"github.com/workforcekit/sessionclient/session"
)

// Role identifies one of the platform's tenant roles.
//
//	Docs: docs/roles.md
type Role = session.Role

const (
	// RoleBusinessOwner is an exported constant or variable used by the session client.
	RoleBusinessOwner = session.RoleBusinessOwner
	// RoleManager is an exported constant or variable used by the session client.
	RoleManager = session.RoleManager
	// RoleEmployee is an exported constant or variable used by the session client.
	RoleEmployee = session.RoleEmployee
	// RoleSuperAdmin is an exported constant or variable used by the session client.
	RoleSuperAdmin = session.RoleSuperAdmin
)

// Profile is the denormalized display snapshot cached per role.
type Profile = session.Profile

// SessionState is the per-role state snapshot held by the session store.
type SessionState = session.State

// SessionStore is the injectable session-state abstraction consumed by the
// client and by route guards. The session sub-package provides the canonical
// implementation; tests and embedders may supply their own.
//
// Implementations must apply local mutations synchronously: a concurrent
// reader observes a Logout before any persistence or network side effect of
// that Logout settles.
type SessionStore interface {
	Login(ctx context.Context, role Role) error
	Logout(ctx context.Context, role Role) error
	UpdateProfile(ctx context.Context, role Role, fields Profile) error
	State(role Role) SessionState
	IsAuthenticated(role Role) bool
}

// Response is the outcome of a successful (2xx) request, including a replay
// issued by the recovery coordinator. Body is fully read and the underlying
// connection released before Response is returned.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if r == nil {
		return ErrClientNotReady
	}
	return decodeJSON(r.Body, v)
}
