// Package middleware exposes HTTP middleware built on top of the
// sessionclient session store.
//
// # Guards
//
//   - [Guard] — synchronous per-role authentication check with redirect.
//   - [RequireRole] — same check, 401 instead of redirect, for API routes.
//
// Each guard reads the role's current session state and either passes the
// request through or diverts it to the role's login page.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into session store reads. It does
// NOT mutate session state and never performs network I/O — the check is a
// synchronous in-memory read, so guarded routes stay fast even when the
// backing Redis is degraded.
//
// # What this package must NOT do
//
//   - Trigger a refresh or a logout (recovery belongs to the client).
//   - Access Redis directly.
//   - Inspect credentials; the session store's flag is the only input.
package middleware
