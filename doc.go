// Package sessionclient provides role-scoped authenticated HTTP clients with
// silent credential refresh, single-retry recovery, forced-logout handling, and a
// process-wide role-partitioned session store.
//
// The package is designed for concurrent workloads: Client methods are safe to
// call from multiple goroutines after initialization through [Builder.Build].
//
// # Recovery contract
//
// Every failed response is classified exactly once per original request, in
// this precedence order: 401 → silent refresh and a single replay; 403 →
// forced logout, never a refresh; 409 → user-visible conflict notification
// (roles that opt in); anything else propagates unchanged. A request is
// retried at most once — the retry marker lives in the in-flight request
// record, never in shared state, so concurrent requests recover independently.
//
// # Architecture boundaries
//
// sessionclient is the public surface. It exposes [Client], [Builder],
// [Config], and value types (Response, APIError, MetricsSnapshot, AuditEvent).
// Session state lives in the session sub-package; route guards in middleware;
// metric exporters under metrics/export. Internal helpers live under
// internal/ and are never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, cookie jars, or encoding details in its public API.
//   - Perform I/O outside of Client methods (construction via Builder is
//     allocation-only until Build).
//   - Substitute a recovery outcome for the caller's error: on forced logout
//     the original failure still surfaces to the caller.
package sessionclient
