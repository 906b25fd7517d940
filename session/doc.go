// Package session provides the process-wide, role-partitioned session store and
// the compact binary encoding used for its advisory Redis snapshots.
//
// # Authority model
//
// In-memory state is authoritative: route guards and the HTTP client read it
// synchronously, and forced logout clears it before any network call settles.
// Redis snapshots exist only so a restarted process resumes its last known
// authentication flag; the backend re-validates the credential on the first
// subsequent request, so a stale snapshot self-corrects.
//
// # Binary encoding
//
// Snapshots are stored as a compact binary format (schema versions v1–v2) with
// forward migration on read. The encoder is append-only: new versions add fields
// but never reinterpret old ones.
//
// # Architecture boundaries
//
// This package owns the [Store] and the [State]/[Profile] models. It does NOT
// issue HTTP requests, interpret response statuses, or decide when a session
// ends — those responsibilities belong to the client.
//
// # What this package must NOT do
//
//   - Import sessionclient or middleware (no upward imports).
//   - Block a state mutation on Redis availability.
//   - Treat a persisted snapshot as proof of a live credential.
package session
