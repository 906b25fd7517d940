// Package internal contains helper utilities that are intentionally private
// to sessionclient, currently request identifier generation.
//
// # What this package must NOT do
//
//   - Export types that appear in the public sessionclient API.
//   - Be imported by any package outside the sessionclient module.
package internal
