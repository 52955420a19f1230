// Package session provides durable single-record session storage for
// accredauth.
//
// # Design
//
// Exactly one Session lives under a fixed storage key. A Save fully replaces
// any prior record; there are no merge semantics. The persisted shape is the
// JSON object {email, role, token?}; this shape and the default key
// "accred_user" are a compatibility surface for sessions written by earlier
// deployments and must not change silently.
//
// # Architecture boundaries
//
// This package owns persistence and the Session wire shape. Identity
// derivation (who is logged in, admin or not) lives in the root accredauth
// package; callers other than the root package and the login flows should
// not write sessions directly.
//
// # What this package must NOT do
//
//   - Perform network calls to the auth service.
//   - Interpret roles or make authorization decisions.
//   - Surface a malformed stored record as anything other than [ErrMalformed].
package session
