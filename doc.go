// Package accredauth is the authentication client for the accreditation
// data-management dashboard: session persistence, OTP-based two-step login
// against the remote auth service, federated login reconciliation, and
// role-gated route guarding.
//
// The package is the public surface. It exposes [Client], [Builder],
// [Config], [AuthContext], and value types (Identity, AuditEvent,
// MetricsSnapshot). Flow orchestration, the auth-service HTTP client, audit
// dispatch, and metric storage live under internal/ and are never exported.
// Session storage backends live in the session subpackage, the route guard
// in middleware, identity-provider modeling in federated.
//
// # Session model
//
// Exactly one session record exists at a time, persisted under a fixed
// storage key. It is written only after the auth service confirms an OTP
// (or the federated provider confirms a session) and removed only by
// logout. [AuthContext] derives identity from it at startup; a record that
// fails to parse degrades to "signed out", never to a startup failure.
//
// # Navigation
//
// Login and guard operations return route strings ("/login",
// "/otp-form?email=...", "/dashboard") instead of performing navigation.
// The CLI, the demo server, and the HTTP middleware each act on routes in
// their own way.
//
// # What this package must NOT do
//
//   - Retry failed auth-service calls (retries are user-initiated).
//   - Expose storage backends, wire codecs, or flow internals in its API.
//   - Log credentials, OTP codes, or bearer tokens through audit events.
package accredauth
