// Package audit provides structured audit events and asynchronous dispatch
// for accredauth.
//
// # Design
//
// The client emits one Event per observable auth action (OTP request, OTP
// verification, logout, federated transition, guard redirect). Events flow
// through a buffered [Dispatcher] goroutine into a caller-supplied [Sink];
// emit never blocks the login path when DropIfFull is set, and drops are
// counted instead of silently lost.
//
// # What this package must NOT do
//
//   - Import the root accredauth package or any sibling package.
//   - Carry passwords, OTP codes, or bearer tokens in event metadata.
package audit
