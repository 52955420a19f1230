// Package backend is the HTTP client for the external Auth Service.
//
// It owns the two wire calls of the login slice, POST /auth/login and
// POST /auth/verify-otp, and classifies transport failures without deciding
// what the user sees. Exact paths and body shapes are a mocking surface for
// tests and must match the deployed backend.
//
// # What this package must NOT do
//
//   - Retry requests (all retries are user-initiated).
//   - Persist sessions or touch storage.
//   - Map failures to user-facing messages; that mapping lives in the root
//     package.
package backend
