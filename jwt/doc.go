// Package jwt inspects bearer tokens without verifying them.
//
// The accredauth client never holds signing keys; the token it stores is an
// opaque credential validated by the backend. When that credential happens
// to be a JWT, [Inspector] can read its claims, expiry above all, so the
// client can optionally treat a long-dead token as "no session" instead of
// presenting it forever. Opaque (non-JWT) tokens never expire client-side.
//
// Nothing in this package authenticates anything: an attacker-forged token
// inspects just fine. Inspection results feed UX decisions only.
package jwt
