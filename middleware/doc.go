// Package middleware contains the route guard: a pure decision function
// over derived identity, plus net/http middleware that applies it with
// redirects. The decision layer is router-agnostic so SPA shells and CLI
// hosts can evaluate the same table without an http.Handler in sight.
package middleware
