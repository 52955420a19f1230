package middleware

import (
	"context"
	"net/http"

	"github.com/anirudhv/accredauth"
)

// Decision is the outcome of evaluating the guard for one route.
type Decision int

const (
	// Allow renders the protected content.
	Allow Decision = iota
	// RedirectLogin sends an unauthenticated visitor to the login route.
	RedirectLogin
	// RedirectDashboard sends an authenticated non-admin away from an
	// admin-only route.
	RedirectDashboard
)

// Decide evaluates the guard table. Authentication is checked before
// authorization: an unauthenticated visitor is sent to login even on an
// admin-only route, never to the dashboard.
func Decide(authenticated, admin, requireAdmin bool) Decision {
	if !authenticated {
		return RedirectLogin
	}
	if requireAdmin && !admin {
		return RedirectDashboard
	}
	return Allow
}

// IdentitySource supplies the current derived identity. *accredauth.Client
// and *accredauth.AuthContext both satisfy it.
type IdentitySource interface {
	Identity() accredauth.Identity
}

type contextKey struct{ name string }

var identityKey = &contextKey{"accredauth.identity"}

// IdentityFromContext returns the identity a guard middleware stored for
// the request, if any.
func IdentityFromContext(ctx context.Context) (accredauth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(accredauth.Identity)
	return id, ok
}

// Guard returns middleware enforcing the decision table for every request
// it wraps. The identity is re-read from the source per request, never
// memoized, so a logout through the same client takes effect on the next
// request. The source reports its in-memory view: a session written or
// cleared by another process is only observed after an
// [accredauth.AuthContext.Reload]. Redirects use 303 so a guarded POST
// lands on the target with a GET.
func Guard(src IdentitySource, requireAdmin bool, loginRoute, dashboardRoute string) func(http.Handler) http.Handler {
	if loginRoute == "" {
		loginRoute = accredauth.RouteLogin
	}
	if dashboardRoute == "" {
		dashboardRoute = accredauth.RouteDashboard
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := src.Identity()
			switch Decide(id.Authenticated, id.Admin, requireAdmin) {
			case RedirectLogin:
				http.Redirect(w, r, loginRoute, http.StatusSeeOther)
			case RedirectDashboard:
				http.Redirect(w, r, dashboardRoute, http.StatusSeeOther)
			default:
				ctx := context.WithValue(r.Context(), identityKey, id)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// RequireAuth guards a route that any authenticated user may see.
func RequireAuth(src IdentitySource) func(http.Handler) http.Handler {
	return Guard(src, false, "", "")
}

// RequireAdmin guards an admin-only route.
func RequireAdmin(src IdentitySource) func(http.Handler) http.Handler {
	return Guard(src, true, "", "")
}
