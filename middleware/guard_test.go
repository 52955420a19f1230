package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anirudhv/accredauth"
)

func TestDecideTable(t *testing.T) {
	cases := []struct {
		name          string
		authenticated bool
		admin         bool
		requireAdmin  bool
		want          Decision
	}{
		{"unauthenticated on user route", false, false, false, RedirectLogin},
		{"unauthenticated on admin route", false, false, true, RedirectLogin},
		{"user on user route", true, false, false, Allow},
		{"user on admin route", true, false, true, RedirectDashboard},
		{"admin on user route", true, true, false, Allow},
		{"admin on admin route", true, true, true, Allow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.authenticated, tc.admin, tc.requireAdmin)
			if got != tc.want {
				t.Fatalf("Decide(%v, %v, %v) = %v, want %v",
					tc.authenticated, tc.admin, tc.requireAdmin, got, tc.want)
			}
		})
	}
}

type staticIdentity struct {
	id accredauth.Identity
}

func (s *staticIdentity) Identity() accredauth.Identity { return s.id }

func serveGuarded(t *testing.T, src IdentitySource, requireAdmin bool) *httptest.ResponseRecorder {
	t.Helper()
	handler := Guard(src, requireAdmin, "", "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity missing from context")
		}
		w.Write([]byte("hello " + id.User))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	return rec
}

func TestGuardRedirectsUnauthenticated(t *testing.T) {
	rec := serveGuarded(t, &staticIdentity{}, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != accredauth.RouteLogin {
		t.Fatalf("location = %q, want %q", loc, accredauth.RouteLogin)
	}
}

func TestGuardRedirectsNonAdminToDashboard(t *testing.T) {
	src := &staticIdentity{id: accredauth.Identity{
		User: "a@b.com", Role: accredauth.RoleUser, Authenticated: true,
	}}
	rec := serveGuarded(t, src, true)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != accredauth.RouteDashboard {
		t.Fatalf("location = %q, want %q", loc, accredauth.RouteDashboard)
	}
}

func TestGuardAllowsAndExposesIdentity(t *testing.T) {
	src := &staticIdentity{id: accredauth.Identity{
		User: "root@b.com", Role: accredauth.RoleAdmin, Authenticated: true, Admin: true,
	}}
	rec := serveGuarded(t, src, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "hello root@b.com" {
		t.Fatalf("body = %q", got)
	}
}

func TestGuardReevaluatesPerRequest(t *testing.T) {
	src := &staticIdentity{id: accredauth.Identity{
		User: "a@b.com", Authenticated: true, Role: accredauth.RoleUser,
	}}
	handler := RequireAuth(src)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	// Simulate logout between requests.
	src.id = accredauth.Identity{Role: accredauth.RoleUser}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("post-logout status = %d, want 303", rec.Code)
	}
}
