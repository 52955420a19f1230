package accredauth

import (
	"context"
	"errors"
	"testing"

	"github.com/anirudhv/accredauth/session"
)

func newAuthContextWith(t *testing.T, sess *session.Session) (*AuthContext, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	if sess != nil {
		if err := store.Save(context.Background(), sess); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	auth, err := NewAuthContext(context.Background(), store)
	if err != nil {
		t.Fatalf("NewAuthContext: %v", err)
	}
	return auth, store
}

func TestAuthContextEmptyStoreIsSignedOut(t *testing.T) {
	auth, _ := newAuthContextWith(t, nil)

	id := auth.Identity()
	if id.Authenticated {
		t.Fatalf("expected unauthenticated identity, got %+v", id)
	}
	if id.Role != RoleUser {
		t.Fatalf("expected degraded role %q, got %q", RoleUser, id.Role)
	}
	if id.User != "" {
		t.Fatalf("expected empty user, got %q", id.User)
	}
}

func TestAuthContextRoleDerivation(t *testing.T) {
	cases := []struct {
		name      string
		role      string
		wantRole  Role
		wantAdmin bool
	}{
		{"admin", "admin", RoleAdmin, true},
		{"user", "user", RoleUser, false},
		{"absent role degrades to user", "", RoleUser, false},
		{"unknown role degrades to user", "superuser", RoleUser, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth, _ := newAuthContextWith(t, &session.Session{Email: "a@b.com", Role: tc.role})

			id := auth.Identity()
			if !id.Authenticated {
				t.Fatalf("expected authenticated identity")
			}
			if id.User != "a@b.com" {
				t.Fatalf("user = %q, want a@b.com", id.User)
			}
			if id.Role != tc.wantRole {
				t.Fatalf("role = %q, want %q", id.Role, tc.wantRole)
			}
			if id.Admin != tc.wantAdmin {
				t.Fatalf("admin = %v, want %v", id.Admin, tc.wantAdmin)
			}
		})
	}
}

func TestAuthContextMalformedRecordIsSignedOut(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetRaw([]byte("{not json"))

	malformed := 0
	auth, err := NewAuthContext(context.Background(), store, WithMalformedHook(func() { malformed++ }))
	if err != nil {
		t.Fatalf("NewAuthContext: %v", err)
	}
	if auth.IsAuthenticated() {
		t.Fatalf("malformed record must not authenticate")
	}
	if malformed != 1 {
		t.Fatalf("malformed hook fired %d times, want 1", malformed)
	}
}

func TestAuthContextLogoutIdempotent(t *testing.T) {
	auth, store := newAuthContextWith(t, &session.Session{Email: "a@b.com", Role: "admin"})

	ctx := context.Background()
	if err := auth.Logout(ctx); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if auth.IsAuthenticated() {
		t.Fatalf("still authenticated after logout")
	}
	if _, err := store.Read(ctx); !errors.Is(err, session.ErrAbsent) {
		t.Fatalf("store read after logout = %v, want ErrAbsent", err)
	}

	// Second logout with nothing stored is a no-op.
	if err := auth.Logout(ctx); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestAuthContextSetSessionWritesStoreFirst(t *testing.T) {
	auth, store := newAuthContextWith(t, nil)

	ctx := context.Background()
	if err := auth.setSession(ctx, &session.Session{Email: "a@b.com", Token: "T"}); err != nil {
		t.Fatalf("setSession: %v", err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("store read: %v", err)
	}
	if got.Email != "a@b.com" || got.Token != "T" {
		t.Fatalf("stored session = %+v", got)
	}
	if !auth.IsAuthenticated() {
		t.Fatalf("expected authenticated after setSession")
	}
}

func TestAuthContextTokenExpiry(t *testing.T) {
	store := session.NewMemoryStore()
	if err := store.Save(context.Background(), &session.Session{Email: "a@b.com", Token: "expired"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	auth, err := NewAuthContext(context.Background(), store,
		WithTokenExpiry(func(token string) bool { return token == "expired" }))
	if err != nil {
		t.Fatalf("NewAuthContext: %v", err)
	}
	if auth.IsAuthenticated() {
		t.Fatalf("expired token must read as signed out")
	}
}
