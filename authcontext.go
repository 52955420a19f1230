package accredauth

import (
	"context"
	"errors"
	"sync"

	"github.com/anirudhv/accredauth/session"
)

// AuthContext holds the in-memory authentication state derived from the
// session store. It mirrors the store: every write goes store-first, and
// the in-memory view only changes after the store accepted the write.
//
// Readers never touch the store; they see the state loaded at startup or
// written by the last successful login. Call [AuthContext.Reload] to
// re-derive from the store, for example after another process wrote it.
type AuthContext struct {
	mu    sync.RWMutex
	store session.Store
	sess  *session.Session

	// expired reports whether a stored session's token should be treated
	// as elapsed. Nil when token-expiry checking is disabled.
	expired func(token string) bool

	onMalformed func()
}

// NewAuthContext loads current state from the store. A missing or
// malformed record yields a signed-out context without error; only a
// store that cannot be reached at all fails construction.
func NewAuthContext(ctx context.Context, store session.Store, opts ...AuthContextOption) (*AuthContext, error) {
	a := &AuthContext{store: store}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.Reload(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// AuthContextOption customizes AuthContext construction.
type AuthContextOption func(*AuthContext)

// WithTokenExpiry installs a token-expiry predicate. Sessions whose token
// the predicate reports as expired are treated as absent.
func WithTokenExpiry(expired func(token string) bool) AuthContextOption {
	return func(a *AuthContext) { a.expired = expired }
}

// WithMalformedHook installs a callback invoked whenever a stored record
// fails to parse and is discarded.
func WithMalformedHook(fn func()) AuthContextOption {
	return func(a *AuthContext) { a.onMalformed = fn }
}

// Reload re-derives the in-memory state from the store.
func (a *AuthContext) Reload(ctx context.Context) error {
	sess, err := a.store.Read(ctx)
	switch {
	case err == nil:
		if a.expired != nil && sess.Token != "" && a.expired(sess.Token) {
			sess = nil
		}
	case errors.Is(err, session.ErrAbsent):
		sess = nil
	case errors.Is(err, session.ErrMalformed):
		// Unparseable storage must not wedge the app in a half-authenticated
		// state: treat it as signed out.
		if a.onMalformed != nil {
			a.onMalformed()
		}
		sess = nil
	default:
		return err
	}

	a.mu.Lock()
	a.sess = sess
	a.mu.Unlock()
	return nil
}

// Identity returns the full derived view.
func (a *AuthContext) Identity() Identity {
	a.mu.RLock()
	sess := a.sess
	a.mu.RUnlock()

	if sess == nil {
		return Identity{Role: RoleUser}
	}
	role := ParseRole(sess.Role)
	return Identity{
		User:          sess.Email,
		Role:          role,
		Authenticated: true,
		Admin:         role == RoleAdmin,
	}
}

// User returns the signed-in account's email, or "".
func (a *AuthContext) User() string {
	return a.Identity().User
}

// Role returns the effective role. Signed-out contexts report [RoleUser].
func (a *AuthContext) Role() Role {
	return a.Identity().Role
}

// IsAuthenticated reports whether a session is present.
func (a *AuthContext) IsAuthenticated() bool {
	return a.Identity().Authenticated
}

// IsAdmin reports whether the session carries the admin role.
func (a *AuthContext) IsAdmin() bool {
	return a.Identity().Admin
}

// setSession persists the session and, only if that succeeds, swaps the
// in-memory view. The store write happening first is what lets callers
// navigate immediately after: anything re-reading the store observes the
// new session.
func (a *AuthContext) setSession(ctx context.Context, sess *session.Session) error {
	if err := a.store.Save(ctx, sess); err != nil {
		return err
	}
	a.mu.Lock()
	a.sess = sess
	a.mu.Unlock()
	return nil
}

// Logout clears the store then the in-memory view. Calling it signed out
// is a harmless no-op.
func (a *AuthContext) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.sess = nil
	a.mu.Unlock()
	return nil
}
