package accredauth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anirudhv/accredauth/federated"
	"github.com/anirudhv/accredauth/session"
)

func newFederatedClient(t *testing.T, unify bool) (*Client, *federated.RedirectProvider, *session.MemoryStore) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Session.Backend = "memory"
	cfg.Federated.Enabled = true
	cfg.Federated.AuthorizeURL = "https://idp.example.com/authorize"
	cfg.Federated.ClientID = "dashboard"
	cfg.Federated.CallbackURL = "https://app.example.com/auth/callback"
	cfg.Federated.UnifySessionStore = unify

	provider := federated.NewRedirectProvider(
		cfg.Federated.AuthorizeURL, cfg.Federated.ClientID, cfg.Federated.CallbackURL, nil)
	store := session.NewMemoryStore()

	client, err := New().WithConfig(cfg).WithSessionStore(store).WithFederatedProvider(provider).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, provider, store
}

// stubProvider is a minimal Provider carrying its own endpoints, the way
// an externally built identity-provider client would.
type stubProvider struct {
	federated.Hub
	sess *federated.Session
}

func (p *stubProvider) AuthorizeURL(state string) string {
	return "https://stub.example.com/authorize?state=" + state
}

func (p *stubProvider) CurrentSession(context.Context) (*federated.Session, error) {
	if p.sess == nil {
		return nil, federated.ErrNoSession
	}
	return p.sess, nil
}

func TestInjectedProviderBuildsOnDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.Backend = "memory"

	stub := &stubProvider{sess: &federated.Session{Email: "fed@b.com", Token: "FT"}}
	client, err := New().WithConfig(cfg).WithSessionStore(session.NewMemoryStore()).
		WithFederatedProvider(stub).Build(context.Background())
	if err != nil {
		t.Fatalf("Build with injected provider: %v", err)
	}
	defer client.Close()

	outcome, route, err := client.HandleFederatedCallback(context.Background())
	if err != nil {
		t.Fatalf("HandleFederatedCallback: %v", err)
	}
	if outcome != FederatedDashboard || route != RouteDashboard {
		t.Fatalf("outcome = %v route = %q", outcome, route)
	}
}

func TestFederatedEnabledWithoutProviderNeedsRedirectConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.Backend = "memory"
	cfg.Federated.Enabled = true

	_, err := New().WithConfig(cfg).WithSessionStore(session.NewMemoryStore()).Build(context.Background())
	if err == nil {
		t.Fatalf("expected build error without redirect endpoints")
	}
	if !strings.Contains(err.Error(), "authorize url") {
		t.Fatalf("err = %v", err)
	}
}

func TestStartFederatedLoginBuildsRedirect(t *testing.T) {
	client, _, _ := newFederatedClient(t, true)

	url, state, err := client.StartFederatedLogin(context.Background())
	if err != nil {
		t.Fatalf("StartFederatedLogin: %v", err)
	}
	if state == "" {
		t.Fatalf("empty state")
	}
	if !strings.Contains(url, "state="+state) {
		t.Fatalf("url %q does not carry state", url)
	}
	if !strings.HasPrefix(url, "https://idp.example.com/authorize?") {
		t.Fatalf("url = %q", url)
	}
	if got := client.MetricsSnapshot().Counters[MetricFederatedStarted]; got != 1 {
		t.Fatalf("started counter = %d", got)
	}
}

func TestFederatedDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.Backend = "memory"
	client, err := New().WithConfig(cfg).WithSessionStore(session.NewMemoryStore()).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer client.Close()

	if _, _, err := client.StartFederatedLogin(context.Background()); !errors.Is(err, ErrFederatedDisabled) {
		t.Fatalf("err = %v, want ErrFederatedDisabled", err)
	}
	if _, _, err := client.HandleFederatedCallback(context.Background()); !errors.Is(err, ErrFederatedDisabled) {
		t.Fatalf("err = %v, want ErrFederatedDisabled", err)
	}
}

func TestFederatedCallbackPending(t *testing.T) {
	client, _, _ := newFederatedClient(t, true)

	outcome, route, err := client.HandleFederatedCallback(context.Background())
	if err != nil {
		t.Fatalf("HandleFederatedCallback: %v", err)
	}
	if outcome != FederatedPending {
		t.Fatalf("outcome = %v, want FederatedPending", outcome)
	}
	if route != "" {
		t.Fatalf("route = %q, want empty", route)
	}
}

func TestFederatedCallbackSessionPresent(t *testing.T) {
	client, provider, store := newFederatedClient(t, true)

	provider.Complete(federated.Session{Email: "fed@b.com", Token: "FT", Role: "admin"})

	outcome, route, err := client.HandleFederatedCallback(context.Background())
	if err != nil {
		t.Fatalf("HandleFederatedCallback: %v", err)
	}
	if outcome != FederatedDashboard || route != RouteDashboard {
		t.Fatalf("outcome = %v route = %q", outcome, route)
	}

	// Reconciled into the same store the credential flow writes.
	got, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("store read: %v", err)
	}
	if got.Email != "fed@b.com" || got.Token != "FT" || got.Role != "admin" {
		t.Fatalf("stored session = %+v", got)
	}

	id := client.Identity()
	if !id.Admin || id.User != "fed@b.com" {
		t.Fatalf("identity = %+v", id)
	}
}

func TestFederatedCallbackProviderError(t *testing.T) {
	client, provider, store := newFederatedClient(t, true)

	provider.Fail("access_denied", "user cancelled")

	outcome, route, err := client.HandleFederatedCallback(context.Background())
	if err == nil {
		t.Fatalf("expected provider error")
	}
	if outcome != FederatedLogin || route != RouteLogin {
		t.Fatalf("outcome = %v route = %q", outcome, route)
	}
	var perr *federated.ProviderError
	if !errors.As(err, &perr) || perr.Code != "access_denied" {
		t.Fatalf("err = %v", err)
	}
	if _, err := store.Read(context.Background()); !errors.Is(err, session.ErrAbsent) {
		t.Fatalf("store read = %v, want ErrAbsent", err)
	}
}

func TestFederatedCallbackWithoutUnification(t *testing.T) {
	client, provider, store := newFederatedClient(t, false)

	provider.Complete(federated.Session{Email: "fed@b.com", Token: "FT"})

	outcome, _, err := client.HandleFederatedCallback(context.Background())
	if err != nil {
		t.Fatalf("HandleFederatedCallback: %v", err)
	}
	if outcome != FederatedDashboard {
		t.Fatalf("outcome = %v, want FederatedDashboard", outcome)
	}
	// The provider session stays provider-side; the client store is untouched.
	if _, err := store.Read(context.Background()); !errors.Is(err, session.ErrAbsent) {
		t.Fatalf("store read = %v, want ErrAbsent", err)
	}
}

func TestFederatedEventsRouteThroughSubscription(t *testing.T) {
	client, provider, store := newFederatedClient(t, true)

	type result struct {
		route string
		err   error
	}
	var results []result
	sub, err := client.SubscribeFederatedEvents(context.Background(), func(route string, err error) {
		results = append(results, result{route, err})
	})
	if err != nil {
		t.Fatalf("SubscribeFederatedEvents: %v", err)
	}
	defer sub.Unsubscribe()

	provider.Complete(federated.Session{Email: "fed@b.com", Token: "FT"})

	if !client.Identity().Authenticated {
		t.Fatalf("expected authenticated identity after sign-in event")
	}

	provider.SignOut()

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].route != RouteDashboard || results[0].err != nil {
		t.Fatalf("sign-in result = %+v", results[0])
	}
	if results[1].route != RouteLogin || results[1].err != nil {
		t.Fatalf("sign-out result = %+v", results[1])
	}

	// The sign-out invalidated the reconciled session everywhere.
	if client.Identity().Authenticated {
		t.Fatalf("identity still authenticated after sign-out event: %+v", client.Identity())
	}
	if _, err := store.Read(context.Background()); !errors.Is(err, session.ErrAbsent) {
		t.Fatalf("store read after sign-out = %v, want ErrAbsent", err)
	}

	// Unsubscribed handlers never fire again.
	sub.Unsubscribe()
	provider.Complete(federated.Session{Email: "again@b.com", Token: "FT2"})
	if len(results) != 2 {
		t.Fatalf("handler fired after unsubscribe")
	}
	if _, err := store.Read(context.Background()); !errors.Is(err, session.ErrAbsent) {
		t.Fatalf("store written after unsubscribe: read = %v, want ErrAbsent", err)
	}
}
