package federated

import (
	"context"
	"net/url"
	"strings"
	"sync"
)

// RedirectProvider implements the redirect-building half of [Provider] for
// any OAuth-style identity provider, and lets the hosting application feed
// callback results back in through Complete/Fail/Emit.
//
// The authorize URL always requests offline access and forces the consent
// screen, matching the dashboard's provider configuration.
type RedirectProvider struct {
	Hub

	authorizeURL string
	clientID     string
	callbackURL  string
	scopes       []string

	mu   sync.RWMutex
	sess *Session
	err  error
}

// NewRedirectProvider creates a provider that authorizes at authorizeURL
// with the given client ID, redirecting back to callbackURL. Default scopes
// are openid, email and profile.
func NewRedirectProvider(authorizeURL, clientID, callbackURL string, scopes []string) *RedirectProvider {
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}
	return &RedirectProvider{
		authorizeURL: authorizeURL,
		clientID:     clientID,
		callbackURL:  callbackURL,
		scopes:       scopes,
	}
}

// AuthorizeURL builds the provider redirect carrying the callback URL, the
// requested scopes, offline access, forced consent, and the state nonce.
func (p *RedirectProvider) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.clientID)
	q.Set("redirect_uri", p.callbackURL)
	q.Set("scope", strings.Join(p.scopes, " "))
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	q.Set("state", state)

	sep := "?"
	if strings.Contains(p.authorizeURL, "?") {
		sep = "&"
	}
	return p.authorizeURL + sep + q.Encode()
}

// CurrentSession reports the session or error fed in by Complete/Fail, or
// ErrNoSession while neither has happened yet.
func (p *RedirectProvider) CurrentSession(_ context.Context) (*Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.err != nil {
		return nil, p.err
	}
	if p.sess == nil {
		return nil, ErrNoSession
	}
	out := *p.sess
	return &out, nil
}

// Complete records a settled provider session and notifies subscribers.
func (p *RedirectProvider) Complete(sess Session) {
	p.mu.Lock()
	p.sess = &sess
	p.err = nil
	p.mu.Unlock()

	p.Emit(Event{Kind: SignedIn, Session: &sess})
}

// Fail records an explicit provider error and notifies subscribers.
func (p *RedirectProvider) Fail(code, description string) {
	perr := &ProviderError{Code: code, Description: description}

	p.mu.Lock()
	p.sess = nil
	p.err = perr
	p.mu.Unlock()

	p.Emit(Event{Kind: SignedOut})
}

// SignOut clears any settled session and notifies subscribers.
func (p *RedirectProvider) SignOut() {
	p.mu.Lock()
	p.sess = nil
	p.err = nil
	p.mu.Unlock()

	p.Emit(Event{Kind: SignedOut})
}
