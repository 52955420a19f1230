package federated

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoSession is returned by CurrentSession while the provider has not yet
// settled after the redirect. It marks the transient "keep waiting" state,
// as opposed to an explicit provider error.
var ErrNoSession = errors.New("federated: no current session")

// ProviderError is an explicit error reported by the identity provider,
// typically relayed through callback query parameters.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("federated: provider error %q", e.Code)
	}
	return fmt.Sprintf("federated: provider error %q: %s", e.Code, e.Description)
}

// Session is the identity returned by the provider after a completed
// redirect flow.
type Session struct {
	Email string
	Token string
	Role  string
}

// EventKind distinguishes provider auth-state notifications.
type EventKind int

const (
	SignedIn EventKind = iota
	SignedOut
)

// Event is an asynchronous auth-state notification from the provider.
// Session is set only for SignedIn events.
type Event struct {
	Kind    EventKind
	Session *Session
}

// Subscription is a cancellable registration for provider events. Callers
// must Unsubscribe when the owning view goes away so stale callbacks cannot
// act after navigation. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Provider is the identity-provider client surface the login flow needs.
type Provider interface {
	// AuthorizeURL builds the redirect target for the given anti-forgery
	// state value.
	AuthorizeURL(state string) string

	// CurrentSession returns the provider session after the redirect, or
	// ErrNoSession while the provider has not settled, or a *ProviderError
	// when the provider reported an explicit failure.
	CurrentSession(ctx context.Context) (*Session, error)

	// Subscribe registers a handler for auth-state events for as long as
	// the returned Subscription stays active.
	Subscribe(handler func(Event)) Subscription
}

// Hub is a minimal event fan-out used by provider implementations. Emit
// delivers to every active subscription synchronously, in registration
// order; an unsubscribed handler is never invoked again.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// Subscribe registers a handler.
func (h *Hub) Subscribe(handler func(Event)) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs == nil {
		h.subs = make(map[int]func(Event))
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = handler

	return &hubSubscription{hub: h, id: id}
}

// Emit delivers an event to all active subscriptions.
func (h *Hub) Emit(event Event) {
	h.mu.Lock()
	handlers := make([]func(Event), 0, len(h.subs))
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	// Stable order keeps delivery deterministic for tests.
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}
	for _, id := range ids {
		handlers = append(handlers, h.subs[id])
	}
	h.mu.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
}

type hubSubscription struct {
	hub  *Hub
	id   int
	once sync.Once
}

func (s *hubSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
	})
}
