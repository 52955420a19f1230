package accredauth

import (
	"context"
	"sync/atomic"

	"github.com/anirudhv/accredauth/federated"
	"github.com/anirudhv/accredauth/internal/audit"
	"github.com/anirudhv/accredauth/internal/backend"
	internalmetrics "github.com/anirudhv/accredauth/internal/metrics"
	"github.com/anirudhv/accredauth/session"
)

// Client is the authenticated-session façade the dashboard talks to. It
// owns the session store, the auth-service transport, the optional
// federated provider, and the observability plumbing. All methods are
// safe for concurrent use.
type Client struct {
	config   *Config
	store    session.Store
	auth     *AuthContext
	backend  *backend.Client
	provider federated.Provider
	audit    *audit.Dispatcher
	metrics  *internalmetrics.Metrics

	// Single-flight gates for the two login steps. A submission that
	// arrives while one is in flight is dropped, never queued.
	requestInFlight atomic.Bool
	verifyInFlight  atomic.Bool

	ownsStore bool
}

// Close drains the audit dispatcher and closes a store the builder
// opened. Stores injected via WithSessionStore stay open; their owner
// closes them.
func (c *Client) Close() error {
	c.audit.Close()
	if c.ownsStore {
		if fs, ok := c.store.(*session.FileStore); ok {
			return fs.Close()
		}
	}
	return nil
}

// Auth exposes the derived authentication state.
func (c *Client) Auth() *AuthContext {
	return c.auth
}

// Identity returns the current derived identity.
func (c *Client) Identity() Identity {
	return c.auth.Identity()
}

// Logout clears the persisted session and in-memory state, and signs out
// of the federated provider when one is wired. Idempotent.
func (c *Client) Logout(ctx context.Context) error {
	user := c.auth.User()
	if err := c.auth.Logout(ctx); err != nil {
		c.emitAudit(ctx, eventLogout, false, user, RouteLogin, err)
		return err
	}
	if rp, ok := c.provider.(*federated.RedirectProvider); ok {
		rp.SignOut()
	}
	c.metrics.Inc(internalmetrics.MetricSessionCleared)
	c.metrics.Inc(internalmetrics.MetricLogout)
	c.emitAudit(ctx, eventLogout, true, user, RouteLogin, nil)
	return nil
}

// MetricsSnapshot returns a deep copy of all counters and histograms.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.SnapshotNow()
}

// AuditDropped reports how many audit events were discarded because the
// dispatch buffer was full.
func (c *Client) AuditDropped() uint64 {
	if c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}
