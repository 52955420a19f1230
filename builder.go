package accredauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anirudhv/accredauth/federated"
	"github.com/anirudhv/accredauth/internal/audit"
	"github.com/anirudhv/accredauth/internal/backend"
	internalmetrics "github.com/anirudhv/accredauth/internal/metrics"
	"github.com/anirudhv/accredauth/jwt"
	"github.com/anirudhv/accredauth/session"
)

var (
	ErrBuilderReused   = errors.New("builder already built")
	ErrRedisNotWired   = errors.New("redis session backend selected but no redis client provided")
	ErrNilSessionStore = errors.New("session store is nil")
)

// Builder assembles a [Client]. Collaborators not provided explicitly are
// constructed from config during Build. A Builder is single-use.
type Builder struct {
	config     *Config
	httpClient *http.Client
	redis      redis.UniversalClient
	store      session.Store
	provider   federated.Provider
	auditSink  AuditSink
	built      bool
}

// New starts a Builder from the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration tree.
func (b *Builder) WithConfig(cfg *Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithHTTPClient sets the HTTP client used for auth-service calls. The
// client is copied so a cookie jar can be attached without mutating the
// caller's instance.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithRedis provides the Redis client the "redis" session backend needs.
func (b *Builder) WithRedis(rc redis.UniversalClient) *Builder {
	b.redis = rc
	return b
}

// WithSessionStore bypasses backend selection and uses the given store.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithFederatedProvider sets the identity-provider client and enables the
// federated flow.
func (b *Builder) WithFederatedProvider(p federated.Provider) *Builder {
	b.provider = p
	b.config.Federated.Enabled = true
	return b
}

// WithAuditSink sets the sink audit events are dispatched to and enables
// auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled toggles the metrics registry.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the request-latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, wires all collaborators and performs
// the synchronous startup session read. It returns a ready [Client] or the
// first error encountered; nothing needs cleanup on failure except a file
// store the builder itself opened, which Build closes.
func (b *Builder) Build(ctx context.Context) (*Client, error) {
	if b.built {
		return nil, ErrBuilderReused
	}
	b.built = true

	cfg := b.config
	if cfg == nil {
		cfg = defaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	store := b.store
	ownsStore := false
	if store == nil {
		var err error
		store, ownsStore, err = buildStore(cfg, b.redis)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
	}

	closeOwned := func() {
		if !ownsStore {
			return
		}
		if fs, ok := store.(*session.FileStore); ok {
			fs.Close()
		}
	}

	metrics := internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Metrics.Enabled,
		EnableLatency: cfg.Metrics.EnableLatencyHistograms,
	})

	var authOpts []AuthContextOption
	if cfg.Session.ExpireOnTokenExpiry {
		inspector := jwt.NewInspector()
		authOpts = append(authOpts, WithTokenExpiry(inspector.Expired))
	}
	authOpts = append(authOpts, WithMalformedHook(func() {
		metrics.Inc(internalmetrics.MetricSessionMalformed)
	}))

	auth, err := NewAuthContext(ctx, store, authOpts...)
	if err != nil {
		closeOwned()
		return nil, fmt.Errorf("build: load session: %w", err)
	}

	var observe func(time.Duration)
	if metrics.Enabled() && cfg.Metrics.EnableLatencyHistograms {
		observe = func(d time.Duration) {
			metrics.Observe(internalmetrics.MetricRequestLatency, d)
		}
	}

	httpClient := b.httpClient
	if httpClient != nil && httpClient.Jar == nil {
		hc := *httpClient
		jar, _ := cookiejar.New(nil)
		hc.Jar = jar
		httpClient = &hc
	}
	api := backend.New(cfg.API.BaseURL(), httpClient, cfg.API.Timeout, observe)

	provider := b.provider
	if provider == nil && cfg.Federated.Enabled {
		if err := cfg.Federated.validateRedirect(); err != nil {
			closeOwned()
			return nil, fmt.Errorf("build: %w", err)
		}
		provider = federated.NewRedirectProvider(
			cfg.Federated.AuthorizeURL,
			cfg.Federated.ClientID,
			cfg.Federated.CallbackURL,
			cfg.Federated.Scopes,
		)
	}

	dispatcher := audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	return &Client{
		config:    cfg,
		store:     store,
		ownsStore: ownsStore,
		auth:      auth,
		backend:   api,
		provider:  provider,
		audit:     dispatcher,
		metrics:   metrics,
	}, nil
}

func buildStore(cfg *Config, rc redis.UniversalClient) (session.Store, bool, error) {
	key := cfg.Session.StorageKey
	switch cfg.Session.Backend {
	case "file":
		fs, err := session.NewFileStore(cfg.Session.FilePath, key)
		if err != nil {
			return nil, false, err
		}
		return fs, true, nil
	case "redis":
		if rc == nil {
			return nil, false, ErrRedisNotWired
		}
		return session.NewRedisStore(rc, cfg.Session.RedisPrefix, key), false, nil
	case "memory":
		return session.NewMemoryStore(), false, nil
	default:
		return nil, false, fmt.Errorf("%w %q", ErrConfigBackend, cfg.Session.Backend)
	}
}
