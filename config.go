package accredauth

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EnvironmentMode selects which auth-service base URL the client talks
// to. The dashboard historically flipped between a local dev server and
// the deployed API with a single switch, so the config keeps both URLs
// and a mode rather than a single endpoint.
type EnvironmentMode string

const (
	ModeLocal    EnvironmentMode = "local"
	ModeDeployed EnvironmentMode = "deployed"
)

// Config is the root configuration tree. Zero value is not usable;
// start from defaults via [New] or [DefaultConfig] and override fields.
type Config struct {
	API       APIConfig
	Session   SessionStoreConfig
	Federated FederatedConfig
	Guard     GuardConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

// APIConfig describes the auth service the client submits credentials to.
type APIConfig struct {
	// Mode picks which of the two URLs below is active.
	Mode EnvironmentMode
	// LocalURL is the development auth service.
	LocalURL string
	// DeployedURL is the production auth service.
	DeployedURL string
	// Timeout bounds each credential or OTP round trip.
	Timeout time.Duration
}

// BaseURL returns the active auth-service base URL for the configured
// mode.
func (c APIConfig) BaseURL() string {
	if c.Mode == ModeDeployed {
		return c.DeployedURL
	}
	return c.LocalURL
}

// SessionStoreConfig selects and tunes the persistent session backend.
type SessionStoreConfig struct {
	// Backend is one of "file", "redis" or "memory". The file backend is
	// the default: a single-machine client keeps its session in a local
	// bbolt database the way a browser keeps it in localStorage.
	Backend string
	// FilePath locates the bbolt database for the file backend.
	FilePath string
	// RedisPrefix namespaces keys for the redis backend.
	RedisPrefix string
	// StorageKey is the key the session record is stored under. Changing
	// it orphans any previously written session.
	StorageKey string
	// ExpireOnTokenExpiry treats a stored session whose bearer token
	// carries an elapsed exp claim as absent. Off by default: a stored
	// session is valid until explicitly cleared.
	ExpireOnTokenExpiry bool
}

// FederatedConfig configures the redirect-based identity-provider flow.
type FederatedConfig struct {
	Enabled      bool
	AuthorizeURL string
	ClientID     string
	CallbackURL  string
	Scopes       []string
	// UnifySessionStore reconciles federated sign-ins into the same
	// session store the credential flow writes, so the route guard and
	// Identity see one session regardless of how it was established.
	UnifySessionStore bool
}

// validateRedirect checks the fields only the internally constructed
// [federated.RedirectProvider] consumes. An injected provider carries its
// own endpoints, so these fields may stay empty then.
func (c FederatedConfig) validateRedirect() error {
	if strings.TrimSpace(c.AuthorizeURL) == "" {
		return errors.New("federated login needs an authorize url")
	}
	if strings.TrimSpace(c.ClientID) == "" {
		return errors.New("federated login needs a client id")
	}
	if strings.TrimSpace(c.CallbackURL) == "" {
		return errors.New("federated login needs a callback url")
	}
	return nil
}

// GuardConfig sets the redirect targets the route guard uses.
type GuardConfig struct {
	LoginRoute     string
	DashboardRoute string
}

// AuditConfig tunes the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking the flow when the
	// buffer is full.
	DropIfFull bool
}

// MetricsConfig tunes the atomic metrics registry.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration [New] starts from.
func DefaultConfig() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Mode:        ModeLocal,
			LocalURL:    "http://localhost:5000",
			DeployedURL: "",
			Timeout:     15 * time.Second,
		},
		Session: SessionStoreConfig{
			Backend:     "file",
			FilePath:    "accredauth.db",
			RedisPrefix: "accred",
			StorageKey:  "accred_user",
		},
		Federated: FederatedConfig{
			Enabled:           false,
			Scopes:            []string{"openid", "email", "profile"},
			UnifySessionStore: true,
		},
		Guard: GuardConfig{
			LoginRoute:     RouteLogin,
			DashboardRoute: RouteDashboard,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

var (
	ErrConfigNil      = errors.New("config is nil")
	ErrConfigAPIBase  = errors.New("active api base url is empty")
	ErrConfigBackend  = errors.New("unknown session backend")
	ErrConfigKeyEmpty = errors.New("session storage key is empty")
)

// Validate checks the tree for contradictions before Build wires
// anything.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}
	switch c.API.Mode {
	case ModeLocal, ModeDeployed:
	default:
		return fmt.Errorf("unknown environment mode %q", c.API.Mode)
	}
	if strings.TrimSpace(c.API.BaseURL()) == "" {
		return fmt.Errorf("%w (mode %q)", ErrConfigAPIBase, c.API.Mode)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %v", c.API.Timeout)
	}
	switch c.Session.Backend {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("%w %q", ErrConfigBackend, c.Session.Backend)
	}
	if c.Session.Backend == "file" && strings.TrimSpace(c.Session.FilePath) == "" {
		return errors.New("file session backend needs a file path")
	}
	if strings.TrimSpace(c.Session.StorageKey) == "" {
		return ErrConfigKeyEmpty
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("audit buffer size must be positive, got %d", c.Audit.BufferSize)
	}
	if c.Guard.LoginRoute == "" {
		c.Guard.LoginRoute = RouteLogin
	}
	if c.Guard.DashboardRoute == "" {
		c.Guard.DashboardRoute = RouteDashboard
	}
	return nil
}

// cloneConfig deep-copies the tree so Build can freeze its inputs.
func cloneConfig(c *Config) *Config {
	if c == nil {
		return nil
	}
	out := *c
	if c.Federated.Scopes != nil {
		out.Federated.Scopes = append([]string(nil), c.Federated.Scopes...)
	}
	return &out
}
