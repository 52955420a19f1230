package accredauth

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors Config with TOML tags and pointer fields so a file
// only overrides what it mentions.
type fileConfig struct {
	API struct {
		Mode        *string `toml:"mode"`
		LocalURL    *string `toml:"local_url"`
		DeployedURL *string `toml:"deployed_url"`
		Timeout     *string `toml:"timeout"`
	} `toml:"api"`
	Session struct {
		Backend             *string `toml:"backend"`
		FilePath            *string `toml:"file_path"`
		RedisPrefix         *string `toml:"redis_prefix"`
		StorageKey          *string `toml:"storage_key"`
		ExpireOnTokenExpiry *bool   `toml:"expire_on_token_expiry"`
	} `toml:"session"`
	Federated struct {
		Enabled           *bool    `toml:"enabled"`
		AuthorizeURL      *string  `toml:"authorize_url"`
		ClientID          *string  `toml:"client_id"`
		CallbackURL       *string  `toml:"callback_url"`
		Scopes            []string `toml:"scopes"`
		UnifySessionStore *bool    `toml:"unify_session_store"`
	} `toml:"federated"`
	Audit struct {
		Enabled    *bool `toml:"enabled"`
		BufferSize *int  `toml:"buffer_size"`
		DropIfFull *bool `toml:"drop_if_full"`
	} `toml:"audit"`
	Metrics struct {
		Enabled                 *bool `toml:"enabled"`
		EnableLatencyHistograms *bool `toml:"enable_latency_histograms"`
	} `toml:"metrics"`
}

// LoadConfig reads a TOML config file over the defaults, then overlays
// ACCREDAUTH_* environment variables. Path may be empty to load from
// environment only.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := fc.apply(cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *fileConfig) apply(cfg *Config) error {
	if f.API.Mode != nil {
		cfg.API.Mode = EnvironmentMode(*f.API.Mode)
	}
	if f.API.LocalURL != nil {
		cfg.API.LocalURL = *f.API.LocalURL
	}
	if f.API.DeployedURL != nil {
		cfg.API.DeployedURL = *f.API.DeployedURL
	}
	if f.API.Timeout != nil {
		d, err := time.ParseDuration(*f.API.Timeout)
		if err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
		cfg.API.Timeout = d
	}
	if f.Session.Backend != nil {
		cfg.Session.Backend = *f.Session.Backend
	}
	if f.Session.FilePath != nil {
		cfg.Session.FilePath = *f.Session.FilePath
	}
	if f.Session.RedisPrefix != nil {
		cfg.Session.RedisPrefix = *f.Session.RedisPrefix
	}
	if f.Session.StorageKey != nil {
		cfg.Session.StorageKey = *f.Session.StorageKey
	}
	if f.Session.ExpireOnTokenExpiry != nil {
		cfg.Session.ExpireOnTokenExpiry = *f.Session.ExpireOnTokenExpiry
	}
	if f.Federated.Enabled != nil {
		cfg.Federated.Enabled = *f.Federated.Enabled
	}
	if f.Federated.AuthorizeURL != nil {
		cfg.Federated.AuthorizeURL = *f.Federated.AuthorizeURL
	}
	if f.Federated.ClientID != nil {
		cfg.Federated.ClientID = *f.Federated.ClientID
	}
	if f.Federated.CallbackURL != nil {
		cfg.Federated.CallbackURL = *f.Federated.CallbackURL
	}
	if f.Federated.Scopes != nil {
		cfg.Federated.Scopes = f.Federated.Scopes
	}
	if f.Federated.UnifySessionStore != nil {
		cfg.Federated.UnifySessionStore = *f.Federated.UnifySessionStore
	}
	if f.Audit.Enabled != nil {
		cfg.Audit.Enabled = *f.Audit.Enabled
	}
	if f.Audit.BufferSize != nil {
		cfg.Audit.BufferSize = *f.Audit.BufferSize
	}
	if f.Audit.DropIfFull != nil {
		cfg.Audit.DropIfFull = *f.Audit.DropIfFull
	}
	if f.Metrics.Enabled != nil {
		cfg.Metrics.Enabled = *f.Metrics.Enabled
	}
	if f.Metrics.EnableLatencyHistograms != nil {
		cfg.Metrics.EnableLatencyHistograms = *f.Metrics.EnableLatencyHistograms
	}
	return nil
}

// applyEnv overlays the small set of variables a deployment commonly
// flips without editing the file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ACCREDAUTH_ENV"); v != "" {
		cfg.API.Mode = EnvironmentMode(v)
	}
	if v := os.Getenv("ACCREDAUTH_LOCAL_URL"); v != "" {
		cfg.API.LocalURL = v
	}
	if v := os.Getenv("ACCREDAUTH_API_URL"); v != "" {
		cfg.API.DeployedURL = v
	}
	if v := os.Getenv("ACCREDAUTH_SESSION_FILE"); v != "" {
		cfg.Session.FilePath = v
	}
	if v := os.Getenv("ACCREDAUTH_STORAGE_KEY"); v != "" {
		cfg.Session.StorageKey = v
	}
}
