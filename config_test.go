package accredauth

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.API.BaseURL() != "http://localhost:5000" {
		t.Fatalf("default base url = %q", cfg.API.BaseURL())
	}
	if cfg.Session.StorageKey != "accred_user" {
		t.Fatalf("default storage key = %q", cfg.Session.StorageKey)
	}
}

func TestAPIConfigModeSwitch(t *testing.T) {
	api := APIConfig{
		Mode:        ModeLocal,
		LocalURL:    "http://localhost:5000",
		DeployedURL: "https://api.example.com",
	}
	if api.BaseURL() != "http://localhost:5000" {
		t.Fatalf("local base url = %q", api.BaseURL())
	}
	api.Mode = ModeDeployed
	if api.BaseURL() != "https://api.example.com" {
		t.Fatalf("deployed base url = %q", api.BaseURL())
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.API.Mode = "staging" }},
		{"empty active url", func(c *Config) { c.API.Mode = ModeDeployed; c.API.DeployedURL = "" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"unknown backend", func(c *Config) { c.Session.Backend = "dynamo" }},
		{"empty storage key", func(c *Config) { c.Session.StorageKey = " " }},
		{"audit zero buffer", func(c *Config) { c.Audit.Enabled = true; c.Audit.BufferSize = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadConfigFileAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accredauth.toml")
	body := `
[api]
mode = "deployed"
deployed_url = "https://api.example.com"
timeout = "5s"

[session]
backend = "memory"
storage_key = "accred_user"

[metrics]
enabled = false
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("ACCREDAUTH_API_URL", "https://override.example.com")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Mode != ModeDeployed {
		t.Fatalf("mode = %q", cfg.API.Mode)
	}
	// Environment wins over the file.
	if cfg.API.BaseURL() != "https://override.example.com" {
		t.Fatalf("base url = %q", cfg.API.BaseURL())
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.API.Timeout)
	}
	if cfg.Session.Backend != "memory" {
		t.Fatalf("backend = %q", cfg.Session.Backend)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("metrics should be disabled by file")
	}
	// Untouched fields keep their defaults.
	if !cfg.Federated.UnifySessionStore {
		t.Fatalf("unify default lost")
	}
}

func TestCloneConfigIsDeep(t *testing.T) {
	cfg := defaultConfig()
	cfg.Federated.Scopes = []string{"openid"}

	clone := cloneConfig(cfg)
	clone.Federated.Scopes[0] = "email"
	if cfg.Federated.Scopes[0] != "openid" {
		t.Fatalf("clone shares scope slice")
	}
}
