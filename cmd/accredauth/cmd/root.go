package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/anirudhv/accredauth"
)

var (
	flagConfig      string
	flagEnv         string
	flagAPIURL      string
	flagSessionFile string
)

var rootCmd = &cobra.Command{
	Use:   "accredauth",
	Short: "Session tooling for the accreditation dashboard",
	Long: `Command-line access to the accreditation dashboard's auth service:
log in with the two-step OTP flow, inspect the stored session, and log out.
The session is persisted locally and shared with anything else pointed at
the same session file.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "", `environment mode: "local" or "deployed"`)
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api", "", "override the active auth-service base URL")
	rootCmd.PersistentFlags().StringVar(&flagSessionFile, "session-file", "", "path to the session database")
}

// loadConfig builds the effective configuration from file, environment
// and flags, flags winning.
func loadConfig() (*accredauth.Config, error) {
	cfg, err := accredauth.LoadConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagEnv != "" {
		cfg.API.Mode = accredauth.EnvironmentMode(flagEnv)
	}
	if flagAPIURL != "" {
		switch cfg.API.Mode {
		case accredauth.ModeDeployed:
			cfg.API.DeployedURL = flagAPIURL
		default:
			cfg.API.LocalURL = flagAPIURL
		}
	}
	if flagSessionFile != "" {
		cfg.Session.Backend = "file"
		cfg.Session.FilePath = flagSessionFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(ctx context.Context) (*accredauth.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return accredauth.New().WithConfig(cfg).Build(ctx)
}
