package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/graphway/graphway/internal/config"
)

// Build-time variables set via ldflags.
var (
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:8000"

var (
	flagURL     string
	flagToken   string
	flagFmt     string
	flagProfile string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("graphway version %s (commit: %s, built: %s)", config.Version, commit, buildDate)
	}
	return fmt.Sprintf("graphway version %s-dev", config.Version)
}

type configFile struct {
	URL        string `yaml:"url"`
	AdminToken string `yaml:"admin_token"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL        string `yaml:"url"`
	AdminToken string `yaml:"admin_token"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "graphway",
		Short:   "graphway: edit and view contest problem graphs",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			applyColor()
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Contest store URL (env: GRAPHWAY_URL)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "admin-token", "", "Admin token (env: GRAPHWAY_ADMIN_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "table", "Output format: table|json|quiet")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Profile from ~/.graphway/config.yaml")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newTeamCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig fills unset flags from the environment, then from the config
// file. Saved login credentials are consulted later, when a store is opened.
func resolveConfig() {
	if flagURL == defaultURL {
		if v := os.Getenv("GRAPHWAY_URL"); v != "" {
			flagURL = v
		}
	}
	if flagToken == "" {
		flagToken = os.Getenv("GRAPHWAY_ADMIN_TOKEN")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(home, ".graphway", "config.yaml"))
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}

	resolvedURL := cfg.URL
	resolvedToken := cfg.AdminToken
	if cfg.Profiles != nil {
		profileName := flagProfile
		if profileName == "" {
			profileName = cfg.ActiveProfile
		}
		if profileName == "" {
			profileName = "default"
		}
		if p, ok := cfg.Profiles[profileName]; ok {
			if p.URL != "" {
				resolvedURL = p.URL
			}
			if p.AdminToken != "" {
				resolvedToken = p.AdminToken
			}
		}
	}
	if flagURL == defaultURL && resolvedURL != "" {
		flagURL = resolvedURL
	}
	if flagToken == "" && resolvedToken != "" {
		flagToken = resolvedToken
	}
}
