// Package cmd provides the CLI commands for the MediLink portal.
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/medilink/portal/auth"
	"github.com/medilink/portal/auth/filerepo"
	"github.com/medilink/portal/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "MediLink Portal - appointment booking front-end",
	Long: `MediLink Portal is a local front-end for the MediLink appointment API.

It keeps a single signed-in session on disk and attaches it to every API
request, refreshing the access token transparently when it expires.

Quick start:
  1. Create a config file: medilink.yaml
  2. Run: portal serve
  3. Open http://localhost:8080

Configuration:
  Config is loaded from medilink.yaml in the current directory,
  $HOME/.medilink/, or /etc/medilink/.

  Environment variables can override config values with the MEDILINK_ prefix.
  Example: MEDILINK_API_BASE_URL=https://api.example.com`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./medilink.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}

// newStore builds the session store every command shares: configuration,
// the on-disk session repo, and the store over the auth endpoints.
func newStore() (config.Config, *auth.Store, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load configuration")
	}

	repo := filerepo.New(cfg.GetSessionFile())
	store, err := auth.NewStore(cfg.GetAuthBaseURL(), repo)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create session store")
	}
	return cfg, store, nil
}
