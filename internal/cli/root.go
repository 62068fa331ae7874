// Package cli wires the cobra command tree. The bare command starts the TUI;
// subcommands cover the same operations for scripting.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/calebwray/tome/internal/config"
	"github.com/calebwray/tome/internal/tui"
	"github.com/calebwray/tome/pkg/client"
	"github.com/calebwray/tome/pkg/session"
)

var cfgFile string

// Execute is the main entry point called from main.go.
func Execute(version string) {
	rootCmd := &cobra.Command{
		Use:     "tome",
		Short:   "Grounded Q&A over your documents with Gemini File Search",
		Long:    "tome uploads documents into Gemini File Search stores and answers questions grounded in what they say.",
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ./tome.yaml, then ~/.config/tome/config.yaml)")

	rootCmd.AddCommand(newStoresCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newSamplesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads the config, honoring --config when set.
func initConfig() (*config.AppConfig, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

// newSession builds a session, seeding the credential from the configured
// environment variable when present.
func newSession(cfg *config.AppConfig) *session.Session {
	sess := session.New()
	if key := os.Getenv(cfg.API.APIKeyEnv); key != "" {
		sess.SetCredential(key)
	}
	return sess
}

// newClient requires a credential; subcommands fail fast without one since
// they have no setup gate to fall back on.
func newClient(cfg *config.AppConfig, sess *session.Session) (*client.Client, error) {
	key, err := sess.RequireCredential()
	if err != nil {
		return nil, fmt.Errorf("%w (export %s)", err, cfg.API.APIKeyEnv)
	}
	return client.New(cfg.API.BaseURL, key), nil
}

func runTUI() error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}
	sess := newSession(cfg)
	p := tea.NewProgram(tui.NewApp(cfg, sess), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
