// Package cli defines Cobra command definitions for the vibe-console CLI.
// This file contains the root command, version flag, and help output.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ftorstensson/vibe-console/internal/config"
	"github.com/ftorstensson/vibe-console/internal/log"
	"github.com/ftorstensson/vibe-console/internal/tui"
	"github.com/ftorstensson/vibe-console/internal/tui/app"
)

var (
	verbose bool
	baseURL string
	version = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "vibe-console",
	Short: "Terminal chat console for the vibe agent engine",
	Long: `Vibe Console is a terminal chat client for the vibe agent engine.
It waits for the engine to come up, then streams answers into the
transcript as the agent produces them.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When run without a subcommand, launch the TUI if TTY, show help otherwise
		if !tui.IsTTY() {
			return cmd.Help()
		}

		cfg := loadConfig()

		// The TUI owns the terminal, so logs go to a file.
		logFile, err := log.SetupFile(config.Dir(), verbose)
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		defer logFile.Close()

		return tui.Run(app.New(cfg))
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the user config, falling back to defaults when no
// config file exists. The --base-url flag wins over both.
func loadConfig() *config.Config {
	cfg, err := config.ReadConfig(config.Dir())
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if baseURL != "" {
		cfg.Service.BaseURL = baseURL
	}
	return cfg
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Agent engine base URL (overrides config)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(statusCmd)
}
