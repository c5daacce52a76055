// Package main is the entry point for the diffdoc CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diffdochq/diffdoc/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diffdoc",
		Short: "Diffdoc code change explanation server",
		Long:  `Diffdoc analyzes a code change against a user story and produces an ordered technical document explaining the change.`,
	}

	cmd.AddCommand(explainCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file, environment variables and
// an optional settings file.
func loadConfig(envFile, settingsFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile, settingsFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
