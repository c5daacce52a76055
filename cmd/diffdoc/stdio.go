package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diffdochq/diffdoc"
	"github.com/diffdochq/diffdoc/internal/log"
	"github.com/diffdochq/diffdoc/internal/mcp"
)

func stdioCmd() *cobra.Command {
	var (
		envFile      string
		settingsFile string
	)

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants submit code changes for analysis via the explain_change tool.
Configuration is loaded from environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile, settingsFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().StringVar(&settingsFile, "settings", "", "Path to YAML settings file")

	return cmd
}

func runStdio(envFile, settingsFile string) error {
	cfg, err := loadConfig(envFile, settingsFile)
	if err != nil {
		return err
	}

	// Log to stderr: stdout carries the MCP protocol.
	logger := log.NewLoggerWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel())
	slogger := logger.Slog()

	client, err := diffdoc.New(
		diffdoc.WithConfig(cfg),
		diffdoc.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create diffdoc client: %w", err)
	}

	slogger.Info("starting MCP server", "version", version)

	mcpServer := mcp.NewServer(client.Submissions, version, slogger)

	return mcpServer.ServeStdio()
}
