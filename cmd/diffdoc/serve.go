package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/diffdochq/diffdoc"
	"github.com/diffdochq/diffdoc/infrastructure/api"
	v1 "github.com/diffdochq/diffdoc/infrastructure/api/v1"
	"github.com/diffdochq/diffdoc/internal/config"
	"github.com/diffdochq/diffdoc/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile      string
		settingsFile string
		host         string
		port         int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Settings file (if --settings specified)
  5. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 0.0.0.0)
  PORT                         Server port to listen on (default: 8930)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)

  PIPELINE_*                   Analysis pipeline configuration
    MAX_CHUNK_SIZE             Chunk size in characters (default: 2000)
    OVERLAP                    Chunk overlap in characters (default: 200)
    MAX_CONTEXT_SIZE           Original-code context budget (default: 5000)
    UNIT_BUDGET                Prompt budget per analysis unit (default: 12000)
    CONCURRENCY_WIDTH          Concurrent analysis calls (default: 3)
    RETRY_LIMIT                Retries per failed analysis call (default: 3)
    CALL_TIMEOUT               Per-call timeout in seconds (default: 60)

  ANALYSIS_ENDPOINT_*          Analysis AI service configuration
    BASE_URL                   Base URL (e.g., https://api.groq.com/openai/v1)
    MODEL                      Model identifier (default: llama-3.3-70b-versatile)
    API_KEY                    API key for authentication
    MAX_TOKENS                 Completion token cap (default: 3000)
    TEMPERATURE                Sampling temperature (default: 0)
    TIMEOUT                    Request timeout in seconds (default: 60)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, settingsFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&settingsFile, "settings", "", "Path to YAML settings file")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8930)")

	return cmd
}

func runServe(envFile, settingsFile, host string, port int) error {
	cfg, err := loadConfig(envFile, settingsFile)
	if err != nil {
		return err
	}

	cfg = applyServeOverrides(cfg, host, port)

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	client, err := diffdoc.New(
		diffdoc.WithConfig(cfg),
		diffdoc.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create diffdoc client: %w", err)
	}

	addr := cfg.Addr()
	server := api.NewServer(addr, slogger)

	explainRouter := v1.NewExplainRouter(client.Submissions, slogger)
	server.Router().Route("/api/v1", func(r chi.Router) {
		r.Mount("/explain", explainRouter.Routes())
	})

	server.Router().Get("/health", healthHandler)
	server.Router().Get("/healthz", healthHandler)

	server.Router().Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"name":"diffdoc","version":"%s"}`, version)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		cancel()
		if err := server.Shutdown(ctx); err != nil {
			slogger.Error("shutdown error", "error", err)
		}
	}()

	slogger.Info("starting server", "addr", addr, "version", version)
	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
