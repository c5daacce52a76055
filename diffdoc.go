// Package diffdoc turns a pasted code change plus a user story into an
// ordered technical document explaining the change.
//
// The pipeline chunks the modified code, extracts the most relevant spans of
// the original code for each chunk, assembles bounded analysis prompts, fans
// them out to an LLM with bounded concurrency and retries, and merges the
// results back into a single document in source order.
//
// Basic usage:
//
//	client, err := diffdoc.New(
//	    diffdoc.WithOpenAI(os.Getenv("ANALYSIS_ENDPOINT_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := client.Explain(ctx, appservice.Request{
//	    Modified: source.NewDocument("tax.go", modifiedCode),
//	    Original: source.NewDocument("tax.go", originalCode),
//	    Story:    story.New("Add VAT", "charge VAT on invoices"),
//	})
//
//	fmt.Println(doc.Markdown())
package diffdoc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	appservice "github.com/diffdochq/diffdoc/application/service"
	"github.com/diffdochq/diffdoc/domain/narrative"
	"github.com/diffdochq/diffdoc/domain/prompt"
	"github.com/diffdochq/diffdoc/infrastructure/analyzer"
	"github.com/diffdochq/diffdoc/infrastructure/provider"
	"github.com/diffdochq/diffdoc/infrastructure/tokenizer"
	"github.com/diffdochq/diffdoc/internal/config"
	"github.com/diffdochq/diffdoc/internal/log"
)

// ErrNoAnalyzer is returned by New when no analyzer can be constructed:
// neither WithAnalyzer nor WithTextGenerator was given and the endpoint
// configuration has no API key.
var ErrNoAnalyzer = errors.New("diffdoc: no analyzer configured and analysis endpoint has no API key")

// Client is the main entry point for the diffdoc library.
//
// Access the pipeline via the Submissions field:
//
//	client.Submissions.Explain(ctx, req)
type Client struct {
	// Submissions runs the full explain pipeline for one submission.
	Submissions *appservice.Submission

	cfg    config.AppConfig
	logger *log.Logger
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.NewLogger(cfg.appConfig)
	}

	if err := cfg.appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("diffdoc: %w", err)
	}

	anl := cfg.analyzer
	if anl == nil {
		generator := cfg.generator
		if generator == nil {
			if !cfg.appConfig.Endpoint().IsConfigured() {
				return nil, ErrNoAnalyzer
			}
			generator = provider.NewOpenAIProvider(cfg.appConfig.Endpoint())
		}
		anl = analyzer.NewLLMAnalyzer(generator, cfg.appConfig.Endpoint(), logger)
	}

	sizer := cfg.sizer
	if sizer == nil {
		tokenSizer, err := tokenizer.NewTiktokenSizer(tokenizer.DefaultEncoding)
		if err != nil {
			logger.Warn("token sizer unavailable, measuring prompts in runes", slog.Any("error", err))
			sizer = prompt.RuneSizer{}
		} else {
			sizer = tokenSizer
		}
	}

	client := &Client{
		cfg:    cfg.appConfig,
		logger: logger,
	}
	client.Submissions = appservice.NewSubmission(anl, cfg.appConfig.Pipeline(), sizer, logger)

	return client, nil
}

// Explain runs the full pipeline for one submission.
func (c *Client) Explain(ctx context.Context, req appservice.Request) (*narrative.Document, error) {
	return c.Submissions.Explain(ctx, req)
}

// Config returns the resolved application configuration.
func (c *Client) Config() config.AppConfig {
	return c.cfg
}

// Logger returns the client's logger.
func (c *Client) Logger() *log.Logger {
	return c.logger
}
