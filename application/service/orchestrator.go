package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/diffdochq/diffdoc/domain/narrative"
	"github.com/diffdochq/diffdoc/domain/prompt"
	"github.com/diffdochq/diffdoc/domain/service"
	"github.com/diffdochq/diffdoc/internal/config"
	"github.com/diffdochq/diffdoc/internal/log"
)

// Orchestrator drives the per-unit analysis calls with bounded concurrency
// and merges the results into the submission's document in sequence order.
type Orchestrator struct {
	analyzer    service.Analyzer
	width       int
	retryLimit  int
	callTimeout time.Duration
	logger      *log.Logger
}

// NewOrchestrator creates an Orchestrator from the pipeline configuration.
func NewOrchestrator(analyzer service.Analyzer, pipeline config.Pipeline, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		analyzer:    analyzer,
		width:       pipeline.ConcurrencyWidth(),
		retryLimit:  pipeline.RetryLimit(),
		callTimeout: pipeline.CallTimeout(),
		logger:      logger,
	}
}

// Analyze runs the analysis for every unit and appends the results to doc
// in sequence order. A unit whose retries exhaust becomes a placeholder
// block; the submission fails only when every unit fails or the context is
// cancelled. On cancellation in-flight calls are abandoned and doc is left
// incomplete.
func (o *Orchestrator) Analyze(ctx context.Context, units []prompt.Unit, doc *narrative.Document) error {
	results := make([]narrative.Result, len(units))

	g := new(errgroup.Group)
	g.SetLimit(o.width)

	for i, unit := range units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			text, err := o.analyzeWithRetry(ctx, unit)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				o.logger.WarnContext(ctx, "analysis failed after retries",
					"unit", unit.Index(), "error", err)
				results[i] = narrative.NewFailedResult(unit.Index())
				return nil
			}

			results[i] = narrative.NewResult(unit.Index(), text)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("submission cancelled: %w", err)
	}

	failed := 0
	for _, r := range results {
		doc.Append(r)
		if r.Failed() {
			failed++
		}
	}
	if len(results) > 0 && failed == len(results) {
		return ErrSubmissionFailed
	}

	o.logger.InfoContext(ctx, "analysis complete",
		"units", len(units), "failed", failed)
	return nil
}

// analyzeWithRetry issues one analysis call with a per-call timeout,
// retrying with exponential backoff up to the configured limit.
func (o *Orchestrator) analyzeWithRetry(ctx context.Context, unit prompt.Unit) (string, error) {
	var text string

	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		defer cancel()

		out, err := o.analyzer.AnalyzeUnit(callCtx, unit)
		if err != nil {
			return err
		}
		text = out
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(o.retryLimit)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", fmt.Errorf("unit %d: retries exhausted: %w", unit.Index(), err)
	}
	return text, nil
}
