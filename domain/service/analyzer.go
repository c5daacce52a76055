// Package service defines the ports the pipeline depends on.
package service

import (
	"context"

	"github.com/diffdochq/diffdoc/domain/prompt"
)

// Analyzer produces the narrative text for one prompt unit. Implementations
// call an external model; the pipeline owns retries, timeouts, and result
// ordering, so implementations should fail fast with an error rather than
// retry internally.
type Analyzer interface {
	AnalyzeUnit(ctx context.Context, unit prompt.Unit) (string, error)
}
