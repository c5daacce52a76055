// Package analyzer provides the AI-backed implementation of the analysis
// port: it turns one prompt unit into narrative text.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/diffdochq/diffdoc/domain/prompt"
	"github.com/diffdochq/diffdoc/domain/service"
	"github.com/diffdochq/diffdoc/infrastructure/provider"
	"github.com/diffdochq/diffdoc/internal/config"
	"github.com/diffdochq/diffdoc/internal/log"
)

// LLMAnalyzer analyzes prompt units through a TextGenerator.
type LLMAnalyzer struct {
	generator   provider.TextGenerator
	maxTokens   int
	temperature float32
	logger      *log.Logger
}

// NewLLMAnalyzer creates an LLMAnalyzer.
func NewLLMAnalyzer(generator provider.TextGenerator, cfg config.Endpoint, logger *log.Logger) *LLMAnalyzer {
	if logger == nil {
		logger = log.Default()
	}
	return &LLMAnalyzer{
		generator:   generator,
		maxTokens:   cfg.MaxTokens(),
		temperature: cfg.Temperature(),
		logger:      logger,
	}
}

// AnalyzeUnit sends one prompt unit for analysis and returns the narrative
// text. Errors that retrying cannot fix (bad request, auth failure) are
// marked permanent so the orchestrator's retry policy skips them.
func (a *LLMAnalyzer) AnalyzeUnit(ctx context.Context, unit prompt.Unit) (string, error) {
	messages := []provider.Message{
		provider.SystemMessage(systemPrompt),
		provider.UserMessage(buildUserPrompt(unit)),
	}

	req := provider.NewChatCompletionRequest(messages).
		WithMaxTokens(a.maxTokens).
		WithTemperature(a.temperature)

	resp, err := a.generator.ChatCompletion(ctx, req)
	if err != nil {
		if !provider.IsRetryable(err) {
			return "", backoff.Permanent(fmt.Errorf("analyze unit %d: %w", unit.Index(), err))
		}
		return "", fmt.Errorf("analyze unit %d: %w", unit.Index(), err)
	}

	text := strings.TrimSpace(cleanThinkingTags(resp.Content()))
	if text == "" {
		return "", fmt.Errorf("analyze unit %d: empty completion", unit.Index())
	}

	a.logger.DebugContext(ctx, "unit analyzed",
		"unit", unit.Index(), "completion_tokens", resp.Usage().CompletionTokens())
	return text, nil
}

// cleanThinkingTags removes any <think>...</think> tags from model output.
// Some models use these for chain-of-thought reasoning.
func cleanThinkingTags(text string) string {
	result := text
	for {
		start := strings.Index(result, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(result, "</think>")
		if end == -1 {
			// Unclosed tag, just remove the opening tag
			result = result[:start] + result[start+len("<think>"):]
			continue
		}
		result = result[:start] + result[end+len("</think>"):]
	}
	return result
}

// Ensure LLMAnalyzer implements the analysis port.
var _ service.Analyzer = (*LLMAnalyzer)(nil)
