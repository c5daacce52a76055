package analyzer

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffdochq/diffdoc/domain/chunk"
	diffcontext "github.com/diffdochq/diffdoc/domain/context"
	"github.com/diffdochq/diffdoc/domain/prompt"
	"github.com/diffdochq/diffdoc/domain/story"
	"github.com/diffdochq/diffdoc/infrastructure/provider"
	"github.com/diffdochq/diffdoc/internal/config"
)

type fakeGenerator struct {
	lastReq provider.ChatCompletionRequest
	content string
	err     error
}

func (f *fakeGenerator) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return provider.ChatCompletionResponse{}, f.err
	}
	return provider.NewChatCompletionResponse(f.content, "stop", provider.NewUsage(10, 20, 30)), nil
}

func testUnit(t *testing.T) prompt.Unit {
	t.Helper()
	chunks, err := chunk.Split("func pay() {}", chunk.Params{MaxSize: 100, Overlap: 0})
	require.NoError(t, err)
	assembler, err := prompt.NewAssembler(prompt.DefaultBudget, nil)
	require.NoError(t, err)
	u, err := assembler.Assemble(chunks[0], diffcontext.Window{}, story.New("Pay flow", "desc"), "")
	require.NoError(t, err)
	return u
}

func endpointConfig() config.Endpoint {
	return config.NewEndpointWithOptions(
		config.WithAPIKey("sk-test"),
		config.WithMaxTokens(3000),
		config.WithTemperature(0),
	)
}

func TestAnalyzeUnit_BuildsStructuredPrompt(t *testing.T) {
	gen := &fakeGenerator{content: "## Solution\nok\n"}
	a := NewLLMAnalyzer(gen, endpointConfig(), nil)

	text, err := a.AnalyzeUnit(context.Background(), testUnit(t))
	require.NoError(t, err)
	assert.Equal(t, "## Solution\nok", text)

	msgs := gen.lastReq.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role())
	assert.Contains(t, msgs[0].Content(), "differential code analysis")

	user := msgs[1].Content()
	assert.True(t, strings.HasPrefix(user, "Analyze these code changes:"))
	assert.Contains(t, user, "User Story: Pay flow")
	assert.Contains(t, user, "func pay() {}")
	assert.Contains(t, user, "## Solution")
	assert.Contains(t, user, "### How It Works")
	assert.Contains(t, user, "### Impacts")

	assert.Equal(t, 3000, gen.lastReq.MaxTokens())
}

func TestAnalyzeUnit_StripsThinkingTags(t *testing.T) {
	gen := &fakeGenerator{content: "<think>hmm, rounding</think>## Solution\nrounded\n"}
	a := NewLLMAnalyzer(gen, endpointConfig(), nil)

	text, err := a.AnalyzeUnit(context.Background(), testUnit(t))
	require.NoError(t, err)

	assert.NotContains(t, text, "<think>")
	assert.Contains(t, text, "## Solution")
}

func TestAnalyzeUnit_EmptyCompletionIsError(t *testing.T) {
	gen := &fakeGenerator{content: "  \n"}
	a := NewLLMAnalyzer(gen, endpointConfig(), nil)

	_, err := a.AnalyzeUnit(context.Background(), testUnit(t))
	require.Error(t, err)
}

func TestAnalyzeUnit_PermanentErrorsSkipRetry(t *testing.T) {
	gen := &fakeGenerator{err: &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}}
	a := NewLLMAnalyzer(gen, endpointConfig(), nil)

	_, err := a.AnalyzeUnit(context.Background(), testUnit(t))
	require.Error(t, err)

	var permanent *backoff.PermanentError
	assert.ErrorAs(t, err, &permanent)
}

func TestAnalyzeUnit_TransientErrorsStayRetryable(t *testing.T) {
	gen := &fakeGenerator{err: &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}}
	a := NewLLMAnalyzer(gen, endpointConfig(), nil)

	_, err := a.AnalyzeUnit(context.Background(), testUnit(t))
	require.Error(t, err)

	var permanent *backoff.PermanentError
	assert.False(t, errors.As(err, &permanent))
}

func TestCleanThinkingTags(t *testing.T) {
	assert.Equal(t, "before after", cleanThinkingTags("before <think>reasoning</think>after"))
	assert.Equal(t, "unclosed rest", cleanThinkingTags("unclosed <think>rest"))
	assert.Equal(t, "plain", cleanThinkingTags("plain"))
}
