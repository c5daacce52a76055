package diffdoc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appservice "github.com/diffdochq/diffdoc/application/service"
	"github.com/diffdochq/diffdoc/domain/prompt"
	"github.com/diffdochq/diffdoc/domain/source"
	"github.com/diffdochq/diffdoc/domain/story"
	"github.com/diffdochq/diffdoc/internal/config"
)

type stubAnalyzer struct{}

func (stubAnalyzer) AnalyzeUnit(_ context.Context, unit prompt.Unit) (string, error) {
	return "## Solution\nthe change is fine\n", nil
}

func TestNew_NoAnalyzerFails(t *testing.T) {
	_, err := New()
	require.ErrorIs(t, err, ErrNoAnalyzer)
}

func TestNew_WithAnalyzer(t *testing.T) {
	client, err := New(
		WithAnalyzer(stubAnalyzer{}),
		WithSizer(prompt.RuneSizer{}),
	)
	require.NoError(t, err)
	require.NotNil(t, client.Submissions)
}

func TestNew_WithOpenAIKeepsEndpointDefaults(t *testing.T) {
	client, err := New(
		WithOpenAI("test-key"),
		WithSizer(prompt.RuneSizer{}),
	)
	require.NoError(t, err)

	endpoint := client.Config().Endpoint()
	assert.Equal(t, "test-key", endpoint.APIKey())
	assert.Equal(t, config.DefaultEndpointModel, endpoint.Model())
	assert.True(t, endpoint.IsConfigured())
}

func TestNew_InvalidPipelineFails(t *testing.T) {
	_, err := New(
		WithAnalyzer(stubAnalyzer{}),
		WithPipeline(config.NewPipeline().WithMaxChunkSize(-1)),
	)
	require.Error(t, err)
}

func TestClient_Explain(t *testing.T) {
	client, err := New(
		WithAnalyzer(stubAnalyzer{}),
		WithSizer(prompt.RuneSizer{}),
		WithPipeline(config.NewPipeline().WithCallTimeout(time.Second)),
	)
	require.NoError(t, err)

	doc, err := client.Explain(context.Background(), appservice.Request{
		Modified: source.NewDocument("tax.go", "package tax\n\nfunc VAT() int { return 21 }\n"),
		Story:    story.New("Add VAT", "charge VAT on invoices"),
	})
	require.NoError(t, err)

	markdown := doc.Markdown()
	assert.Contains(t, markdown, "## User Story Name")
	assert.Contains(t, markdown, "the change is fine")
}
