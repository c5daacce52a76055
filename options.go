package diffdoc

import (
	"github.com/diffdochq/diffdoc/domain/prompt"
	domainservice "github.com/diffdochq/diffdoc/domain/service"
	"github.com/diffdochq/diffdoc/infrastructure/provider"
	"github.com/diffdochq/diffdoc/internal/config"
	"github.com/diffdochq/diffdoc/internal/log"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	appConfig config.AppConfig
	analyzer  domainservice.Analyzer
	generator provider.TextGenerator
	sizer     prompt.Sizer
	logger    *log.Logger
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// This ensures all defaults come from the single source of truth.
func newClientConfig() *clientConfig {
	return &clientConfig{
		appConfig: config.NewAppConfig(),
	}
}

// rebuild replaces parts of the application configuration while keeping the
// rest intact.
func (c *clientConfig) rebuild(opts ...config.AppConfigOption) {
	base := []config.AppConfigOption{
		config.WithHost(c.appConfig.Host()),
		config.WithPort(c.appConfig.Port()),
		config.WithLogLevel(c.appConfig.LogLevel()),
		config.WithLogFormat(c.appConfig.LogFormat()),
		config.WithPipelineConfig(c.appConfig.Pipeline()),
		config.WithEndpointConfig(c.appConfig.Endpoint()),
	}
	c.appConfig = config.NewAppConfigWithOptions(append(base, opts...)...)
}

// Option configures the Client.
type Option func(*clientConfig)

// WithConfig replaces the whole application configuration.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.appConfig = cfg
	}
}

// WithOpenAI sets the API key of the analysis endpoint. The endpoint keeps
// its configured base URL and model.
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		endpoint := config.NewEndpointWithOptions(
			config.WithBaseURL(c.appConfig.Endpoint().BaseURL()),
			config.WithModel(c.appConfig.Endpoint().Model()),
			config.WithAPIKey(apiKey),
			config.WithMaxTokens(c.appConfig.Endpoint().MaxTokens()),
			config.WithTemperature(c.appConfig.Endpoint().Temperature()),
			config.WithEndpointTimeout(c.appConfig.Endpoint().Timeout()),
		)
		c.rebuild(config.WithEndpointConfig(endpoint))
	}
}

// WithEndpoint replaces the analysis endpoint configuration.
func WithEndpoint(endpoint config.Endpoint) Option {
	return func(c *clientConfig) {
		c.rebuild(config.WithEndpointConfig(endpoint))
	}
}

// WithPipeline replaces the pipeline configuration.
func WithPipeline(pipeline config.Pipeline) Option {
	return func(c *clientConfig) {
		c.rebuild(config.WithPipelineConfig(pipeline))
	}
}

// WithAnalyzer sets a custom analyzer, bypassing the LLM provider entirely.
func WithAnalyzer(a domainservice.Analyzer) Option {
	return func(c *clientConfig) {
		c.analyzer = a
	}
}

// WithTextGenerator sets a custom text generation provider.
func WithTextGenerator(g provider.TextGenerator) Option {
	return func(c *clientConfig) {
		c.generator = g
	}
}

// WithSizer sets a custom prompt size measure. Defaults to token counting,
// falling back to rune counting when no token encoding is available.
func WithSizer(s prompt.Sizer) Option {
	return func(c *clientConfig) {
		c.sizer = s
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
