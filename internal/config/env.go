// Package config provides application configuration.
package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., PIPELINE_MAX_CHUNK_SIZE).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8930)
	Port int `envconfig:"PORT" default:"8930"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// Pipeline configures the analysis pipeline.
	Pipeline PipelineEnv `envconfig:"PIPELINE"`

	// AnalysisEndpoint configures the analysis model endpoint.
	AnalysisEndpoint EndpointEnv `envconfig:"ANALYSIS_ENDPOINT"`
}

// PipelineEnv holds environment configuration for the pipeline.
type PipelineEnv struct {
	// MaxChunkSize is the maximum chunk size in budget units.
	// Env: PIPELINE_MAX_CHUNK_SIZE (default: 2000)
	MaxChunkSize int `envconfig:"MAX_CHUNK_SIZE" default:"2000"`

	// Overlap is the overlap carried between adjacent chunks.
	// Env: PIPELINE_OVERLAP (default: 200)
	Overlap int `envconfig:"OVERLAP" default:"200"`

	// MaxContextSize is the context window budget per chunk.
	// Env: PIPELINE_MAX_CONTEXT_SIZE (default: 5000)
	MaxContextSize int `envconfig:"MAX_CONTEXT_SIZE" default:"5000"`

	// UnitBudget is the total prompt unit budget.
	// Env: PIPELINE_UNIT_BUDGET (default: 12000)
	UnitBudget int `envconfig:"UNIT_BUDGET" default:"12000"`

	// ConcurrencyWidth is the number of in-flight analysis calls.
	// Env: PIPELINE_CONCURRENCY_WIDTH (default: 3)
	ConcurrencyWidth int `envconfig:"CONCURRENCY_WIDTH" default:"3"`

	// RetryLimit is the per-unit analysis retry limit.
	// Env: PIPELINE_RETRY_LIMIT (default: 3)
	RetryLimit int `envconfig:"RETRY_LIMIT" default:"3"`

	// CallTimeout is the timeout of one analysis call in seconds.
	// Env: PIPELINE_CALL_TIMEOUT (default: 60)
	CallTimeout float64 `envconfig:"CALL_TIMEOUT" default:"60"`
}

// EndpointEnv holds environment configuration for the analysis endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: ANALYSIS_ENDPOINT_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier.
	// Env: ANALYSIS_ENDPOINT_MODEL (default: llama-3.3-70b-versatile)
	Model string `envconfig:"MODEL" default:"llama-3.3-70b-versatile"`

	// APIKey is the API key for authentication.
	// Env: ANALYSIS_ENDPOINT_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// MaxTokens is the maximum completion token limit.
	// Env: ANALYSIS_ENDPOINT_MAX_TOKENS (default: 3000)
	MaxTokens int `envconfig:"MAX_TOKENS" default:"3000"`

	// Temperature is the sampling temperature.
	// Env: ANALYSIS_ENDPOINT_TEMPERATURE (default: 0)
	Temperature float32 `envconfig:"TEMPERATURE" default:"0"`

	// Timeout is the request timeout in seconds.
	// Env: ANALYSIS_ENDPOINT_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "DIFFDOC" would require DIFFDOC_PORT instead of PORT.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}

	cfg = applyOption(cfg, WithPipelineConfig(e.Pipeline.ToPipeline()))
	cfg = applyOption(cfg, WithEndpointConfig(e.AnalysisEndpoint.ToEndpoint()))

	return cfg
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// ToPipeline converts PipelineEnv to Pipeline.
func (p PipelineEnv) ToPipeline() Pipeline {
	return NewPipeline().
		WithMaxChunkSize(p.MaxChunkSize).
		WithOverlap(p.Overlap).
		WithMaxContextSize(p.MaxContextSize).
		WithUnitBudget(p.UnitBudget).
		WithConcurrencyWidth(p.ConcurrencyWidth).
		WithRetryLimit(p.RetryLimit).
		WithCallTimeout(time.Duration(p.CallTimeout * float64(time.Second)))
}

// IsConfigured returns true if the endpoint has an API key configured.
func (e EndpointEnv) IsConfigured() bool {
	return e.APIKey != ""
}

// ToEndpoint converts EndpointEnv to Endpoint.
func (e EndpointEnv) ToEndpoint() Endpoint {
	opts := []EndpointOption{
		WithModel(e.Model),
		WithMaxTokens(e.MaxTokens),
		WithTemperature(e.Temperature),
		WithEndpointTimeout(time.Duration(e.Timeout * float64(time.Second))),
	}

	if e.BaseURL != "" {
		opts = append(opts, WithBaseURL(e.BaseURL))
	}
	if e.APIKey != "" {
		opts = append(opts, WithAPIKey(e.APIKey))
	}

	return NewEndpointWithOptions(opts...)
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
