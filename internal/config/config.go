// Package config provides application configuration.
package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	DefaultHost                = "0.0.0.0"
	DefaultPort                = 8930
	DefaultLogLevel            = "INFO"
	DefaultMaxChunkSize        = 2000
	DefaultOverlap             = 200
	DefaultMaxContextSize      = 5000
	DefaultUnitBudget          = 12000
	DefaultConcurrencyWidth    = 3
	DefaultRetryLimit          = 3
	DefaultCallTimeout         = 60 * time.Second
	DefaultEndpointModel       = "llama-3.3-70b-versatile"
	DefaultEndpointMaxTokens   = 3000
	DefaultEndpointTemperature = 0.0
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// Pipeline configures the chunking, extraction, assembly, and analysis
// stages. All values are validated at submission start, never mid-pipeline.
type Pipeline struct {
	maxChunkSize     int
	overlap          int
	maxContextSize   int
	unitBudget       int
	concurrencyWidth int
	retryLimit       int
	callTimeout      time.Duration
}

// NewPipeline creates a Pipeline with defaults.
func NewPipeline() Pipeline {
	return Pipeline{
		maxChunkSize:     DefaultMaxChunkSize,
		overlap:          DefaultOverlap,
		maxContextSize:   DefaultMaxContextSize,
		unitBudget:       DefaultUnitBudget,
		concurrencyWidth: DefaultConcurrencyWidth,
		retryLimit:       DefaultRetryLimit,
		callTimeout:      DefaultCallTimeout,
	}
}

// MaxChunkSize returns the maximum chunk size in budget units.
func (p Pipeline) MaxChunkSize() int { return p.maxChunkSize }

// Overlap returns the overlap carried between adjacent chunks.
func (p Pipeline) Overlap() int { return p.overlap }

// MaxContextSize returns the context window budget per chunk.
func (p Pipeline) MaxContextSize() int { return p.maxContextSize }

// UnitBudget returns the total prompt unit budget.
func (p Pipeline) UnitBudget() int { return p.unitBudget }

// ConcurrencyWidth returns the number of in-flight analysis calls.
func (p Pipeline) ConcurrencyWidth() int { return p.concurrencyWidth }

// RetryLimit returns the per-unit analysis retry limit.
func (p Pipeline) RetryLimit() int { return p.retryLimit }

// CallTimeout returns the timeout of one analysis call.
func (p Pipeline) CallTimeout() time.Duration { return p.callTimeout }

// WithMaxChunkSize returns a new config with the specified chunk size.
func (p Pipeline) WithMaxChunkSize(n int) Pipeline {
	p.maxChunkSize = n
	return p
}

// WithOverlap returns a new config with the specified overlap.
func (p Pipeline) WithOverlap(n int) Pipeline {
	p.overlap = n
	return p
}

// WithMaxContextSize returns a new config with the specified context budget.
func (p Pipeline) WithMaxContextSize(n int) Pipeline {
	p.maxContextSize = n
	return p
}

// WithUnitBudget returns a new config with the specified unit budget.
func (p Pipeline) WithUnitBudget(n int) Pipeline {
	p.unitBudget = n
	return p
}

// WithConcurrencyWidth returns a new config with the specified width.
func (p Pipeline) WithConcurrencyWidth(n int) Pipeline {
	p.concurrencyWidth = n
	return p
}

// WithRetryLimit returns a new config with the specified retry limit.
func (p Pipeline) WithRetryLimit(n int) Pipeline {
	p.retryLimit = n
	return p
}

// WithCallTimeout returns a new config with the specified call timeout.
func (p Pipeline) WithCallTimeout(d time.Duration) Pipeline {
	p.callTimeout = d
	return p
}

// Validate checks the pipeline configuration. All numeric values must be
// positive and the overlap must be smaller than the chunk size.
func (p Pipeline) Validate() error {
	if p.maxChunkSize <= 0 {
		return fmt.Errorf("max chunk size must be positive, got %d", p.maxChunkSize)
	}
	if p.overlap < 0 || p.overlap >= p.maxChunkSize {
		return fmt.Errorf("overlap must be in [0, max chunk size), got %d", p.overlap)
	}
	if p.maxContextSize <= 0 {
		return fmt.Errorf("max context size must be positive, got %d", p.maxContextSize)
	}
	if p.unitBudget <= 0 {
		return fmt.Errorf("unit budget must be positive, got %d", p.unitBudget)
	}
	if p.concurrencyWidth <= 0 {
		return fmt.Errorf("concurrency width must be positive, got %d", p.concurrencyWidth)
	}
	if p.retryLimit <= 0 {
		return fmt.Errorf("retry limit must be positive, got %d", p.retryLimit)
	}
	if p.callTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive, got %s", p.callTimeout)
	}
	return nil
}

// Endpoint configures the analysis model endpoint.
type Endpoint struct {
	baseURL     string
	model       string
	apiKey      string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// NewEndpoint creates a new Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		model:       DefaultEndpointModel,
		maxTokens:   DefaultEndpointMaxTokens,
		temperature: DefaultEndpointTemperature,
		timeout:     DefaultCallTimeout,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// MaxTokens returns the maximum completion token limit.
func (e Endpoint) MaxTokens() int { return e.maxTokens }

// Temperature returns the sampling temperature.
func (e Endpoint) Temperature() float32 { return e.temperature }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// IsConfigured returns true if the endpoint has required configuration.
func (e Endpoint) IsConfigured() bool {
	return e.apiKey != ""
}

// EndpointOption is a functional option for Endpoint.
type EndpointOption func(*Endpoint)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) EndpointOption {
	return func(e *Endpoint) { e.baseURL = url }
}

// WithModel sets the model.
func WithModel(model string) EndpointOption {
	return func(e *Endpoint) { e.model = model }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) EndpointOption {
	return func(e *Endpoint) { e.apiKey = key }
}

// WithMaxTokens sets the maximum completion token limit.
func WithMaxTokens(n int) EndpointOption {
	return func(e *Endpoint) { e.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) EndpointOption {
	return func(e *Endpoint) { e.temperature = t }
}

// WithEndpointTimeout sets the request timeout.
func WithEndpointTimeout(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.timeout = d }
}

// NewEndpointWithOptions creates an Endpoint with functional options.
func NewEndpointWithOptions(opts ...EndpointOption) Endpoint {
	e := NewEndpoint()
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host      string
	port      int
	logLevel  string
	logFormat LogFormat
	pipeline  Pipeline
	endpoint  Endpoint
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:      DefaultHost,
		port:      DefaultPort,
		logLevel:  DefaultLogLevel,
		logFormat: LogFormatPretty,
		pipeline:  NewPipeline(),
		endpoint:  NewEndpoint(),
	}
}

// Host returns the server host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// Pipeline returns the pipeline configuration.
func (c AppConfig) Pipeline() Pipeline { return c.pipeline }

// Endpoint returns the analysis endpoint configuration.
func (c AppConfig) Endpoint() Endpoint { return c.endpoint }

// Addr returns the host:port listen address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// Validate checks the whole configuration.
func (c AppConfig) Validate() error {
	if c.port <= 0 || c.port > 65535 {
		return fmt.Errorf("port must be in (0, 65535], got %d", c.port)
	}
	if err := c.pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithPipelineConfig sets the pipeline configuration.
func WithPipelineConfig(p Pipeline) AppConfigOption {
	return func(c *AppConfig) { c.pipeline = p }
}

// WithEndpointConfig sets the analysis endpoint configuration.
func WithEndpointConfig(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.endpoint = e }
}

// Apply returns a copy with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
