package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings mirrors the optional YAML settings file. Zero values mean
// "not set"; only set values override the environment-derived config.
type Settings struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Pipeline struct {
		MaxChunkSize     int     `yaml:"max_chunk_size"`
		Overlap          *int    `yaml:"overlap"`
		MaxContextSize   int     `yaml:"max_context_size"`
		UnitBudget       int     `yaml:"unit_budget"`
		ConcurrencyWidth int     `yaml:"concurrency_width"`
		RetryLimit       int     `yaml:"retry_limit"`
		CallTimeout      float64 `yaml:"call_timeout_seconds"`
	} `yaml:"pipeline"`

	AnalysisEndpoint struct {
		BaseURL     string   `yaml:"base_url"`
		Model       string   `yaml:"model"`
		APIKey      string   `yaml:"api_key"`
		MaxTokens   int      `yaml:"max_tokens"`
		Temperature *float32 `yaml:"temperature"`
	} `yaml:"analysis_endpoint"`
}

// LoadSettingsFile parses a YAML settings file.
func LoadSettingsFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings file: %w", err)
	}
	return s, nil
}

// ApplySettingsFile overlays a YAML settings file onto cfg. An empty path
// or a missing file leaves cfg unchanged.
func ApplySettingsFile(cfg AppConfig, path string) (AppConfig, error) {
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	s, err := LoadSettingsFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	return s.Apply(cfg), nil
}

// Apply overlays the set values of s onto cfg.
func (s Settings) Apply(cfg AppConfig) AppConfig {
	var opts []AppConfigOption

	if s.Host != "" {
		opts = append(opts, WithHost(s.Host))
	}
	if s.Port != 0 {
		opts = append(opts, WithPort(s.Port))
	}
	if s.LogLevel != "" {
		opts = append(opts, WithLogLevel(s.LogLevel))
	}
	if s.LogFormat != "" {
		opts = append(opts, WithLogFormat(parseLogFormat(s.LogFormat)))
	}

	opts = append(opts, WithPipelineConfig(s.applyPipeline(cfg.Pipeline())))
	opts = append(opts, WithEndpointConfig(s.applyEndpoint(cfg.Endpoint())))

	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (s Settings) applyPipeline(p Pipeline) Pipeline {
	if s.Pipeline.MaxChunkSize > 0 {
		p = p.WithMaxChunkSize(s.Pipeline.MaxChunkSize)
	}
	if s.Pipeline.Overlap != nil {
		p = p.WithOverlap(*s.Pipeline.Overlap)
	}
	if s.Pipeline.MaxContextSize > 0 {
		p = p.WithMaxContextSize(s.Pipeline.MaxContextSize)
	}
	if s.Pipeline.UnitBudget > 0 {
		p = p.WithUnitBudget(s.Pipeline.UnitBudget)
	}
	if s.Pipeline.ConcurrencyWidth > 0 {
		p = p.WithConcurrencyWidth(s.Pipeline.ConcurrencyWidth)
	}
	if s.Pipeline.RetryLimit > 0 {
		p = p.WithRetryLimit(s.Pipeline.RetryLimit)
	}
	if s.Pipeline.CallTimeout > 0 {
		p = p.WithCallTimeout(time.Duration(s.Pipeline.CallTimeout * float64(time.Second)))
	}
	return p
}

func (s Settings) applyEndpoint(e Endpoint) Endpoint {
	var opts []EndpointOption
	if s.AnalysisEndpoint.BaseURL != "" {
		opts = append(opts, WithBaseURL(s.AnalysisEndpoint.BaseURL))
	}
	if s.AnalysisEndpoint.Model != "" {
		opts = append(opts, WithModel(s.AnalysisEndpoint.Model))
	}
	if s.AnalysisEndpoint.APIKey != "" {
		opts = append(opts, WithAPIKey(s.AnalysisEndpoint.APIKey))
	}
	if s.AnalysisEndpoint.MaxTokens > 0 {
		opts = append(opts, WithMaxTokens(s.AnalysisEndpoint.MaxTokens))
	}
	if s.AnalysisEndpoint.Temperature != nil {
		opts = append(opts, WithTemperature(*s.AnalysisEndpoint.Temperature))
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
