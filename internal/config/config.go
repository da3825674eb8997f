package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pdf-embed/internal/errortypes"
	"pdf-embed/internal/models"
)

type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Input     InputConfig     `yaml:"input"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	EmbedLLM  EmbeddingConfig `yaml:"embed_llm"`
	Output    OutputConfig    `yaml:"output"`
	TravelLLM TravelConfig    `yaml:"travel_llm"`
}

type InputConfig struct {
	// PDFBackend is "ledongthuc" or "mupdf"
	PDFBackend string `yaml:"pdf_backend"`
}

type ChunkingConfig struct {
	SentencesPerChunk int `yaml:"sentences_per_chunk"`
}

// LLMConfig holds the connection details for one model endpoint
type LLMConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	Key        string `yaml:"key"`
	Model      string `yaml:"model"`
	APIType    string `yaml:"api_type"`
	APIVersion string `yaml:"api_version"`
}

type EmbeddingConfig struct {
	LLMConfig  `yaml:",inline"`
	BatchSize  int `yaml:"batch_size"`
	Dimensions int `yaml:"dimensions"`
}

type OutputConfig struct {
	Path       string `yaml:"path"`
	ReportPath string `yaml:"report_path"`
	DryRun     bool   `yaml:"dry_run"`
}

type TravelConfig struct {
	Preferences     LLMConfig `yaml:"preferences"`
	Recommendations LLMConfig `yaml:"recommendations"`
	MaxTokens       int       `yaml:"max_tokens"`
	// Temperature is nil when unset so that an explicit 0 survives defaults
	Temperature *float64 `yaml:"temperature"`
}

// SamplingTemperature returns the configured temperature or the default
func (t TravelConfig) SamplingTemperature() float64 {
	if t.Temperature == nil {
		return models.DefaultTemperature
	}
	return *t.Temperature
}

// Default returns a config that embeds with a local ollama model
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a yaml config file. ${VAR} references in the file are
// expanded from the environment. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, errortypes.NewConfig("read config", err).WithField("path", path)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errortypes.NewConfig("parse config", err).WithField("path", path)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Input.PDFBackend == "" {
		c.Input.PDFBackend = models.DefaultPDFBackend
	}
	if c.Chunking.SentencesPerChunk == 0 {
		c.Chunking.SentencesPerChunk = models.DefaultSentencesPerChunk
	}
	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = models.DefaultEmbeddingProvider
	}
	if c.EmbedLLM.Model == "" && c.EmbedLLM.Provider == models.DefaultEmbeddingProvider {
		c.EmbedLLM.Model = models.DefaultEmbeddingModel
		if c.EmbedLLM.Dimensions == 0 {
			c.EmbedLLM.Dimensions = models.DefaultEmbeddingDims
		}
	}
	if c.EmbedLLM.BaseURL == "" && c.EmbedLLM.Provider == models.DefaultEmbeddingProvider {
		c.EmbedLLM.BaseURL = models.DefaultEmbeddingBaseURL
	}
	if c.EmbedLLM.BatchSize == 0 {
		c.EmbedLLM.BatchSize = models.DefaultBatchSize
	}
	if c.Output.Path == "" {
		c.Output.Path = models.DefaultOutputPath
	}
	if c.TravelLLM.MaxTokens == 0 {
		c.TravelLLM.MaxTokens = models.DefaultMaxTokens
	}
	if c.TravelLLM.Temperature == nil {
		temperature := models.DefaultTemperature
		c.TravelLLM.Temperature = &temperature
	}
}

// Validate checks the values a pipeline run depends on
func (c *Config) Validate() error {
	if c.Chunking.SentencesPerChunk <= 0 {
		return errortypes.Newf(errortypes.Config, "sentences_per_chunk must be positive, got %d", c.Chunking.SentencesPerChunk)
	}
	if c.EmbedLLM.BatchSize <= 0 {
		return errortypes.Newf(errortypes.Config, "batch_size must be positive, got %d", c.EmbedLLM.BatchSize)
	}
	if c.EmbedLLM.Dimensions < 0 {
		return errortypes.Newf(errortypes.Config, "dimensions must not be negative, got %d", c.EmbedLLM.Dimensions)
	}
	switch strings.ToLower(c.Input.PDFBackend) {
	case "ledongthuc", "mupdf":
	default:
		return errortypes.Newf(errortypes.Config, "unknown pdf_backend %q", c.Input.PDFBackend)
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		return errortypes.Newf(errortypes.Config, "output path is required")
	}
	return nil
}
