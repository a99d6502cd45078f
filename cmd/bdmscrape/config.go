package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/bdmscrape/scrape"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidBaseURL     = errors.New("baseURL must be an absolute http(s) URL")
	ErrNoCategories       = errors.New("at least one category is required")
	ErrEmptyCategory      = errors.New("category must not be empty")
	ErrInvalidMarkup      = errors.New("markup must be one of: auto, current, legacy")
	ErrInvalidTimeout     = errors.New("timeout must be positive")
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
	ErrInvalidRateLimit   = errors.New("rateLimit must be non-negative")
	ErrInvalidRetries     = errors.New("retries must be non-negative")
)

// Markup selection values.
const (
	MarkupAuto    = "auto"
	MarkupCurrent = "current"
	MarkupLegacy  = "legacy"
)

// Config holds the scrape settings that can be read from a YAML file.
type Config struct {
	BaseURL     string        `yaml:"baseURL"`
	Categories  []string      `yaml:"categories"`
	Markup      string        `yaml:"markup"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
	UserAgent   string        `yaml:"userAgent"`
	RateLimit   float64       `yaml:"rateLimit"`
	Retries     int           `yaml:"retries"`
	Browser     bool          `yaml:"browser"`
}

// DefaultConfig returns the settings used when no file or flag overrides them.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     scrape.DefaultBaseURL,
		Categories:  scrape.DefaultCategories(),
		Markup:      MarkupAuto,
		Timeout:     10 * time.Second,
		Concurrency: 1,
		RateLimit:   scrape.DefaultRequestsPerSecond,
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if len(c.Categories) == 0 {
		return ErrNoCategories
	}
	for i, category := range c.Categories {
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("%w: categories[%d]", ErrEmptyCategory, i)
		}
	}

	switch c.Markup {
	case MarkupAuto, MarkupCurrent, MarkupLegacy:
	default:
		return ErrInvalidMarkup
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}
	if c.Retries < 0 {
		return ErrInvalidRetries
	}

	return nil
}

// RetryDelays returns exponential backoff delays starting at one second,
// one per configured retry.
func (c *Config) RetryDelays() []time.Duration {
	return scrape.Backoff(c.Retries, time.Second)
}

// Apply overrides the configuration with the flags set on the scrape command.
func (c *Config) Apply(cmd *ScrapeCmd) {
	if cmd.BaseURL != "" {
		c.BaseURL = cmd.BaseURL
	}
	if len(cmd.Categories) > 0 {
		c.Categories = cmd.Categories
	}
	if cmd.Markup != "" {
		c.Markup = cmd.Markup
	}
	if cmd.Timeout > 0 {
		c.Timeout = cmd.Timeout
	}
	if cmd.Concurrency > 0 {
		c.Concurrency = cmd.Concurrency
	}
	if cmd.UserAgent != "" {
		c.UserAgent = cmd.UserAgent
	}
	if cmd.RateLimit >= 0 {
		c.RateLimit = cmd.RateLimit
	}
	if cmd.Retries >= 0 {
		c.Retries = cmd.Retries
	}
	if cmd.Browser {
		c.Browser = true
	}
}
