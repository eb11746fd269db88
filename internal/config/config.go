// Package config loads settings from an optional YAML file and environment
// variables prefixed with ITRA_RESULTS_. Environment values override the file;
// command-line flags override both and are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/itra-results/internal/form"
	"github.com/pfrederiksen/itra-results/internal/logger"
	"github.com/pfrederiksen/itra-results/internal/runner"
	"github.com/pfrederiksen/itra-results/internal/scraper"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "ITRA_RESULTS_"

// Config holds the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envPrefix:"SERVER_"`
	Scraper ScraperConfig `yaml:"scraper" envPrefix:"SCRAPER_"`
	Client  ClientConfig  `yaml:"client" envPrefix:"CLIENT_"`
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
	DataDir string        `yaml:"data_dir" env:"DATA_DIR"`
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	BaseURL         string        `yaml:"base_url" env:"BASE_URL"` // empty derives from Addr
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// ScraperConfig holds the results scraper configuration
type ScraperConfig struct {
	Timeout    time.Duration `yaml:"timeout" env:"TIMEOUT"`
	UserAgent  string        `yaml:"user_agent" env:"USER_AGENT"`
	MaxRetries int           `yaml:"max_retries" env:"MAX_RETRIES"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"RETRY_DELAY"`
	Limit      int           `yaml:"limit" env:"LIMIT"`
	CacheTTL   time.Duration `yaml:"cache_ttl" env:"CACHE_TTL"`
	Browser    BrowserConfig `yaml:"browser" envPrefix:"BROWSER_"`
}

// BrowserConfig holds the headless browser configuration for JavaScript rendering
type BrowserConfig struct {
	Enabled bool          `yaml:"enabled" env:"ENABLED"`
	Wait    time.Duration `yaml:"wait" env:"WAIT"`
}

// ClientConfig holds the form handler configuration used by submit and tui
type ClientConfig struct {
	Endpoint string        `yaml:"endpoint" env:"ENDPOINT"`
	Layout   string        `yaml:"layout" env:"LAYOUT"`
	Overlap  string        `yaml:"overlap" env:"OVERLAP"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// LoggingConfig holds the log level
type LoggingConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Scraper: ScraperConfig{
			Timeout:    scraper.Timeout,
			UserAgent:  scraper.UserAgent,
			MaxRetries: 2,
			RetryDelay: 500 * time.Millisecond,
			Limit:      scraper.DefaultLimit,
			Browser: BrowserConfig{
				Wait: 2 * time.Second,
			},
		},
		Client: ClientConfig{
			Endpoint: form.DefaultEndpoint,
			Layout:   string(runner.LayoutProfile),
			Overlap:  string(form.OverlapAllow),
		},
		Logging: LoggingConfig{
			Level: string(logger.LevelInfo),
		},
		DataDir: "~/.local/share/itra-results",
	}
}

// DefaultPath returns ~/.config/itra-results/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "itra-results", "config.yaml")
	}
	return filepath.Join(home, ".config", "itra-results", "config.yaml")
}

// Load reads the YAML file at path over the defaults, then applies environment
// overrides. An empty path reads DefaultPath and tolerates it being absent; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv applies ITRA_RESULTS_* environment variables to cfg
func ParseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr must not be empty")
	}
	if _, err := runner.ParseLayout(c.Client.Layout); err != nil {
		return fmt.Errorf("client.layout: %w", err)
	}
	if _, err := form.ParseOverlapPolicy(c.Client.Overlap); err != nil {
		return fmt.Errorf("client.overlap: %w", err)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("client.timeout must not be negative, got %s", c.Client.Timeout)
	}
	if c.Scraper.Limit <= 0 {
		return fmt.Errorf("scraper.limit must be positive, got %d", c.Scraper.Limit)
	}
	if c.Scraper.CacheTTL < 0 {
		return fmt.Errorf("scraper.cache_ttl must not be negative, got %s", c.Scraper.CacheTTL)
	}
	if c.Scraper.MaxRetries < 0 {
		return fmt.Errorf("scraper.max_retries must not be negative, got %d", c.Scraper.MaxRetries)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// ScraperOptions converts the scraper section into scraper.Options
func (c *Config) ScraperOptions(log *logger.Logger) scraper.Options {
	return scraper.Options{
		UserAgent:  c.Scraper.UserAgent,
		Timeout:    c.Scraper.Timeout,
		MaxRetries: c.Scraper.MaxRetries,
		RetryDelay: c.Scraper.RetryDelay,
		Limit:      c.Scraper.Limit,
		CacheTTL:   c.Scraper.CacheTTL,
		Browser: scraper.BrowserOptions{
			Enabled: c.Scraper.Browser.Enabled,
			Wait:    c.Scraper.Browser.Wait,
		},
		Logger: log,
	}
}

// FormOptions converts the client section into form.Options. Validate must have
// accepted the configuration.
func (c *Config) FormOptions(log *logger.Logger) form.Options {
	layout, _ := runner.ParseLayout(c.Client.Layout)
	overlap, _ := form.ParseOverlapPolicy(c.Client.Overlap)

	return form.Options{
		Endpoint: c.Client.Endpoint,
		Layout:   layout,
		Overlap:  overlap,
		Timeout:  c.Client.Timeout,
		Logger:   log,
	}
}

// NewLogger builds a logger at the configured level
func (c *Config) NewLogger() *logger.Logger {
	level, err := logger.ParseLevel(c.Logging.Level)
	if err != nil {
		level = logger.LevelInfo
	}
	return logger.New(level, os.Stderr)
}
