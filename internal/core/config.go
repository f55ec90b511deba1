package core

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jo-hoe/brandkit/internal/curator"
	"github.com/jo-hoe/brandkit/internal/fetch"
	"github.com/jo-hoe/brandkit/internal/qr"
	"gopkg.in/yaml.v3"
)

const defaultPort = 8080

type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	UserAgent      string `yaml:"userAgent"`
}

type ExtractionConfig struct {
	MaxImages int `yaml:"maxImages"`
	QRSize    int `yaml:"qrSize"`
}

type ServiceConfig struct {
	Port       int              `yaml:"port"`
	LogLevel   string           `yaml:"logLevel"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Extraction ExtractionConfig `yaml:"extraction"`
}

// DefaultConfig returns the configuration used when no file overrides a value.
func DefaultConfig() *ServiceConfig {
	config := &ServiceConfig{}
	config.applyDefaults()
	return config
}

// Timeout returns the per-request network timeout.
func (c *ServiceConfig) Timeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// SlogLevel returns the configured log level. Validation guarantees it parses.
func (c *ServiceConfig) SlogLevel() slog.Level {
	level, _ := ParseLogLevel(c.LogLevel)
	return level
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

func (c *ServiceConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = int(fetch.DefaultTimeout / time.Second)
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = fetch.DefaultUserAgent
	}
	if c.Extraction.MaxImages == 0 {
		c.Extraction.MaxImages = curator.DefaultMaxImages
	}
	if c.Extraction.QRSize == 0 {
		c.Extraction.QRSize = qr.DefaultSize
	}
}

// Validate checks value ranges after defaults have been applied.
func (c *ServiceConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Fetch.TimeoutSeconds < 0 {
		return fmt.Errorf("fetch.timeoutSeconds must be positive, got %d", c.Fetch.TimeoutSeconds)
	}
	if c.Extraction.MaxImages < 0 {
		return fmt.Errorf("extraction.maxImages must not be negative, got %d", c.Extraction.MaxImages)
	}
	if c.Extraction.QRSize < 0 {
		return fmt.Errorf("extraction.qrSize must be positive, got %d", c.Extraction.QRSize)
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error to their slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
