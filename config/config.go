// Package config provides configuration management for the Xbox Live
// authentication client. It handles loading and parsing YAML configuration
// files, and provides structured access to proxy, timeout, and logging
// settings shared by the library and the CLI.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Request timeout bounds. Every network call in the authentication pipeline
// is bounded by a timeout clamped to this range.
const (
	// MinRequestTimeout is the lowest accepted request timeout.
	MinRequestTimeout = 1 * time.Second
	// MaxRequestTimeout is the highest accepted request timeout.
	MaxRequestTimeout = 30 * time.Second
	// DefaultRequestTimeout is applied when no timeout is configured.
	DefaultRequestTimeout = 10 * time.Second
)

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// ProxyURL is the URL of an optional proxy server to use for outbound requests.
	// Supports http, https, and socks5 schemes.
	ProxyURL string `yaml:"proxy-url" json:"proxy-url"`

	// RequestTimeout is the per-request timeout in seconds. Values outside the
	// supported range are clamped; zero selects the default.
	RequestTimeout int `yaml:"request-timeout" json:"request-timeout"`

	// LoggingToFile switches log output from stdout to rotating files.
	LoggingToFile bool `yaml:"logging-to-file" json:"logging-to-file"`

	// LogDir is the directory used for log files when LoggingToFile is set.
	LogDir string `yaml:"log-dir" json:"log-dir"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug" json:"debug"`
}

// LoadConfig reads and parses the application configuration from a YAML file.
func LoadConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", configFile, err)
	}
	return &cfg, nil
}

// Timeout returns the effective per-request timeout, clamped to the
// supported range.
func (c *Config) Timeout() time.Duration {
	if c == nil || c.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	timeout := time.Duration(c.RequestTimeout) * time.Second
	if timeout < MinRequestTimeout {
		return MinRequestTimeout
	}
	if timeout > MaxRequestTimeout {
		return MaxRequestTimeout
	}
	return timeout
}
