// Copyright 2025 Leadline AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config defines the wizard service configuration: typed
// structs with defaults and validation, loaded through a provider
// pipeline with environment-variable expansion.
package config

import (
	"fmt"
	"net/url"

	"github.com/leadline-ai/leadline/pkg/storage"
)

// Config is the root service configuration.
type Config struct {
	// Server configures the shell HTTP server.
	Server ServerConfig `yaml:"server" json:"server"`

	// Backend configures the Leadline agents API client.
	Backend BackendConfig `yaml:"backend" json:"backend"`

	// Storage configures the durable draft store.
	Storage storage.Config `yaml:"storage" json:"storage"`

	// Logging configures the process logger.
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics configures the Prometheus metrics endpoint.
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ServerConfig configures the shell HTTP server.
type ServerConfig struct {
	// Host is the listen address. Default "127.0.0.1".
	Host string `yaml:"host" json:"host"`

	// Port is the listen port. Default 8700.
	Port int `yaml:"port" json:"port"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SetDefaults applies server defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8700
	}
}

// Validate checks server settings.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Port)
	}
	return nil
}

// BackendConfig configures the agents API client. The base URL is a
// single injected value; there is no discovery.
type BackendConfig struct {
	// BaseURL is the backend origin, e.g. "https://api.leadline.example".
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Token is an optional bearer token.
	Token string `yaml:"token" json:"token"`

	// MaxRetries caps retries of retryable responses. Default 3.
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// TimeoutSeconds is the per-request timeout. Default 30.
	TimeoutSeconds int `yaml:"timeout" json:"timeout"`
}

// SetDefaults applies backend client defaults.
func (c *BackendConfig) SetDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks the backend settings.
func (c *BackendConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("backend base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend base_url %q is not a valid URL", c.BaseURL)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("backend max_retries must be >= 0")
	}
	return nil
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is debug, info, warn or error. Default "info".
	Level string `yaml:"level" json:"level"`

	// Format is "simple" or "verbose". Default "simple".
	Format string `yaml:"format" json:"format"`
}

// SetDefaults applies logging defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "simple"
	}
}

// Validate checks logging settings.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", c.Level)
	}
	switch c.Format {
	case "simple", "verbose":
	default:
		return fmt.Errorf("invalid log format %q (valid: simple, verbose)", c.Format)
	}
	return nil
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled exposes /metrics on the shell server. Default true.
	Enabled *bool `yaml:"enabled" json:"enabled"`
}

// IsEnabled reports whether metrics are on (default true).
func (c *MetricsConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// SetDefaults applies defaults to all sections.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Backend.SetDefaults()
	c.Storage.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks all sections.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Default returns a configuration with all defaults applied and a
// local backend origin, used when no config file is given.
func Default() *Config {
	cfg := &Config{
		Backend: BackendConfig{BaseURL: "http://localhost:8000"},
	}
	cfg.SetDefaults()
	return cfg
}
