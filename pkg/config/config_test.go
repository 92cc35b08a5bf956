package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got: %v", err)
	}
	if cfg.Server.Addr() != "127.0.0.1:8700" {
		t.Errorf("unexpected default addr: %s", cfg.Server.Addr())
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("unexpected default storage type: %s", cfg.Storage.Type)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("unexpected default log level: %s", cfg.Logging.Level)
	}
	if !cfg.Metrics.IsEnabled() {
		t.Error("metrics should default to enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "server",
		},
		{
			name:    "missing backend url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "" },
			wantErr: "base_url is required",
		},
		{
			name:    "malformed backend url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "not a url" },
			wantErr: "not a valid URL",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Backend.MaxRetries = -1 },
			wantErr: "max_retries",
		},
		{
			name:    "unknown storage type",
			mutate:  func(c *Config) { c.Storage.Type = "redis" },
			wantErr: "storage",
		},
		{
			name:    "file storage without path",
			mutate:  func(c *Config) { c.Storage.Type = "file" },
			wantErr: "requires a path",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "log level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "json5" },
			wantErr: "log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestMetricsToggle(t *testing.T) {
	off := false
	cfg := MetricsConfig{Enabled: &off}
	if cfg.IsEnabled() {
		t.Error("explicit false must disable metrics")
	}
}

func TestLoadFilePipeline(t *testing.T) {
	t.Setenv("LEADLINE_TEST_TOKEN", "secret-token")

	dir := t.TempDir()
	path := filepath.Join(dir, "leadline.yaml")
	content := `
server:
  port: 9100
backend:
  base_url: ${LEADLINE_TEST_BASE_URL:-http://localhost:8000}
  token: ${LEADLINE_TEST_TOKEN}
storage:
  type: file
  path: ` + filepath.Join(dir, "data") + `
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, loader, err := LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	defer loader.Close()

	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("base_url default expansion failed: %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Token != "secret-token" {
		t.Errorf("token expansion failed: %s", cfg.Backend.Token)
	}
	if cfg.Storage.Type != "file" {
		t.Errorf("storage type = %s, want file", cfg.Storage.Type)
	}
	if cfg.Backend.MaxRetries != 3 {
		t.Errorf("defaults not applied: max_retries = %d", cfg.Backend.MaxRetries)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leadline.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: -2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadFile(context.Background(), path); err == nil {
		t.Fatal("expected validation error")
	}
}
