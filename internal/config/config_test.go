package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default configuration must validate: %v", err)
	}
	if cfg.HTTP.Port != 7070 {
		t.Errorf("Expected default port 7070, got %d", cfg.HTTP.Port)
	}
	if cfg.Files.ContentDir != "./files" {
		t.Errorf("Expected default content dir ./files, got %s", cfg.Files.ContentDir)
	}
	if !cfg.Files.Seed {
		t.Error("Expected seeding on by default")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }},
		{"empty host", func(c *Config) { c.HTTP.Host = "" }},
		{"negative read timeout", func(c *Config) { c.HTTP.ReadTimeout = -time.Second }},
		{"zero ping interval", func(c *Config) { c.WebSocket.PingInterval = 0 }},
		{"zero buffer size", func(c *Config) { c.WebSocket.BufferSize = 0 }},
		{"empty content dir", func(c *Config) { c.Files.ContentDir = "" }},
		{"zero max upload", func(c *Config) { c.Files.MaxUploadSize = 0 }},
		{"nil http section", func(c *Config) { c.HTTP = nil }},
		{"nil websocket section", func(c *Config) { c.WebSocket = nil }},
		{"nil files section", func(c *Config) { c.Files = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CORKBOARD_HTTP_PORT", "9090")
	t.Setenv("CORKBOARD_HTTP_HOST", "127.0.0.1")
	t.Setenv("CORKBOARD_CONTENT_DIR", "/srv/content")
	t.Setenv("CORKBOARD_MAX_UPLOAD_SIZE", "1048576")
	t.Setenv("CORKBOARD_SEED", "false")
	t.Setenv("CORKBOARD_WEBSOCKET_PING_INTERVAL", "15s")

	cfg := LoadFromEnv()

	if cfg.HTTP.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.HTTP.Host)
	}
	if cfg.Files.ContentDir != "/srv/content" {
		t.Errorf("Expected content dir /srv/content, got %s", cfg.Files.ContentDir)
	}
	if cfg.Files.MaxUploadSize != 1048576 {
		t.Errorf("Expected max upload 1048576, got %d", cfg.Files.MaxUploadSize)
	}
	if cfg.Files.Seed {
		t.Error("Expected seeding off")
	}
	if cfg.WebSocket.PingInterval != 15*time.Second {
		t.Errorf("Expected ping interval 15s, got %v", cfg.WebSocket.PingInterval)
	}
}

func TestLoadFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CORKBOARD_HTTP_PORT", "not-a-number")
	t.Setenv("CORKBOARD_SEED", "maybe")

	cfg := LoadFromEnv()

	if cfg.HTTP.Port != 7070 {
		t.Errorf("Malformed port must keep the default, got %d", cfg.HTTP.Port)
	}
	if !cfg.Files.Seed {
		t.Error("Malformed seed flag must keep the default")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"http": {"host": "10.0.0.1", "port": 8088, "read_timeout": "45s"},
		"websocket": {"ping_interval": "20s", "buffer_size": 50},
		"files": {"content_dir": "/var/corkboard", "seed": false}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.HTTP.Host != "10.0.0.1" || cfg.HTTP.Port != 8088 {
		t.Errorf("HTTP section not applied: %+v", cfg.HTTP)
	}
	if cfg.HTTP.ReadTimeout != 45*time.Second {
		t.Errorf("Expected read timeout 45s, got %v", cfg.HTTP.ReadTimeout)
	}
	// Unset fields keep their defaults.
	if cfg.HTTP.WriteTimeout != 30*time.Second {
		t.Errorf("Expected default write timeout, got %v", cfg.HTTP.WriteTimeout)
	}
	if cfg.WebSocket.PingInterval != 20*time.Second || cfg.WebSocket.BufferSize != 50 {
		t.Errorf("WebSocket section not applied: %+v", cfg.WebSocket)
	}
	if cfg.Files.ContentDir != "/var/corkboard" {
		t.Errorf("Expected content dir /var/corkboard, got %s", cfg.Files.ContentDir)
	}
	if cfg.Files.Seed {
		t.Error("Expected seeding off")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestLoadFromFileRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"files": {"content_dir": ""}}`), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	// Empty strings fall back to defaults, so this file still validates.
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Files.ContentDir != "./files" {
		t.Errorf("Empty content dir must keep the default, got %s", cfg.Files.ContentDir)
	}
}

func TestLoadWithPrecedence(t *testing.T) {
	t.Setenv("CORKBOARD_HTTP_PORT", "9001")

	// No file: environment wins.
	cfg := LoadWithPrecedence("")
	if cfg.HTTP.Port != 9001 {
		t.Errorf("Expected env port 9001, got %d", cfg.HTTP.Port)
	}

	// File present: file wins over environment.
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"http": {"port": 9002}}`), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	cfg = LoadWithPrecedence(path)
	if cfg.HTTP.Port != 9002 {
		t.Errorf("Expected file port 9002, got %d", cfg.HTTP.Port)
	}

	// Broken file: fall back to environment.
	broken := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(broken, []byte("{"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	cfg = LoadWithPrecedence(broken)
	if cfg.HTTP.Port != 9001 {
		t.Errorf("Expected env fallback port 9001, got %d", cfg.HTTP.Port)
	}
}
