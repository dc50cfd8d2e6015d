package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config collects the system-wide settings: HTTP surface, WebSocket
// transport tuning, and the content directory for uploaded files.
type Config struct {
	HTTP      *HTTPConfig      `json:"http"`
	WebSocket *WebSocketConfig `json:"websocket"`
	Files     *FilesConfig     `json:"files"`
}

type HTTPConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

type WebSocketConfig struct {
	PingInterval time.Duration `json:"ping_interval"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	BufferSize   int           `json:"buffer_size"`
}

type FilesConfig struct {
	ContentDir    string `json:"content_dir"`
	MaxUploadSize int64  `json:"max_upload_size"`
	Seed          bool   `json:"seed"`
}

// DefaultConfig returns the defaults a bare deployment runs with.
func DefaultConfig() *Config {
	return &Config{
		HTTP: &HTTPConfig{
			Host:         "0.0.0.0",
			Port:         7070,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		WebSocket: &WebSocketConfig{
			PingInterval: 30 * time.Second,
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 10 * time.Second,
			BufferSize:   100,
		},
		Files: &FilesConfig{
			ContentDir:    "./files",
			MaxUploadSize: 32 << 20, // 32 MB
			Seed:          true,
		},
	}
}

// Validate rejects configurations that would fail at runtime.
func (c *Config) Validate() error {
	if c.HTTP == nil {
		return fmt.Errorf("HTTP configuration is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP port must be between 1 and 65535")
	}
	if c.HTTP.Host == "" {
		return fmt.Errorf("HTTP host cannot be empty")
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP timeouts must be positive")
	}

	if c.WebSocket == nil {
		return fmt.Errorf("WebSocket configuration is required")
	}
	if c.WebSocket.PingInterval <= 0 || c.WebSocket.ReadTimeout <= 0 || c.WebSocket.WriteTimeout <= 0 {
		return fmt.Errorf("WebSocket intervals must be positive")
	}
	if c.WebSocket.BufferSize <= 0 {
		return fmt.Errorf("WebSocket buffer size must be positive")
	}

	if c.Files == nil {
		return fmt.Errorf("files configuration is required")
	}
	if c.Files.ContentDir == "" {
		return fmt.Errorf("content directory cannot be empty")
	}
	if c.Files.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}

	return nil
}

// LoadFromEnv overlays CORKBOARD_* environment variables onto the defaults.
func LoadFromEnv() *Config {
	config := DefaultConfig()

	if port := os.Getenv("CORKBOARD_HTTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.HTTP.Port = p
		}
	}
	if host := os.Getenv("CORKBOARD_HTTP_HOST"); host != "" {
		config.HTTP.Host = host
	}
	if readTimeout := os.Getenv("CORKBOARD_HTTP_READ_TIMEOUT"); readTimeout != "" {
		if timeout, err := time.ParseDuration(readTimeout); err == nil {
			config.HTTP.ReadTimeout = timeout
		}
	}
	if writeTimeout := os.Getenv("CORKBOARD_HTTP_WRITE_TIMEOUT"); writeTimeout != "" {
		if timeout, err := time.ParseDuration(writeTimeout); err == nil {
			config.HTTP.WriteTimeout = timeout
		}
	}
	if pingInterval := os.Getenv("CORKBOARD_WEBSOCKET_PING_INTERVAL"); pingInterval != "" {
		if interval, err := time.ParseDuration(pingInterval); err == nil {
			config.WebSocket.PingInterval = interval
		}
	}
	if bufferSize := os.Getenv("CORKBOARD_WEBSOCKET_BUFFER_SIZE"); bufferSize != "" {
		if size, err := strconv.Atoi(bufferSize); err == nil {
			config.WebSocket.BufferSize = size
		}
	}
	if contentDir := os.Getenv("CORKBOARD_CONTENT_DIR"); contentDir != "" {
		config.Files.ContentDir = contentDir
	}
	if maxUpload := os.Getenv("CORKBOARD_MAX_UPLOAD_SIZE"); maxUpload != "" {
		if size, err := strconv.ParseInt(maxUpload, 10, 64); err == nil {
			config.Files.MaxUploadSize = size
		}
	}
	if seed := os.Getenv("CORKBOARD_SEED"); seed != "" {
		if value, err := strconv.ParseBool(seed); err == nil {
			config.Files.Seed = value
		}
	}

	return config
}

// configFile is the JSON shape for file-based configuration; durations are
// strings so the file stays human-writable.
type configFile struct {
	HTTP *struct {
		Host         string `json:"host"`
		Port         int    `json:"port"`
		ReadTimeout  string `json:"read_timeout"`
		WriteTimeout string `json:"write_timeout"`
	} `json:"http"`
	WebSocket *struct {
		PingInterval string `json:"ping_interval"`
		ReadTimeout  string `json:"read_timeout"`
		WriteTimeout string `json:"write_timeout"`
		BufferSize   int    `json:"buffer_size"`
	} `json:"websocket"`
	Files *struct {
		ContentDir    string `json:"content_dir"`
		MaxUploadSize int64  `json:"max_upload_size"`
		Seed          *bool  `json:"seed"`
	} `json:"files"`
}

// LoadFromFile overlays a JSON configuration file onto the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed configFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config := DefaultConfig()
	if parsed.HTTP != nil {
		if parsed.HTTP.Host != "" {
			config.HTTP.Host = parsed.HTTP.Host
		}
		if parsed.HTTP.Port > 0 {
			config.HTTP.Port = parsed.HTTP.Port
		}
		if timeout, err := time.ParseDuration(parsed.HTTP.ReadTimeout); err == nil {
			config.HTTP.ReadTimeout = timeout
		}
		if timeout, err := time.ParseDuration(parsed.HTTP.WriteTimeout); err == nil {
			config.HTTP.WriteTimeout = timeout
		}
	}
	if parsed.WebSocket != nil {
		if interval, err := time.ParseDuration(parsed.WebSocket.PingInterval); err == nil {
			config.WebSocket.PingInterval = interval
		}
		if timeout, err := time.ParseDuration(parsed.WebSocket.ReadTimeout); err == nil {
			config.WebSocket.ReadTimeout = timeout
		}
		if timeout, err := time.ParseDuration(parsed.WebSocket.WriteTimeout); err == nil {
			config.WebSocket.WriteTimeout = timeout
		}
		if parsed.WebSocket.BufferSize > 0 {
			config.WebSocket.BufferSize = parsed.WebSocket.BufferSize
		}
	}
	if parsed.Files != nil {
		if parsed.Files.ContentDir != "" {
			config.Files.ContentDir = parsed.Files.ContentDir
		}
		if parsed.Files.MaxUploadSize > 0 {
			config.Files.MaxUploadSize = parsed.Files.MaxUploadSize
		}
		if parsed.Files.Seed != nil {
			config.Files.Seed = *parsed.Files.Seed
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return config, nil
}

// LoadWithPrecedence resolves configuration as file > environment >
// defaults. A missing or broken file falls back silently to the
// environment layer.
func LoadWithPrecedence(path string) *Config {
	config := LoadFromEnv()
	if path != "" {
		if fileConfig, err := LoadFromFile(path); err == nil {
			config = fileConfig
		}
	}
	return config
}
