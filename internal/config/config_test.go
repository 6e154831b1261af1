package config

import (
	"log/slog"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test default values
	if cfg.PDFDirectory != "pdfs" {
		t.Errorf("Expected default PDF directory to be 'pdfs', got '%s'", cfg.PDFDirectory)
	}

	if cfg.ShardDirectory != "shards" {
		t.Errorf("Expected default shard directory to be 'shards', got '%s'", cfg.ShardDirectory)
	}

	if cfg.Workers != 4 {
		t.Errorf("Expected default worker count to be 4, got %d", cfg.Workers)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.LogFormat != "text" {
		t.Errorf("Expected default log format to be 'text', got '%s'", cfg.LogFormat)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func(mutate func(*Config)) *Config {
		cfg := DefaultConfig()
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid default config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "empty PDF directory",
			config:  valid(func(c *Config) { c.PDFDirectory = "" }),
			wantErr: true,
		},
		{
			name:    "empty shard directory",
			config:  valid(func(c *Config) { c.ShardDirectory = "" }),
			wantErr: true,
		},
		{
			name:    "zero workers",
			config:  valid(func(c *Config) { c.Workers = 0 }),
			wantErr: true,
		},
		{
			name:    "negative workers",
			config:  valid(func(c *Config) { c.Workers = -1 }),
			wantErr: true,
		},
		{
			name:    "zero max file size",
			config:  valid(func(c *Config) { c.MaxFileSize = 0 }),
			wantErr: true,
		},
		{
			name:    "invalid log level",
			config:  valid(func(c *Config) { c.LogLevel = "verbose" }),
			wantErr: true,
		},
		{
			name:    "invalid log format",
			config:  valid(func(c *Config) { c.LogFormat = "xml" }),
			wantErr: true,
		},
		{
			name:    "json log format",
			config:  valid(func(c *Config) { c.LogFormat = "json" }),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateLogLevels(t *testing.T) {
	validLevels := []string{"debug", "info", "warn", "error"}

	for _, level := range validLevels {
		t.Run("valid_"+level, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LogLevel = level
			if err := cfg.Validate(); err != nil {
				t.Errorf("Config.Validate() with log level '%s' should not error, got: %v", level, err)
			}
		})
	}

	invalidLevels := []string{"trace", "fatal", "DEBUG", ""}

	for _, level := range invalidLevels {
		t.Run("invalid_"+level, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LogLevel = level
			if err := cfg.Validate(); err == nil {
				t.Errorf("Config.Validate() with log level '%s' should error", level)
			}
		})
	}
}

func TestConfigSlogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     slog.Level
	}{
		{
			name:     "debug level",
			logLevel: "debug",
			want:     slog.LevelDebug,
		},
		{
			name:     "info level",
			logLevel: "info",
			want:     slog.LevelInfo,
		},
		{
			name:     "warn level",
			logLevel: "warn",
			want:     slog.LevelWarn,
		},
		{
			name:     "error level",
			logLevel: "error",
			want:     slog.LevelError,
		},
		{
			name:     "unknown level falls back to info",
			logLevel: "verbose",
			want:     slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("Config.SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigIsDebug(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     bool
	}{
		{
			name:     "debug level",
			logLevel: "debug",
			want:     true,
		},
		{
			name:     "info level",
			logLevel: "info",
			want:     false,
		},
		{
			name:     "warn level",
			logLevel: "warn",
			want:     false,
		},
		{
			name:     "error level",
			logLevel: "error",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			if got := cfg.IsDebug(); got != tt.want {
				t.Errorf("Config.IsDebug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		PDFDirectory:   "/data/pdfs",
		ShardDirectory: "/data/shards",
		Workers:        8,
		MaxFileSize:    1024,
		LogLevel:       "debug",
		LogFormat:      "json",
	}

	result := cfg.String()

	// Check that the string contains expected components
	expectedSubstrings := []string{
		"PDFDirectory: /data/pdfs",
		"ShardDirectory: /data/shards",
		"Workers: 8",
		"MaxFileSize: 1024",
		"LogLevel: debug",
		"LogFormat: json",
	}

	for _, substr := range expectedSubstrings {
		if !contains(result, substr) {
			t.Errorf("Config.String() result doesn't contain expected substring: %s\nGot: %s", substr, result)
		}
	}
}

// Helper function to check if a string contains a substring
func contains(s, substr string) bool {
	return len(s) >= len(substr) &&
		(s == substr ||
			s[:len(substr)] == substr ||
			s[len(s)-len(substr):] == substr ||
			containsMiddle(s, substr))
}

func containsMiddle(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
