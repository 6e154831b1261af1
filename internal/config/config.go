package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultPDFDirectory   = "pdfs"
	DefaultShardDirectory = "shards"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultWorkers        = 4
	DefaultMaxFileSize    = 100 * 1024 * 1024 // 100MB

	// envPrefix is the prefix of every environment variable the
	// pipeline reads, e.g. LICPIPE_SHARD_DIR.
	envPrefix = "LICPIPE"
)

// configKeys lists every viper key a command flag may bind to
var configKeys = []string{
	"pdf-dir",
	"shard-dir",
	"workers",
	"max-file-size",
	"log-level",
	"log-format",
}

// Config holds all configuration for the licensing pipeline
type Config struct {
	// PDFDirectory is the archive directory scanned for source PDFs
	PDFDirectory string

	// ShardDirectory holds the JSONL document shards
	ShardDirectory string

	// Workers bounds concurrent hashing and text extraction
	Workers int

	// MaxFileSize is the largest PDF the pipeline will read, in bytes
	MaxFileSize int64

	// Application configuration
	Version   string
	LogLevel  string
	LogFormat string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		PDFDirectory:   DefaultPDFDirectory,
		ShardDirectory: DefaultShardDirectory,
		Workers:        DefaultWorkers,
		MaxFileSize:    DefaultMaxFileSize,
		Version:        "1.0.0",
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// Load resolves the configuration from defaults, environment variables
// and the given command's flags, in rising priority.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	bindFlagsToViper(fs)
	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}
	if cfg.ShardDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.ShardDirectory); err == nil {
			cfg.ShardDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("pdf-dir", cfg.PDFDirectory)
	viper.SetDefault("shard-dir", cfg.ShardDirectory)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("max-file-size", cfg.MaxFileSize)
	viper.SetDefault("log-level", cfg.LogLevel)
	viper.SetDefault("log-format", cfg.LogFormat)
}

// bindFlagsToViper binds the command's flags to viper configuration.
// Only flags the command actually defines are bound.
func bindFlagsToViper(fs *pflag.FlagSet) {
	if fs == nil {
		return
	}
	for _, key := range configKeys {
		if flag := fs.Lookup(key); flag != nil {
			_ = viper.BindPFlag(key, flag)
		}
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.PDFDirectory = viper.GetString("pdf-dir")
	cfg.ShardDirectory = viper.GetString("shard-dir")
	cfg.Workers = viper.GetInt("workers")
	cfg.MaxFileSize = viper.GetInt64("max-file-size")
	cfg.LogLevel = viper.GetString("log-level")
	cfg.LogFormat = viper.GetString("log-format")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate PDF directory
	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Validate shard directory. The store creates it on first write, so
	// read-only commands never leave empty directories behind.
	if c.ShardDirectory == "" {
		return errors.New("shard directory cannot be empty")
	}

	// Validate worker count
	if c.Workers < 1 {
		return errors.New("worker count must be positive")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	// Validate log format
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}

	return nil
}

// SlogLevel maps the configured log level to a slog level
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{PDFDirectory: %s, ShardDirectory: %s, Workers: %d, MaxFileSize: %d, LogLevel: %s, LogFormat: %s}",
		c.PDFDirectory, c.ShardDirectory, c.Workers, c.MaxFileSize, c.LogLevel, c.LogFormat)
}
