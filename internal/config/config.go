// Package config provides configuration management for clipstream.
// Configuration is loaded from environment variables (optionally seeded from a
// .env file) with sensible defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	// Default values
	DefaultServerURL = "http://127.0.0.1:5000"
	DefaultLogLevel  = "info"
	DefaultDataDir   = ".clipstream"

	// Environment variable names
	EnvServerURL        = "CLIPSTREAM_SERVER_URL"
	EnvLogLevel         = "CLIPSTREAM_LOG_LEVEL"
	EnvLogFormat        = "CLIPSTREAM_LOG_FORMAT"
	EnvLogFile          = "CLIPSTREAM_LOG_FILE"
	EnvDataDir          = "CLIPSTREAM_DATA_DIR"
	EnvPreviewPort      = "CLIPSTREAM_PREVIEW_PORT"
	EnvRequestTimeout   = "CLIPSTREAM_REQUEST_TIMEOUT"
	EnvMaxResponseBytes = "CLIPSTREAM_MAX_RESPONSE_BYTES"
	EnvTray             = "CLIPSTREAM_TRAY"

	// DotEnvFile is loaded from the working directory when present.
	DotEnvFile = ".env"

	LogFilename = "clipstream.log"
)

// Config defines the application configuration interface
type Config interface {
	ServerURL() string
	LogLevel() string
	LogFormat() string
	LogFile() string
	DataDir() string
	PreviewPort() int
	RequestTimeout() time.Duration
	MaxResponseBytes() int64
	TrayEnabled() bool
}

type env struct {
	ServerURL        string        `env:"CLIPSTREAM_SERVER_URL" env-default:"http://127.0.0.1:5000" env-description:"clipping server base URL"`
	LogLevel         string        `env:"CLIPSTREAM_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	LogFormat        string        `env:"CLIPSTREAM_LOG_FORMAT" env-default:"json" env-description:"json or text"`
	LogFile          string        `env:"CLIPSTREAM_LOG_FILE" env-description:"log file, defaults to <data dir>/clipstream.log"`
	DataDir          string        `env:"CLIPSTREAM_DATA_DIR" env-description:"directory for logs"`
	PreviewPort      int           `env:"CLIPSTREAM_PREVIEW_PORT" env-default:"0" env-description:"local preview server port, 0 picks one"`
	RequestTimeout   time.Duration `env:"CLIPSTREAM_REQUEST_TIMEOUT" env-default:"0s" env-description:"clip request timeout, 0 disables it"`
	MaxResponseBytes int64         `env:"CLIPSTREAM_MAX_RESPONSE_BYTES" env-default:"1048576" env-description:"maximum response body size"`
	Tray             bool          `env:"CLIPSTREAM_TRAY" env-default:"false" env-description:"mirror status in the system tray"`
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	values env
}

// New creates a new EnvConfig with defaults and environment variable overrides.
// Variables already set in the environment win over the .env file.
func New() (*EnvConfig, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	var cfg EnvConfig
	if err := cleanenv.ReadEnv(&cfg.values); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.values.DataDir == "" {
		cfg.values.DataDir = defaultDataDir()
	}
	cfg.values.ServerURL = strings.TrimRight(cfg.values.ServerURL, "/")

	return &cfg, nil
}

func (c *EnvConfig) validate() error {
	u, err := url.Parse(c.values.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %q is not an http(s) URL", EnvServerURL, c.values.ServerURL)
	}

	if p := c.values.PreviewPort; p < 0 || p > 65535 {
		return fmt.Errorf("invalid %s: port must be between 0 and 65535", EnvPreviewPort)
	}

	if c.values.RequestTimeout < 0 {
		return fmt.Errorf("invalid %s: timeout must not be negative", EnvRequestTimeout)
	}

	if c.values.MaxResponseBytes <= 0 {
		return fmt.Errorf("invalid %s: must be positive", EnvMaxResponseBytes)
	}

	switch strings.ToLower(c.values.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid %s: %q (want json or text)", EnvLogFormat, c.values.LogFormat)
	}

	return nil
}

// Usage describes every variable, for --help output.
func Usage() string {
	var v env
	text, err := cleanenv.GetDescription(&v, nil)
	if err != nil {
		return ""
	}
	return text
}

// ServerURL returns the clipping server base URL without a trailing slash
func (c *EnvConfig) ServerURL() string {
	return c.values.ServerURL
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.values.LogLevel
}

func (c *EnvConfig) LogFormat() string {
	return strings.ToLower(c.values.LogFormat)
}

// LogFile returns the log file path
func (c *EnvConfig) LogFile() string {
	if c.values.LogFile != "" {
		return c.values.LogFile
	}
	return filepath.Join(c.values.DataDir, LogFilename)
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.values.DataDir
}

func (c *EnvConfig) PreviewPort() int {
	return c.values.PreviewPort
}

func (c *EnvConfig) RequestTimeout() time.Duration {
	return c.values.RequestTimeout
}

func (c *EnvConfig) MaxResponseBytes() int64 {
	return c.values.MaxResponseBytes
}

func (c *EnvConfig) TrayEnabled() bool {
	return c.values.Tray
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
