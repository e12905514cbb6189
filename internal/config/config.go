package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fbrportal/internal/logger"
)

const (
	DefaultBaseURL  = "https://backend.aaconsultant.com.pk/api"
	DefaultTimeout  = 45 * time.Second
	DefaultPageSize = 10
)

type Config struct {
	// Backend API
	APIBaseURL string
	APITimeout time.Duration

	// Session persistence
	SessionFile string

	// List views
	PageSize int

	// Optional: Google Sheets export target
	GoogleSheetURL string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// APIConfig is the subset of Config the HTTP client needs.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

func Load() (*Config, error) {
	timeout, err := getDuration("FBR_API_TIMEOUT", DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	pageSize, err := getInt("FBR_PAGE_SIZE", DefaultPageSize)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config := &Config{
		APIBaseURL:     getEnv("FBR_API_BASE_URL", DefaultBaseURL),
		APITimeout:     timeout,
		SessionFile:    getEnv("FBR_SESSION_FILE", defaultSessionFile()),
		PageSize:       pageSize,
		GoogleSheetURL: getEnv("GOOGLE_SHEET_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "warn"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:  getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:      getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("FBR_API_BASE_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("FBR_API_BASE_URL must be an http(s) URL, got %q", c.APIBaseURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("FBR_API_TIMEOUT must be positive")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("FBR_PAGE_SIZE must be positive")
	}
	if c.SessionFile == "" {
		return fmt.Errorf("FBR_SESSION_FILE is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// GetAPIConfig returns the HTTP client configuration
func (c *Config) GetAPIConfig() APIConfig {
	return APIConfig{
		BaseURL: c.APIBaseURL,
		Timeout: c.APITimeout,
	}
}

// Default returns the configuration used when the environment cannot be
// loaded.
func Default() *Config {
	return &Config{
		APIBaseURL:    DefaultBaseURL,
		APITimeout:    DefaultTimeout,
		SessionFile:   defaultSessionFile(),
		PageSize:      DefaultPageSize,
		LogLevel:      "warn",
		LogFormat:     "console",
		LogTimeFormat: time.RFC3339,
		LogOutput:     "stderr",
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "fbrportal", "session")
	}
	return filepath.Join(home, ".fbrportal", "session")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		// Bare numbers are seconds.
		secs, convErr := strconv.Atoi(value)
		if convErr != nil {
			return 0, fmt.Errorf("%s: invalid duration %q", key, value)
		}
		d = time.Duration(secs) * time.Second
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return n, nil
}
