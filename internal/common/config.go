package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Queue       QueueConfig      `toml:"queue"`
	Logging     LoggingConfig    `toml:"logging"`
	Auth        AuthConfig       `toml:"auth"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
	LLM         LLMConfig        `toml:"llm"`
	Providers   ProvidersConfig  `toml:"providers"`
	Processing  ProcessingConfig `toml:"processing"`
	Capture     CaptureConfig    `toml:"capture"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path"` // Database file path
	UploadDir  string `toml:"upload_dir"`  // Media upload directory
}

type QueueConfig struct {
	Name         string `toml:"name"`          // goqite queue name
	Concurrency  int    `toml:"concurrency"`   // Number of concurrent workers
	PollInterval string `toml:"poll_interval"` // e.g. "1s" - worker poll interval when queue is empty
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// AuthConfig contains JWT authentication settings
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // e.g. "24h"
}

type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
}

type LLMConfig struct {
	DefaultProvider string `toml:"default_provider"` // "gemini" or "claude"
}

// ProviderLimitConfig holds the per-provider rate limit quotas.
// Defaults match the Gemini free tier (10 RPM / 4000 RPD).
type ProviderLimitConfig struct {
	RPMLimit int `toml:"rpm_limit"` // Requests per minute
	RPDLimit int `toml:"rpd_limit"` // Requests per day
}

// ProvidersConfig maps provider names to their rate limit quotas
type ProvidersConfig struct {
	Gemini ProviderLimitConfig `toml:"gemini"`
	Claude ProviderLimitConfig `toml:"claude"`
}

// ProcessingConfig controls the job reconciler schedule
type ProcessingConfig struct {
	ReconcileSchedule string `toml:"reconcile_schedule"` // Standard 5-field cron schedule
	StaleJobAge       string `toml:"stale_job_age"`      // Jobs processing longer than this are failed
	JobRetention      string `toml:"job_retention"`      // Terminal jobs older than this are purged
}

// CaptureConfig controls the web clip fetcher
type CaptureConfig struct {
	RequestTimeout    string `toml:"request_timeout"`     // HTTP timeout for clip fetches
	RequestsPerSecond int    `toml:"requests_per_second"` // Per-host politeness limit
	MaxBodySize       int64  `toml:"max_body_size"`       // Maximum response body size in bytes
	UserAgent         string `toml:"user_agent"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			SQLitePath: "./data/aura.db",
			UploadDir:  "./data/uploads",
		},
		Queue: QueueConfig{
			Name:         "processing",
			Concurrency:  4,
			PollInterval: "1s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Auth: AuthConfig{
			TokenExpiry: "24h",
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			Temperature: 0.3,
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   4096,
			Temperature: 0.3,
		},
		LLM: LLMConfig{
			DefaultProvider: "gemini",
		},
		Providers: ProvidersConfig{
			Gemini: ProviderLimitConfig{RPMLimit: 10, RPDLimit: 4000},
			Claude: ProviderLimitConfig{RPMLimit: 50, RPDLimit: 10000},
		},
		Processing: ProcessingConfig{
			ReconcileSchedule: "*/5 * * * *",
			StaleJobAge:       "30m",
			JobRetention:      "720h",
		},
		Capture: CaptureConfig{
			RequestTimeout:    "30s",
			RequestsPerSecond: 2,
			MaxBodySize:       10 * 1024 * 1024,
			UserAgent:         "Aura/1.0",
		},
	}
}

// LoadFromFile loads configuration: defaults -> TOML file -> environment.
// A missing file is not an error; defaults and environment still apply.
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies AURA_* environment variables over the loaded config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("AURA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("AURA_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("AURA_SQLITE_PATH"); v != "" {
		config.Storage.SQLitePath = v
	}
	if v := os.Getenv("AURA_UPLOAD_DIR"); v != "" {
		config.Storage.UploadDir = v
	}
	if v := os.Getenv("AURA_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("AURA_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("AURA_GEMINI_API_KEY"); v != "" {
		config.Gemini.APIKey = v
	}
	if v := os.Getenv("AURA_ANTHROPIC_API_KEY"); v != "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("AURA_DEFAULT_PROVIDER"); v != "" {
		config.LLM.DefaultProvider = v
	}
	if v := os.Getenv("AURA_GEMINI_RPM_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Providers.Gemini.RPMLimit = n
		}
	}
	if v := os.Getenv("AURA_GEMINI_RPD_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Providers.Gemini.RPDLimit = n
		}
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Queue.Concurrency < 1 {
		return fmt.Errorf("queue concurrency must be at least 1, got %d", c.Queue.Concurrency)
	}
	switch strings.ToLower(c.LLM.DefaultProvider) {
	case "gemini", "claude":
	default:
		return fmt.Errorf("invalid default provider %q: must be 'gemini' or 'claude'", c.LLM.DefaultProvider)
	}
	if c.Providers.Gemini.RPMLimit < 1 || c.Providers.Gemini.RPDLimit < 1 {
		return fmt.Errorf("gemini rate limits must be positive")
	}
	if c.Providers.Claude.RPMLimit < 1 || c.Providers.Claude.RPDLimit < 1 {
		return fmt.Errorf("claude rate limits must be positive")
	}
	if _, err := c.PollInterval(); err != nil {
		return fmt.Errorf("invalid queue poll interval: %w", err)
	}
	return nil
}

// PollInterval returns the parsed worker poll interval
func (c *Config) PollInterval() (time.Duration, error) {
	if c.Queue.PollInterval == "" {
		return time.Second, nil
	}
	return time.ParseDuration(c.Queue.PollInterval)
}

// TokenExpiry returns the parsed JWT token lifetime
func (c *Config) TokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.Auth.TokenExpiry)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// StaleJobAge returns the parsed stale job threshold
func (c *Config) StaleJobAge() time.Duration {
	d, err := time.ParseDuration(c.Processing.StaleJobAge)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// JobRetention returns the parsed terminal job retention window
func (c *Config) JobRetention() time.Duration {
	d, err := time.ParseDuration(c.Processing.JobRetention)
	if err != nil || d <= 0 {
		return 30 * 24 * time.Hour
	}
	return d
}

// CaptureTimeout returns the parsed web clip request timeout
func (c *Config) CaptureTimeout() time.Duration {
	d, err := time.ParseDuration(c.Capture.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
