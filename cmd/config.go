package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/payoff"
	"github.com/etnz/payoff/agent"
	"github.com/etnz/payoff/eodhd"
	"github.com/etnz/payoff/tastytrade"
	toml "github.com/pelletier/go-toml/v2"
)

// LogLevelEnv overrides the configured log level.
const LogLevelEnv = "PAYOFF_LOG_LEVEL"

// Config is the configuration of the application.
type Config struct {
	Rate       float64         `toml:"rate"`       // annualized risk-free rate
	Volatility float64         `toml:"volatility"` // annualized volatility
	Points     int             `toml:"points"`     // grid points
	Range      float64         `toml:"range"`      // half width of the grid around spot
	Workers    int             `toml:"workers"`    // concurrent grid evaluation, 0 or 1 is sequential
	Positions  PositionsConfig `toml:"positions"`
	EODHD      EODHDConfig     `toml:"eodhd"`
	Gemini     GeminiConfig    `toml:"gemini"`
	Logging    LoggingConfig   `toml:"log"`
}

// PositionsConfig locates the broker exports.
type PositionsConfig struct {
	Dir    string `toml:"dir"`
	Prefix string `toml:"prefix"`
}

// EODHDConfig configures the quote service.
type EODHDConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	Cache     string `toml:"cache"` // how long quotes are cached on disk, "0" disables
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return eodhd.DefaultTimeout
	}
	return d
}

// GetCache parses and returns the cache duration, 0 when disabled or invalid.
func (c *EODHDConfig) GetCache() time.Duration {
	d, err := time.ParseDuration(c.Cache)
	if err != nil {
		return 0
	}
	return d
}

// GeminiConfig configures the assistant.
type GeminiConfig struct {
	Model string `toml:"model"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultConfigPath returns $HOME/.config/payoff/config.toml.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "payoff", "config.toml")
}

// NewDefaultConfig returns the configuration used when no file is found.
func NewDefaultConfig() *Config {
	return &Config{
		Rate:       payoff.DefaultRate,
		Volatility: payoff.DefaultVolatility,
		Points:     payoff.DefaultGridPoints,
		Range:      payoff.DefaultRangePct,
		Positions: PositionsConfig{
			Dir:    "~/Downloads",
			Prefix: tastytrade.DefaultPrefix,
		},
		EODHD: EODHDConfig{
			BaseURL:   eodhd.DefaultBaseURL,
			RateLimit: eodhd.DefaultRateLimit,
			Timeout:   "30s",
			Cache:     "1m",
		},
		Gemini: GeminiConfig{
			Model: agent.DefaultModel,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadConfig loads the configuration from the files in order (later files
// override earlier), then applies the environment overrides. Missing files
// are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.Positions.Dir = expandHome(config.Positions.Dir)
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if key := os.Getenv(eodhd.APIKeyEnv); key != "" {
		config.EODHD.APIKey = key
	}
	if level := os.Getenv(LogLevelEnv); level != "" {
		config.Logging.Level = level
	}
}

// Validate checks the pricing parameters.
func (c *Config) Validate() error {
	if !(c.Volatility > 0) {
		return fmt.Errorf("invalid volatility %v: must be positive", c.Volatility)
	}
	if c.Points < 2 {
		return fmt.Errorf("invalid points %d: must be at least 2", c.Points)
	}
	if !(c.Range > 0 && c.Range < 1) {
		return fmt.Errorf("invalid range %v: must be between 0 and 1", c.Range)
	}
	return nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
