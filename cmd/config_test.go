package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/payoff"
	"github.com/etnz/payoff/eodhd"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates the test from the user's environment.
func clearEnv(t *testing.T) {
	t.Setenv(eodhd.APIKeyEnv, "")
	t.Setenv(LogLevelEnv, "")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, payoff.DefaultRate, cfg.Rate)
	assert.Equal(t, payoff.DefaultVolatility, cfg.Volatility)
	assert.Equal(t, payoff.DefaultGridPoints, cfg.Points)
	assert.Equal(t, payoff.DefaultRangePct, cfg.Range)
	assert.Equal(t, "tastytrade_positions", cfg.Positions.Prefix)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Empty(t, cfg.EODHD.APIKey)
	assert.Equal(t, time.Minute, cfg.EODHD.GetCache())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Downloads"), cfg.Positions.Dir)
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `
rate = 0.04
volatility = 0.35
points = 50
range = 0.3
workers = 4

[positions]
dir = "/data/exports"
prefix = "positions"

[eodhd]
api_key = "from-file"
timeout = "5s"
cache = "0"

[gemini]
model = "gemini-2.5-flash"

[log]
level = "debug"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.04, cfg.Rate)
	assert.Equal(t, 0.35, cfg.Volatility)
	assert.Equal(t, 50, cfg.Points)
	assert.Equal(t, 0.3, cfg.Range)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "/data/exports", cfg.Positions.Dir)
	assert.Equal(t, "positions", cfg.Positions.Prefix)
	assert.Equal(t, "from-file", cfg.EODHD.APIKey)
	assert.Equal(t, 5*time.Second, cfg.EODHD.GetTimeout())
	assert.Zero(t, cfg.EODHD.GetCache())
	assert.Equal(t, eodhd.DefaultBaseURL, cfg.EODHD.BaseURL, "unset keys keep their default")
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_LaterFilesOverride(t *testing.T) {
	clearEnv(t)
	first := writeFile(t, "first.toml", "rate = 0.01\npoints = 10\n")
	second := writeFile(t, "second.toml", "rate = 0.02\n")

	cfg, err := LoadConfig(first, second)
	require.NoError(t, err)
	assert.Equal(t, 0.02, cfg.Rate)
	assert.Equal(t, 10, cfg.Points)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv(eodhd.APIKeyEnv, "from-env")
	t.Setenv(LogLevelEnv, "error")
	path := writeFile(t, "config.toml", "[eodhd]\napi_key = \"from-file\"\n[log]\nlevel = \"debug\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.EODHD.APIKey)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed", "rate = [", "failed to parse config file"},
		{"zero volatility", "volatility = 0.0", "invalid volatility"},
		{"single point", "points = 1", "invalid points"},
		{"full range", "range = 1.0", "invalid range"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "config.toml", tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestEODHDConfig_InvalidDurations(t *testing.T) {
	c := EODHDConfig{Timeout: "soon", Cache: "forever"}
	assert.Equal(t, eodhd.DefaultTimeout, c.GetTimeout())
	assert.Zero(t, c.GetCache())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, "Downloads"), expandHome("~/Downloads"))
	assert.Equal(t, "/tmp/x", expandHome("/tmp/x"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}

func TestParseLevel(t *testing.T) {
	testCases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		" warn ":  zerolog.WarnLevel,
		"":        zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range testCases {
		assert.Equal(t, want, parseLevel(in), "parseLevel(%q)", in)
	}
}
