package config

import (
	"os"
	"path/filepath"
	"testing"

	"AssetTracker/internal/model"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "yahoo", cfg.Quotes.Source)
	require.Equal(t, 5, cfg.Quotes.TimeoutSec)
	require.Equal(t, 300, cfg.Cache.TTLSec)
	require.Equal(t, model.Period5y, cfg.Period())
	require.Equal(t, model.DefaultAssets, cfg.Assets)
	require.False(t, cfg.TelegramEnabled())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
quotes:
  source: mock
  timeout_sec: 3
assets:
  - name: Gold
    ticker: GC=F
  - name: Copper
    ticker: HG=F
default_period: 1y
cache:
  ttl_sec: 60
`), 0o644))

	t.Setenv("CACHE_TTL_SEC", "120")
	t.Setenv("DEFAULT_PERIOD", "max")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, ":9000", cfg.Server.Addr)
	require.Equal(t, "mock", cfg.Quotes.Source)
	require.Equal(t, 3, cfg.Quotes.TimeoutSec)
	require.Equal(t, 120, cfg.Cache.TTLSec)
	require.Equal(t, model.PeriodMax, cfg.Period())

	reg, err := cfg.Registry()
	require.NoError(t, err)
	require.Equal(t, []string{"Gold", "Copper"}, reg.Names())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("QUOTE_TIMEOUT_SEC=7\n"), 0o644))
	t.Setenv("QUOTE_TIMEOUT_SEC", "")
	os.Unsetenv("QUOTE_TIMEOUT_SEC")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Quotes.TimeoutSec)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad source", func(c *Config) { c.Quotes.Source = "bloomberg" }},
		{"bad period", func(c *Config) { c.DefaultPeriod = "7d" }},
		{"duplicate asset", func(c *Config) { c.Assets = append(c.Assets, model.Asset{Name: "Gold", Ticker: "XAU"}) }},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "token" }},
		{"negative interval", func(c *Config) { c.Quotes.MinIntervalMs = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
