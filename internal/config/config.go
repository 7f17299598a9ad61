package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"AssetTracker/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr              string `yaml:"addr"`
		RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	} `yaml:"server"`
	Quotes struct {
		Source        string `yaml:"source"` // "yahoo" or "mock"
		BaseURL       string `yaml:"base_url"`
		TimeoutSec    int    `yaml:"timeout_sec"`
		MinIntervalMs int    `yaml:"min_interval_ms"`
		Concurrency   int    `yaml:"concurrency"`
	} `yaml:"quotes"`
	Assets        []model.Asset `yaml:"assets"`
	DefaultPeriod string        `yaml:"default_period"`
	Cache         struct {
		TTLSec   int `yaml:"ttl_sec"`
		MaxItems int `yaml:"max_items"`
	} `yaml:"cache"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		DigestCron  string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] load .env: %v", err)
	}

	// Environment variable overrides
	if v := os.Getenv("TRACKER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("QUOTE_SOURCE"); v != "" {
		cfg.Quotes.Source = v
	}
	if v := os.Getenv("QUOTE_TIMEOUT_SEC"); v != "" {
		var sec int
		if _, err := fmt.Sscanf(v, "%d", &sec); err == nil {
			cfg.Quotes.TimeoutSec = sec
		}
	}
	if v := os.Getenv("QUOTE_MIN_INTERVAL_MS"); v != "" {
		var ms int
		if _, err := fmt.Sscanf(v, "%d", &ms); err == nil {
			cfg.Quotes.MinIntervalMs = ms
		}
	}
	if v := os.Getenv("CACHE_TTL_SEC"); v != "" {
		var sec int
		if _, err := fmt.Sscanf(v, "%d", &sec); err == nil {
			cfg.Cache.TTLSec = sec
		}
	}
	if v := os.Getenv("DEFAULT_PERIOD"); v != "" {
		cfg.DefaultPeriod = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("DIGEST_CRON"); v != "" {
		cfg.Schedule.DigestCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.RequestTimeoutSec == 0 {
		cfg.Server.RequestTimeoutSec = 30
	}
	if cfg.Quotes.Source == "" {
		cfg.Quotes.Source = "yahoo"
	}
	if cfg.Quotes.TimeoutSec == 0 {
		cfg.Quotes.TimeoutSec = 5
	}
	if cfg.Quotes.Concurrency == 0 {
		cfg.Quotes.Concurrency = 4
	}
	if len(cfg.Assets) == 0 {
		cfg.Assets = append([]model.Asset(nil), model.DefaultAssets...)
	}
	if cfg.DefaultPeriod == "" {
		cfg.DefaultPeriod = string(model.DefaultPeriod)
	}
	if cfg.Cache.TTLSec == 0 {
		cfg.Cache.TTLSec = 300
	}
	if cfg.Cache.MaxItems == 0 {
		cfg.Cache.MaxItems = 256
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if cfg.Schedule.DigestCron == "" {
		cfg.Schedule.DigestCron = "0 0 22 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/asset_tracker.db"
	}

	return cfg, nil
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if c.Quotes.Source != "yahoo" && c.Quotes.Source != "mock" {
		return fmt.Errorf("quotes.source must be yahoo or mock, got %q", c.Quotes.Source)
	}
	if c.Quotes.TimeoutSec <= 0 {
		return fmt.Errorf("quotes.timeout_sec must be positive")
	}
	if c.Quotes.MinIntervalMs < 0 {
		return fmt.Errorf("quotes.min_interval_ms must not be negative")
	}
	if _, err := model.ParsePeriod(c.DefaultPeriod); err != nil {
		return fmt.Errorf("default_period: %w", err)
	}
	if _, err := c.Registry(); err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	if c.Cache.TTLSec < 0 {
		return fmt.Errorf("cache.ttl_sec must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Registry builds the asset registry from the configured list.
func (c *Config) Registry() (*model.Registry, error) {
	return model.NewRegistry(c.Assets)
}

// Period returns the validated default period.
func (c *Config) Period() model.Period {
	return model.Period(c.DefaultPeriod)
}

// TelegramEnabled reports whether the bot is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
