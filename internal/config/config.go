package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"SignalBench/internal/model"
)

// Defaults holds the analysis parameters used when a request omits them.
type Defaults struct {
	Ticker       string   `yaml:"ticker" json:"ticker"`
	LongMAWeeks  int      `yaml:"long_ma_weeks" json:"long_ma_period"`
	ShortMADays  int      `yaml:"short_ma_days" json:"short_ma_period"`
	StartDate    string   `yaml:"start_date" json:"start_date"`
	InitialSum   float64  `yaml:"initial_sum" json:"initial_sum"`
	GrowthTarget *float64 `yaml:"growth_target" json:"growth_target"` // nil means unset; 0 is a valid target
}

// DefaultGrowthTarget is the partial-exit target used when none is configured.
const DefaultGrowthTarget = 10.0

// GrowthTargetPercent returns the configured target or DefaultGrowthTarget.
func (d Defaults) GrowthTargetPercent() float64 {
	if d.GrowthTarget == nil {
		return DefaultGrowthTarget
	}
	return *d.GrowthTarget
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Defaults   Defaults `yaml:"defaults"`
	DataSource struct {
		Provider  string `yaml:"provider"`
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		RateLimit int    `yaml:"rate_limit"`
	} `yaml:"data_source"`
	Tickers struct {
		CSVPath string `yaml:"csv_path"`
	} `yaml:"tickers"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Watchlist []string `yaml:"watchlist"`
	Telegram  struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
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

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TICKERS_CSV"); v != "" {
		cfg.Tickers.CSVPath = v
	}
	if v, ok := os.LookupEnv("SQLITE_PATH"); ok {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = strings.Split(v, ",")
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Defaults.Ticker == "" {
		cfg.Defaults.Ticker = "AAPL"
	}
	if cfg.Defaults.LongMAWeeks == 0 {
		cfg.Defaults.LongMAWeeks = 50
	}
	if cfg.Defaults.ShortMADays == 0 {
		cfg.Defaults.ShortMADays = 20
	}
	if cfg.Defaults.StartDate == "" {
		cfg.Defaults.StartDate = "2010-01-01"
	}
	if cfg.Defaults.InitialSum == 0 {
		cfg.Defaults.InitialSum = 1000
	}
	if cfg.Defaults.GrowthTarget == nil {
		v := DefaultGrowthTarget
		cfg.Defaults.GrowthTarget = &v
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
		if cfg.DataSource.BaseURL != "" {
			cfg.DataSource.Provider = "rest"
		}
	}
	if cfg.DataSource.RateLimit == 0 {
		cfg.DataSource.RateLimit = 5
	}
	if cfg.Tickers.CSVPath == "" {
		cfg.Tickers.CSVPath = "tickers.csv"
	}
	if _, set := os.LookupEnv("SQLITE_PATH"); !set && cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/signalbench.db"
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 30 22 * * 1-5"
	}
	for i, s := range cfg.Watchlist {
		cfg.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Defaults.LongMAWeeks <= 0 || c.Defaults.ShortMADays <= 0 {
		return fmt.Errorf("defaults: moving average periods must be positive")
	}
	if c.Defaults.InitialSum <= 0 {
		return fmt.Errorf("defaults.initial_sum must be positive")
	}
	if _, err := time.Parse(model.DateLayout, c.Defaults.StartDate); err != nil {
		return fmt.Errorf("defaults.start_date: %w", err)
	}
	switch c.DataSource.Provider {
	case "yahoo":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	for _, s := range c.Watchlist {
		if s == "" {
			return fmt.Errorf("watchlist contains an empty symbol")
		}
	}
	return nil
}

// TelegramEnabled reports whether a bot token is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}
