package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider names.
const (
	ProviderCoinGecko = "coingecko"
	ProviderYahoo     = "yahoo"
	ProviderMock      = "mock"
)

// Universe sources.
const (
	SourceProvider  = "provider"
	SourceWatchlist = "watchlist"
)

// Config holds all application configuration.
type Config struct {
	Provider struct {
		Name          string        `yaml:"name"`
		BaseURL       string        `yaml:"base_url"`
		APIKey        string        `yaml:"api_key"`
		RatePerMinute float64       `yaml:"rate_per_minute"`
		LookbackDays  int           `yaml:"lookback_days"`
		FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	} `yaml:"provider"`
	Universe struct {
		Source string `yaml:"source"`
		Limit  int    `yaml:"limit"`
	} `yaml:"universe"`
	Ranking struct {
		TopN    int `yaml:"top_n"`
		Workers int `yaml:"workers"`
	} `yaml:"ranking"`
	Watchlist struct {
		Path    string `yaml:"path"`
		SaveTop bool   `yaml:"save_top"`
	} `yaml:"watchlist"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		RankCron   string `yaml:"rank_cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored and existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides
// and defaults. A missing file yields an all-default config.
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

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"COINGECKO_API_KEY":  &c.Provider.APIKey,
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"HTTPS_PROXY":        &c.Proxy,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"WATCHLIST_PATH":     &c.Watchlist.Path,
		"RANK_CRON":          &c.Schedule.RankCron,
		"LOG_LEVEL":          &c.Log.Level,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOP_N: %w", err)
		}
		c.Ranking.TopN = n
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RUN_ON_START: %w", err)
		}
		c.Schedule.RunOnStart = b
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Provider.Name == "" {
		c.Provider.Name = ProviderCoinGecko
	}
	if c.Provider.RatePerMinute == 0 {
		c.Provider.RatePerMinute = 30
	}
	if c.Provider.LookbackDays == 0 {
		c.Provider.LookbackDays = 180
	}
	if c.Provider.FetchTimeout == 0 {
		c.Provider.FetchTimeout = 30 * time.Second
	}
	if c.Universe.Source == "" {
		c.Universe.Source = SourceProvider
		if c.Provider.Name == ProviderYahoo {
			c.Universe.Source = SourceWatchlist
		}
	}
	if c.Ranking.TopN == 0 {
		c.Ranking.TopN = 5
	}
	if c.Ranking.Workers == 0 {
		c.Ranking.Workers = 1
	}
	if c.Watchlist.Path == "" {
		c.Watchlist.Path = "investment_worthy_crypto.csv"
	}
	if c.Schedule.RankCron == "" {
		c.Schedule.RankCron = "0 0 8 * * *"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/momentum_scout.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case ProviderCoinGecko, ProviderYahoo, ProviderMock:
	default:
		return fmt.Errorf("provider.name %q is not one of coingecko, yahoo, mock", c.Provider.Name)
	}
	switch c.Universe.Source {
	case SourceProvider, SourceWatchlist:
	default:
		return fmt.Errorf("universe.source %q is not one of provider, watchlist", c.Universe.Source)
	}
	if c.Provider.Name == ProviderYahoo && c.Universe.Source == SourceProvider {
		return fmt.Errorf("provider yahoo has no asset catalog, set universe.source to watchlist")
	}
	if c.Universe.Limit < 0 {
		return fmt.Errorf("universe.limit must not be negative")
	}
	if c.Provider.LookbackDays < 2 {
		return fmt.Errorf("provider.lookback_days must be at least 2")
	}
	if c.Provider.FetchTimeout < 0 {
		return fmt.Errorf("provider.fetch_timeout must not be negative")
	}
	if c.Ranking.TopN < 1 {
		return fmt.Errorf("ranking.top_n must be positive")
	}
	if c.Ranking.Workers < 1 {
		return fmt.Errorf("ranking.workers must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether Telegram reporting is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
