package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"MarketMonitor/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider       string `yaml:"provider"` // yahoo, rest or mock
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		ExchangeSuffix string `yaml:"exchange_suffix"`
		Range          string `yaml:"range"`
		Interval       string `yaml:"interval"`
		Timezone       string `yaml:"timezone"`
	} `yaml:"data_source"`
	Watchlist []string `yaml:"watchlist"`
	Schedule  struct {
		PollCron       string `yaml:"poll_cron"`
		MaxConcurrency int    `yaml:"max_concurrency"`
	} `yaml:"schedule"`
	Sector struct {
		FallbackIndex string            `yaml:"fallback_index"`
		Overrides     map[string]string `yaml:"overrides"`
	} `yaml:"sector"`
	Market struct {
		Indices []model.IndexRef `yaml:"indices"`
	} `yaml:"market"`
	News struct {
		Enabled     bool   `yaml:"enabled"`
		BaseURL     string `yaml:"base_url"`
		Limit       int    `yaml:"limit"`
		HL          string `yaml:"hl"`
		GL          string `yaml:"gl"`
		CEID        string `yaml:"ceid"`
		MarketQuery string `yaml:"market_query"`
	} `yaml:"news"`
	HTTP struct {
		Timeout   time.Duration `yaml:"timeout"`
		RateLimit float64       `yaml:"rate_limit"`
		Burst     int           `yaml:"burst"`
	} `yaml:"http"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Chart struct {
		UTCOffsetSeconds int `yaml:"utc_offset_seconds"`
	} `yaml:"chart"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// DefaultPath is used when neither a flag nor CONFIG_PATH names a file.
const DefaultPath = "configs/config.yaml"

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Defaults where zero is a meaningful value are set before decoding.
	cfg.News.Enabled = true
	cfg.Log.Pretty = true
	cfg.Server.Addr = ":8080"
	cfg.HTTP.RateLimit = 5
	cfg.HTTP.Burst = 5
	cfg.Chart.UTCOffsetSeconds = 19800

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
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("MARKET_DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("MARKET_DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("POLL_CRON"); v != "" {
		cfg.Schedule.PollCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = splitList(v)
	}
	if v, ok := os.LookupEnv("SERVER_ADDR"); ok {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.ExchangeSuffix == "" {
		cfg.DataSource.ExchangeSuffix = ".NS"
	}
	if cfg.DataSource.Range == "" {
		cfg.DataSource.Range = "5d"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "1m"
	}
	if cfg.DataSource.Timezone == "" {
		cfg.DataSource.Timezone = "Asia/Kolkata"
	}
	if len(cfg.Watchlist) == 0 {
		cfg.Watchlist = []string{"RELIANCE", "TCS", "INFY", "BSE", "CDSL", "TMCV"}
	}
	if cfg.Schedule.PollCron == "" {
		cfg.Schedule.PollCron = "*/10 * * * * *"
	}
	if cfg.Schedule.MaxConcurrency == 0 {
		cfg.Schedule.MaxConcurrency = 4
	}
	if cfg.Sector.FallbackIndex == "" {
		cfg.Sector.FallbackIndex = "^NSEI"
	}
	if len(cfg.Market.Indices) == 0 {
		cfg.Market.Indices = []model.IndexRef{
			{Name: "NIFTY 50", Symbol: "^NSEI"},
			{Name: "NIFTY BANK", Symbol: "^NSEBANK"},
		}
	}
	if cfg.News.BaseURL == "" {
		cfg.News.BaseURL = "https://news.google.com/rss/search"
	}
	if cfg.News.Limit == 0 {
		cfg.News.Limit = 6
	}
	if cfg.News.HL == "" {
		cfg.News.HL = "en-IN"
	}
	if cfg.News.GL == "" {
		cfg.News.GL = "IN"
	}
	if cfg.News.CEID == "" {
		cfg.News.CEID = "IN:en"
	}
	if cfg.News.MarketQuery == "" {
		cfg.News.MarketQuery = "Indian Stock Market"
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 8 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	for i, s := range cfg.Watchlist {
		cfg.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Schedule.MaxConcurrency < 0 {
		return fmt.Errorf("schedule.max_concurrency must not be negative")
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.Burst < 0 {
		return fmt.Errorf("http.rate_limit and http.burst must not be negative")
	}
	for _, idx := range c.Market.Indices {
		if idx.Symbol == "" {
			return fmt.Errorf("market.indices: %q has no symbol", idx.Name)
		}
	}
	return nil
}

// TelegramEnabled reports whether Telegram credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Location returns the exchange timezone, or UTC when it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DataSource.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ChartOffset returns the chart display offset.
func (c *Config) ChartOffset() time.Duration {
	return time.Duration(c.Chart.UTCOffsetSeconds) * time.Second
}
