package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Tickers        []string `yaml:"tickers"`
	RefreshSeconds int      `yaml:"refresh_seconds"`
	Market         struct {
		Timezone string `yaml:"timezone"`
		Open     string `yaml:"open"`
		Close    string `yaml:"close"`
	} `yaml:"market"`
	Quote struct {
		Provider string `yaml:"provider"` // finnhub, yahoo, or alpaca
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
		Alpaca   struct {
			APIKey    string `yaml:"api_key"`
			APISecret string `yaml:"api_secret"`
			DataURL   string `yaml:"data_url"`
		} `yaml:"alpaca"`
	} `yaml:"quote"`
	Storage struct {
		DataRoot        string `yaml:"data_root"`
		SQLitePath      string `yaml:"sqlite_path"`
		RetentionDays   int    `yaml:"retention_days"`
		MaintenanceCron string `yaml:"maintenance_cron"`
	} `yaml:"storage"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine; env and defaults carry it.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Set before parsing so an explicit retention_days: 0 survives and
	// disables pruning; zero and unset would be indistinguishable afterwards.
	cfg.Storage.RetentionDays = 90

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
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Tickers = splitTickers(v)
	}
	if v := os.Getenv("REFRESH_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RefreshSeconds = n
		}
	}
	if v := os.Getenv("QUOTE_PROVIDER"); v != "" {
		cfg.Quote.Provider = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Quote.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Quote.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Quote.Alpaca.APISecret = v
	}
	if v := os.Getenv("DATA_ROOT"); v != "" {
		cfg.Storage.DataRoot = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = []string{"SPY", "DIA", "QQQ"}
	}
	if cfg.RefreshSeconds == 0 {
		cfg.RefreshSeconds = 300
	}
	if cfg.Market.Timezone == "" {
		cfg.Market.Timezone = "America/Chicago"
	}
	if cfg.Market.Open == "" {
		cfg.Market.Open = "08:30"
	}
	if cfg.Market.Close == "" {
		cfg.Market.Close = "15:00"
	}
	if cfg.Quote.Provider == "" {
		cfg.Quote.Provider = "finnhub"
	}
	if cfg.Storage.DataRoot == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.Storage.DataRoot = filepath.Join(home, "market", "data")
	}
	if cfg.Storage.MaintenanceCron == "" {
		cfg.Storage.MaintenanceCron = "0 30 2 * * *"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8790"
	}

	return cfg, nil
}

func splitTickers(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, strings.ToUpper(t))
		}
	}
	return out
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("tickers must not be empty")
	}
	if c.RefreshSeconds <= 0 {
		return fmt.Errorf("refresh_seconds must be positive")
	}
	switch c.Quote.Provider {
	case "finnhub":
		if c.Quote.APIKey == "" {
			return fmt.Errorf("quote.api_key (or FINNHUB_API_KEY) is required for the finnhub provider")
		}
	case "yahoo":
		// keyless
	case "alpaca":
		if c.Quote.Alpaca.APIKey == "" || c.Quote.Alpaca.APISecret == "" {
			return fmt.Errorf("quote.alpaca credentials are required for the alpaca provider")
		}
	default:
		return fmt.Errorf("unknown quote provider %q", c.Quote.Provider)
	}
	if c.Storage.RetentionDays < 0 {
		return fmt.Errorf("storage.retention_days must not be negative")
	}
	return nil
}
