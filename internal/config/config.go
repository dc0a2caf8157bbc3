package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses YAML strings like "5m" or "1h" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard-library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Sources struct {
		CoinGecko struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"coingecko"`
		Binance struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"binance"`
		CoinGlass struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"coinglass"`
		AlphaVantage struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"alphavantage"`
		Timeout Duration `yaml:"timeout"`
	} `yaml:"sources"`
	Cache struct {
		PriceTTL   Duration `yaml:"price_ttl"`
		QuoteTTL   Duration `yaml:"quote_ttl"`
		FundingTTL Duration `yaml:"funding_ttl"`
		FlowTTL    Duration `yaml:"flow_ttl"`
		IndexTTL   Duration `yaml:"index_ttl"`
	} `yaml:"cache"`
	Indicators struct {
		MAWindows  []int  `yaml:"ma_windows"`
		RSIPeriods []int  `yaml:"rsi_periods"`
		RSIMode    string `yaml:"rsi_mode"`
	} `yaml:"indicators"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	// SyntheticSeed fixes the fallback generator for reproducible demo
	// output; zero seeds from the wall clock.
	SyntheticSeed int64  `yaml:"synthetic_seed"`
	Proxy         string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		cfg.Sources.CoinGecko.APIKey = v
	}
	if v := os.Getenv("COINGLASS_API_KEY"); v != "" {
		cfg.Sources.CoinGlass.APIKey = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.Sources.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Sources.Timeout == 0 {
		cfg.Sources.Timeout = Duration(10 * time.Second)
	}
	if cfg.Cache.PriceTTL == 0 {
		cfg.Cache.PriceTTL = Duration(time.Hour)
	}
	if cfg.Cache.QuoteTTL == 0 {
		cfg.Cache.QuoteTTL = Duration(5 * time.Minute)
	}
	if cfg.Cache.FundingTTL == 0 {
		cfg.Cache.FundingTTL = Duration(10 * time.Minute)
	}
	if cfg.Cache.FlowTTL == 0 {
		cfg.Cache.FlowTTL = Duration(time.Hour)
	}
	if cfg.Cache.IndexTTL == 0 {
		cfg.Cache.IndexTTL = Duration(time.Hour)
	}
	if len(cfg.Indicators.MAWindows) == 0 {
		cfg.Indicators.MAWindows = []int{20, 50, 100, 200}
	}
	if len(cfg.Indicators.RSIPeriods) == 0 {
		cfg.Indicators.RSIPeriods = []int{7, 14, 30}
	}
	if cfg.Indicators.RSIMode == "" {
		cfg.Indicators.RSIMode = "simple"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */5 * * * *"
	}

	return cfg, nil
}

// Validate checks field sanity. API keys are optional: a missing key just
// means that source degrades to cached or synthetic data.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Sources.Timeout <= 0 {
		return fmt.Errorf("sources.timeout must be positive")
	}
	for _, w := range c.Indicators.MAWindows {
		if w <= 0 {
			return fmt.Errorf("indicators.ma_windows must all be positive, got %d", w)
		}
	}
	for _, p := range c.Indicators.RSIPeriods {
		if p <= 0 {
			return fmt.Errorf("indicators.rsi_periods must all be positive, got %d", p)
		}
	}
	switch c.Indicators.RSIMode {
	case "simple", "wilder":
	default:
		return fmt.Errorf("indicators.rsi_mode must be simple or wilder, got %q", c.Indicators.RSIMode)
	}
	return nil
}
