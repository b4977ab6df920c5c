package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CryptoSymbol identifies one tracked cryptocurrency.
type CryptoSymbol struct {
	Symbol      string `yaml:"symbol"`
	Name        string `yaml:"name"`
	CoinGeckoID string `yaml:"coingecko_id"`
}

// StockSymbol identifies one tracked equity.
type StockSymbol struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}

// Config holds all application configuration.
type Config struct {
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	CoinGecko struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"coingecko"`
	AlphaVantage struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"alphavantage"`
	Collection struct {
		MaxRowsPerRun  int     `yaml:"max_rows_per_run"`
		HistoryDays    int     `yaml:"history_days"`
		CryptoDelaySec float64 `yaml:"crypto_delay_seconds"`
		StockDelaySec  float64 `yaml:"stock_delay_seconds"`
	} `yaml:"collection"`
	Analysis struct {
		MomentumWindow int `yaml:"momentum_window"`
		TopMovers      int `yaml:"top_movers"`
	} `yaml:"analysis"`
	Output struct {
		ResultsFile       string `yaml:"results_file"`
		VisualizationsDir string `yaml:"visualizations_dir"`
	} `yaml:"output"`
	Schedule struct {
		CryptoCron string `yaml:"crypto_cron"`
		StockCron  string `yaml:"stock_cron"`
		ReportCron string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Symbols struct {
		Crypto []CryptoSymbol `yaml:"crypto"`
		Stocks []StockSymbol  `yaml:"stocks"`
	} `yaml:"symbols"`
	Proxy string `yaml:"proxy"`
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
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		cfg.AlphaVantage.BaseURL = v
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.CoinGecko.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("MAX_ROWS_PER_RUN"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			cfg.Collection.MaxRowsPerRun = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/crypto_stock_analysis.db"
	}
	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.AlphaVantage.BaseURL == "" {
		cfg.AlphaVantage.BaseURL = "https://www.alphavantage.co/query"
	}
	if cfg.Collection.MaxRowsPerRun == 0 {
		cfg.Collection.MaxRowsPerRun = 25
	}
	if cfg.Collection.HistoryDays == 0 {
		cfg.Collection.HistoryDays = 180
	}
	if cfg.Collection.CryptoDelaySec == 0 {
		cfg.Collection.CryptoDelaySec = 1.5
	}
	if cfg.Collection.StockDelaySec == 0 {
		cfg.Collection.StockDelaySec = 12
	}
	if cfg.Analysis.MomentumWindow == 0 {
		cfg.Analysis.MomentumWindow = 7
	}
	if cfg.Analysis.TopMovers == 0 {
		cfg.Analysis.TopMovers = 5
	}
	if cfg.Output.ResultsFile == "" {
		cfg.Output.ResultsFile = "output/analysis_results.txt"
	}
	if cfg.Output.VisualizationsDir == "" {
		cfg.Output.VisualizationsDir = "output/visualizations"
	}
	if cfg.Schedule.CryptoCron == "" {
		cfg.Schedule.CryptoCron = "0 0 8 * * *"
	}
	if cfg.Schedule.StockCron == "" {
		cfg.Schedule.StockCron = "0 0 22 * * 1-5"
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 30 22 * * *"
	}
	if len(cfg.Symbols.Crypto) == 0 {
		cfg.Symbols.Crypto = []CryptoSymbol{
			{Symbol: "BTC", Name: "Bitcoin", CoinGeckoID: "bitcoin"},
			{Symbol: "ETH", Name: "Ethereum", CoinGeckoID: "ethereum"},
			{Symbol: "SOL", Name: "Solana", CoinGeckoID: "solana"},
		}
	}
	if len(cfg.Symbols.Stocks) == 0 {
		cfg.Symbols.Stocks = []StockSymbol{
			{Symbol: "NVDA", Name: "NVIDIA Corporation"},
			{Symbol: "AMD", Name: "Advanced Micro Devices"},
			{Symbol: "COIN", Name: "Coinbase Global Inc"},
		}
	}
	for i := range cfg.Symbols.Crypto {
		if cfg.Symbols.Crypto[i].Name == "" {
			cfg.Symbols.Crypto[i].Name = cfg.Symbols.Crypto[i].Symbol
		}
	}
	for i := range cfg.Symbols.Stocks {
		if cfg.Symbols.Stocks[i].Name == "" {
			cfg.Symbols.Stocks[i].Name = cfg.Symbols.Stocks[i].Symbol
		}
	}

	return cfg, nil
}

// CryptoDelay returns the pause between crypto symbols during collection.
func (c *Config) CryptoDelay() time.Duration {
	return time.Duration(c.Collection.CryptoDelaySec * float64(time.Second))
}

// StockDelay returns the pause between stock symbols during collection.
func (c *Config) StockDelay() time.Duration {
	return time.Duration(c.Collection.StockDelaySec * float64(time.Second))
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.CoinGecko.BaseURL == "" {
		return fmt.Errorf("coingecko.base_url is required")
	}
	if c.AlphaVantage.BaseURL == "" {
		return fmt.Errorf("alphavantage.base_url is required")
	}
	if c.Collection.MaxRowsPerRun < 1 {
		return fmt.Errorf("collection.max_rows_per_run must be positive")
	}
	if c.Collection.HistoryDays < 1 {
		return fmt.Errorf("collection.history_days must be positive")
	}
	if c.Analysis.MomentumWindow < 1 {
		return fmt.Errorf("analysis.momentum_window must be positive")
	}
	if c.Analysis.TopMovers < 1 {
		return fmt.Errorf("analysis.top_movers must be positive")
	}
	for _, s := range c.Symbols.Crypto {
		if s.Symbol == "" || s.CoinGeckoID == "" {
			return fmt.Errorf("symbols.crypto entries need symbol and coingecko_id")
		}
	}
	for _, s := range c.Symbols.Stocks {
		if s.Symbol == "" {
			return fmt.Errorf("symbols.stocks entries need symbol")
		}
	}
	return nil
}
