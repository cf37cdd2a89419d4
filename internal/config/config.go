package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"StockTrader/internal/calculator"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Quote struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"quote"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		ReportCron  string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Policy struct {
		BuyStepPercentage float64 `yaml:"buy_step_percentage"`
		AnnualReturnRate  float64 `yaml:"annual_return_rate"`
	} `yaml:"policy"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("QUOTE_BASE_URL"); v != "" {
		cfg.Quote.BaseURL = v
	}
	if v := os.Getenv("QUOTE_API_KEY"); v != "" {
		cfg.Quote.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("CRON_REPORT"); v != "" {
		cfg.Schedule.ReportCron = v
	}
	if v := os.Getenv("BUY_STEP_PERCENTAGE"); v != "" {
		var step float64
		if _, err := fmt.Sscanf(v, "%f", &step); err == nil {
			cfg.Policy.BuyStepPercentage = step
		}
	}
	if v := os.Getenv("ANNUAL_RETURN_RATE"); v != "" {
		var rate float64
		if _, err := fmt.Sscanf(v, "%f", &rate); err == nil {
			cfg.Policy.AnnualReturnRate = rate
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Schedule.RefreshCron == "" {
		// Every 30 minutes during A-share trading hours.
		cfg.Schedule.RefreshCron = "0 */30 9-15 * * 1-5"
	}
	if cfg.Schedule.ReportCron == "" {
		// After the daily close.
		cfg.Schedule.ReportCron = "0 10 15 * * 1-5"
	}
	if cfg.Policy.BuyStepPercentage == 0 {
		cfg.Policy.BuyStepPercentage = 0.05
	}
	if cfg.Policy.AnnualReturnRate == 0 {
		cfg.Policy.AnnualReturnRate = 0.20
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stock_trader.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and the policy parameters
// are inside their domain ranges.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if ok, errs := calculator.ValidateParameters(c.Policy.BuyStepPercentage, c.Policy.AnnualReturnRate); !ok {
		return fmt.Errorf("policy validation: %s", strings.Join(errs, "; "))
	}
	return nil
}
