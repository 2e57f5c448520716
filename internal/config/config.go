package config

import (
	"fmt"
	"os"
	"strconv"

	"AvalancheForecaster/internal/money"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Forecast struct {
		DataFile        string `yaml:"data_file"`
		HorizonDays     int    `yaml:"horizon_days"`
		LookaheadDays   int    `yaml:"lookahead_days"`
		StartingBalance string `yaml:"starting_balance"`
	} `yaml:"forecast"`
	Schedule struct {
		DailyCron   string `yaml:"daily_cron"`
		MonthlyCron string `yaml:"monthly_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
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

	if err := loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := []struct {
		key string
		dst *string
	}{
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &c.Telegram.ChatID},
		{"DATA_FILE", &c.Forecast.DataFile},
		{"STARTING_BALANCE", &c.Forecast.StartingBalance},
		{"CRON_DAILY", &c.Schedule.DailyCron},
		{"CRON_MONTHLY", &c.Schedule.MonthlyCron},
		{"SQLITE_PATH", &c.Database.SQLitePath},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FORMAT", &c.Log.Format},
		{"HTTPS_PROXY", &c.Proxy},
	}
	for _, s := range strs {
		if v := os.Getenv(s.key); v != "" {
			*s.dst = v
		}
	}
	if v := os.Getenv("HORIZON_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HORIZON_DAYS: %w", err)
		}
		c.Forecast.HorizonDays = days
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Forecast.DataFile == "" {
		c.Forecast.DataFile = "financial_data.json"
	}
	if c.Forecast.HorizonDays == 0 {
		c.Forecast.HorizonDays = 60
	}
	if c.Forecast.LookaheadDays == 0 {
		c.Forecast.LookaheadDays = 60
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 0 8 * * *"
	}
	if c.Schedule.MonthlyCron == "" {
		c.Schedule.MonthlyCron = "0 0 9 1 * *"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/forecaster.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// StartingBalance returns the configured balance override, if any.
func (c *Config) StartingBalance() (decimal.NullDecimal, error) {
	if c.Forecast.StartingBalance == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := money.Parse(c.Forecast.StartingBalance)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("forecast.starting_balance: %w", err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// Validate checks the settings every mode needs.
func (c *Config) Validate() error {
	if c.Forecast.HorizonDays < 0 {
		return fmt.Errorf("forecast.horizon_days must not be negative")
	}
	if c.Forecast.LookaheadDays < 0 {
		return fmt.Errorf("forecast.lookahead_days must not be negative")
	}
	if _, err := c.StartingBalance(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json")
	}
	return nil
}

// ValidateDaemon additionally checks what the scheduled bot needs.
func (c *Config) ValidateDaemon() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for name, spec := range map[string]string{
		"schedule.daily_cron":   c.Schedule.DailyCron,
		"schedule.monthly_cron": c.Schedule.MonthlyCron,
	} {
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// NewLogger builds the process logger from the log settings.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
