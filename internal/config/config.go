package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`
	// sentry
	SentryEnabled bool `toml:"sentry_enabled"`
	// prometheus metrics server
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// habit tracking
	Timezone            string `toml:"timezone"`
	SpreadsheetID       string `toml:"spreadsheet_id"`
	DailyLogSheet       string `toml:"daily_log_sheet"`
	MealsLogSheet       string `toml:"meals_log_sheet"`
	ConfigSheet         string `toml:"config_sheet"`
	WeeklySummarySheet  string `toml:"weekly_summary_sheet"`
	MonthlySummarySheet string `toml:"monthly_summary_sheet"`
	DashboardSheet      string `toml:"dashboard_sheet"`
	RemindersEnabled    bool   `toml:"reminders_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	tomlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var configs Toml
	if err := toml.Unmarshal(tomlBytes, &configs); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	cfg, err := configs.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env %s not found in %s", env, path)
	}

	cfg.Environment = env
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = "America/Sao_Paulo"
	}
	if c.DailyLogSheet == "" {
		c.DailyLogSheet = "Daily_Log"
	}
	if c.MealsLogSheet == "" {
		c.MealsLogSheet = "Meals_Log"
	}
	if c.ConfigSheet == "" {
		c.ConfigSheet = "Config"
	}
	if c.WeeklySummarySheet == "" {
		c.WeeklySummarySheet = "Weekly_Summary"
	}
	if c.MonthlySummarySheet == "" {
		c.MonthlySummarySheet = "Monthly_Summary"
	}
	if c.DashboardSheet == "" {
		c.DashboardSheet = "Dashboard"
	}
}
