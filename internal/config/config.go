package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr          string `yaml:"addr"`
		RatePerMinute int    `yaml:"rate_per_minute"`
		RateBurst     int    `yaml:"rate_burst"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		RatePerSecond  int    `yaml:"rate_per_second"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Analysis struct {
		Workers     int `yaml:"workers"`
		RollingDays int `yaml:"rolling_days"`
		// Persistence is a pointer so an explicit 0 (trust only the
		// previous realized change) survives defaulting.
		Persistence  *float64 `yaml:"persistence"`
		MaxPortfolio int      `yaml:"max_portfolio"`
	} `yaml:"analysis"`
	Directory struct {
		SeedFile    string `yaml:"seed_file"`
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"directory"`
	Database struct {
		SQLitePath    string `yaml:"sqlite_path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
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
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_API_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("FUND_SEED_FILE"); v != "" {
		cfg.Directory.SeedFile = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ANALYSIS_WORKERS"); v != "" {
		var workers int
		if _, err := fmt.Sscanf(v, "%d", &workers); err == nil {
			cfg.Analysis.Workers = workers
		}
	}
	if v := os.Getenv("ANALYSIS_PERSISTENCE"); v != "" {
		var p float64
		if _, err := fmt.Sscanf(v, "%f", &p); err == nil {
			cfg.Analysis.Persistence = &p
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Server.RatePerMinute == 0 {
		cfg.Server.RatePerMinute = 60
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = 20
	}
	if cfg.DataSource.RatePerSecond == 0 {
		cfg.DataSource.RatePerSecond = 10
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = 5
	}
	if cfg.Analysis.RollingDays == 0 {
		cfg.Analysis.RollingDays = 90
	}
	if cfg.Analysis.Persistence == nil {
		p := 1.0
		cfg.Analysis.Persistence = &p
	}
	if cfg.Analysis.MaxPortfolio == 0 {
		cfg.Analysis.MaxPortfolio = 20
	}
	if cfg.Directory.RefreshCron == "" {
		cfg.Directory.RefreshCron = "0 0 * * * *"
	}
	if cfg.Database.RetentionDays == 0 {
		cfg.Database.RetentionDays = 180
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and in range.
func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("analysis.workers must be positive")
	}
	if p := c.Analysis.Persistence; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("analysis.persistence must be within [0,1]")
	}
	switch c.Analysis.RollingDays {
	case 30, 60, 90, 120, 250:
	default:
		return fmt.Errorf("analysis.rolling_days must be one of 30/60/90/120/250")
	}
	return nil
}
