// Package config handles configuration loading for quantcore.
// It supports YAML config files with .env and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/seenimoa/quantcore/internal/curves"
)

// Config represents the complete application configuration.
type Config struct {
	Valuation ValuationConfig `mapstructure:"valuation" yaml:"valuation"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Cache     CacheConfig     `mapstructure:"cache"     yaml:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// ValuationConfig holds calculation engine settings.
type ValuationConfig struct {
	RiskFreeRate        float64 `mapstructure:"risk_free_rate"         yaml:"risk_free_rate"` // annual decimal, e.g. 0.04
	MaxPeriods          int     `mapstructure:"max_periods"            yaml:"max_periods"`
	CurveMaxPoints      int     `mapstructure:"curve_max_points"       yaml:"curve_max_points"`
	DefaultDaysInPeriod int     `mapstructure:"default_days_in_period" yaml:"default_days_in_period"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host              string   `mapstructure:"host"                yaml:"host"`
	Port              int      `mapstructure:"port"                yaml:"port"`
	CORSOrigins       []string `mapstructure:"cors_origins"        yaml:"cors_origins"`
	RateLimitRPS      float64  `mapstructure:"rate_limit_rps"      yaml:"rate_limit_rps"` // per client; 0 disables
	RateLimitBurst    int      `mapstructure:"rate_limit_burst"    yaml:"rate_limit_burst"`
	RequestTimeoutSec int      `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	TTL int `mapstructure:"ttl" yaml:"ttl"` // seconds; 0 disables
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Addr returns the host:port the API server listens on.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.quantcore/config.yaml (home directory)
//  3. /etc/quantcore/config.yaml (system)
//
// A .env file in the working directory is loaded first, if present.
// Environment variables override config file values.
// Format: QUANTCORE_<SECTION>_<KEY>, e.g., QUANTCORE_API_PORT
func Load() (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".quantcore"))
	v.AddConfigPath("/etc/quantcore")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("QUANTCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Valuation defaults
	v.SetDefault("valuation.risk_free_rate", 0.04)
	v.SetDefault("valuation.max_periods", 12000)
	v.SetDefault("valuation.curve_max_points", 2000)
	v.SetDefault("valuation.default_days_in_period", 182)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.rate_limit_rps", 20.0)
	v.SetDefault("api.rate_limit_burst", 40)
	v.SetDefault("api.request_timeout_sec", 30)

	// Cache defaults
	v.SetDefault("cache.ttl", 300) // 5 minutes

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate rejects settings the engine cannot honour.
func (c *Config) Validate() error {
	if c.Valuation.MaxPeriods <= 0 {
		return fmt.Errorf("valuation.max_periods must be positive, got %d", c.Valuation.MaxPeriods)
	}
	if c.Valuation.CurveMaxPoints <= 0 {
		return fmt.Errorf("valuation.curve_max_points must be positive, got %d", c.Valuation.CurveMaxPoints)
	}
	if c.Valuation.DefaultDaysInPeriod <= 0 || c.Valuation.DefaultDaysInPeriod > curves.MaxDaysInPeriod {
		return fmt.Errorf("valuation.default_days_in_period must be in 1..%d, got %d",
			curves.MaxDaysInPeriod, c.Valuation.DefaultDaysInPeriod)
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port out of range: %d", c.API.Port)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// loadDotEnv loads ./.env into the process environment without overriding
// variables that are already set.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
