package config

import (
	"fmt"
	"os"
	"strings"
)

// SettingSource represents where a setting's value comes from.
type SettingSource string

const (
	SourceEnv    SettingSource = "env"
	SourceConfig SettingSource = "config" // config file or built-in default
)

// SettingStatus describes one effective setting.
type SettingStatus struct {
	Key    string        `json:"key"`
	EnvVar string        `json:"env_var"`
	Value  string        `json:"value"`
	Source SettingSource `json:"source"`
}

// Settings returns the effective value and origin of the settings that most
// affect calculations and serving.
func Settings(cfg *Config) []SettingStatus {
	return []SettingStatus{
		checkSetting("valuation.risk_free_rate", cfg.Valuation.RiskFreeRate),
		checkSetting("valuation.max_periods", cfg.Valuation.MaxPeriods),
		checkSetting("valuation.curve_max_points", cfg.Valuation.CurveMaxPoints),
		checkSetting("valuation.default_days_in_period", cfg.Valuation.DefaultDaysInPeriod),
		checkSetting("api.host", cfg.API.Host),
		checkSetting("api.port", cfg.API.Port),
		checkSetting("api.rate_limit_rps", cfg.API.RateLimitRPS),
		checkSetting("cache.ttl", cfg.Cache.TTL),
		checkSetting("logging.level", cfg.Logging.Level),
	}
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return "QUANTCORE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// checkSetting reports a setting's value and whether it came from the env.
func checkSetting(key string, value any) SettingStatus {
	status := SettingStatus{
		Key:    key,
		EnvVar: EnvVar(key),
		Value:  fmt.Sprint(value),
		Source: SourceConfig,
	}
	if os.Getenv(status.EnvVar) != "" {
		status.Source = SourceEnv
	}
	return status
}
