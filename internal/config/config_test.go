package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Valuation defaults
	if cfg.Valuation.RiskFreeRate != 0.04 {
		t.Errorf("Valuation.RiskFreeRate: got %f, want 0.04", cfg.Valuation.RiskFreeRate)
	}
	if cfg.Valuation.MaxPeriods != 12000 {
		t.Errorf("Valuation.MaxPeriods: got %d, want 12000", cfg.Valuation.MaxPeriods)
	}
	if cfg.Valuation.CurveMaxPoints != 2000 {
		t.Errorf("Valuation.CurveMaxPoints: got %d, want 2000", cfg.Valuation.CurveMaxPoints)
	}
	if cfg.Valuation.DefaultDaysInPeriod != 182 {
		t.Errorf("Valuation.DefaultDaysInPeriod: got %d, want 182", cfg.Valuation.DefaultDaysInPeriod)
	}

	// API defaults
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if cfg.API.RateLimitRPS != 20 {
		t.Errorf("API.RateLimitRPS: got %f, want 20", cfg.API.RateLimitRPS)
	}
	if cfg.API.RateLimitBurst != 40 {
		t.Errorf("API.RateLimitBurst: got %d, want 40", cfg.API.RateLimitBurst)
	}
	if cfg.API.RequestTimeoutSec != 30 {
		t.Errorf("API.RequestTimeoutSec: got %d, want 30", cfg.API.RequestTimeoutSec)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("API.CORSOrigins: got %v", cfg.API.CORSOrigins)
	}

	// Cache defaults
	if cfg.Cache.TTL != 300 {
		t.Errorf("Cache.TTL: got %d, want 300", cfg.Cache.TTL)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
valuation:
  risk_free_rate: 0.065
  max_periods: 600
api:
  port: 9090
  rate_limit_rps: 5
cache:
  ttl: 0
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Valuation.RiskFreeRate != 0.065 {
		t.Errorf("Valuation.RiskFreeRate: got %f, want 0.065", cfg.Valuation.RiskFreeRate)
	}
	if cfg.Valuation.MaxPeriods != 600 {
		t.Errorf("Valuation.MaxPeriods: got %d, want 600", cfg.Valuation.MaxPeriods)
	}
	if cfg.Valuation.CurveMaxPoints != 2000 {
		t.Errorf("Valuation.CurveMaxPoints should keep default, got %d", cfg.Valuation.CurveMaxPoints)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if cfg.API.RateLimitRPS != 5 {
		t.Errorf("API.RateLimitRPS: got %f, want 5", cfg.API.RateLimitRPS)
	}
	if cfg.Cache.TTL != 0 {
		t.Errorf("Cache.TTL: got %d, want 0", cfg.Cache.TTL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(cfgPath, []byte("valuation:\n  max_periods: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(cfgPath); err == nil {
		t.Error("expected error for max_periods: 0")
	}
}

// ── Environment overrides ──

func TestEnvOverridesFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(cfgPath, []byte("api:\n  port: 9090\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUANTCORE_API_PORT", "7070")
	t.Setenv("QUANTCORE_VALUATION_RISK_FREE_RATE", "0.05")

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.API.Port != 7070 {
		t.Errorf("API.Port: got %d, want 7070", cfg.API.Port)
	}
	if cfg.Valuation.RiskFreeRate != 0.05 {
		t.Errorf("Valuation.RiskFreeRate: got %f, want 0.05", cfg.Valuation.RiskFreeRate)
	}
}

// ── Validate ──

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Valuation: ValuationConfig{MaxPeriods: 10, CurveMaxPoints: 10, DefaultDaysInPeriod: 182},
			API:       APIConfig{Port: 8080},
			Logging:   LoggingConfig{Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero periods", func(c *Config) { c.Valuation.MaxPeriods = 0 }, true},
		{"zero curve points", func(c *Config) { c.Valuation.CurveMaxPoints = 0 }, true},
		{"zero days", func(c *Config) { c.Valuation.DefaultDaysInPeriod = 0 }, true},
		{"days beyond a year", func(c *Config) { c.Valuation.DefaultDaysInPeriod = 367 }, true},
		{"bad port", func(c *Config) { c.API.Port = 70000 }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	c := APIConfig{Host: "127.0.0.1", Port: 8181}
	if got := c.Addr(); got != "127.0.0.1:8181" {
		t.Errorf("Addr(): got %q", got)
	}
}

// ── Settings ──

func TestSettingsReportsEnvSource(t *testing.T) {
	t.Setenv("QUANTCORE_API_PORT", "7070")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	found := false
	for _, s := range Settings(cfg) {
		switch s.Key {
		case "api.port":
			found = true
			if s.Source != SourceEnv || s.Value != "7070" {
				t.Errorf("api.port: got %+v, want env 7070", s)
			}
		case "valuation.max_periods":
			if s.Source != SourceConfig || s.Value != "12000" {
				t.Errorf("valuation.max_periods: got %+v", s)
			}
		}
	}
	if !found {
		t.Error("api.port missing from Settings")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("valuation.risk_free_rate"); got != "QUANTCORE_VALUATION_RISK_FREE_RATE" {
		t.Errorf("EnvVar: got %q", got)
	}
}
