package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.Backend.TopK)
	}
	if cfg.TUI.ClearDelay != 300*time.Millisecond {
		t.Errorf("ClearDelay = %v, want 300ms", cfg.TUI.ClearDelay)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("backend:\n  base_url: http://file:5000\n  top_k: 3\nlogger:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LECTERN_BACKEND_URL", "http://env:5000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://env:5000" {
		t.Errorf("env override lost: %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TopK != 3 {
		t.Errorf("file value lost: TopK = %d", cfg.Backend.TopK)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logger.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"top_k too large", func(c *Config) { c.Backend.TopK = 11 }},
		{"top_k zero", func(c *Config) { c.Backend.TopK = 0 }},
		{"empty base_url", func(c *Config) { c.Backend.BaseURL = "" }},
		{"bad log level", func(c *Config) { c.Logger.Level = "loud" }},
		{"negative clear delay", func(c *Config) { c.TUI.ClearDelay = -time.Second }},
		{"rate limit zero", func(c *Config) {
			c.Gateway.RateLimit.Enabled = true
			c.Gateway.RateLimit.DailyLimit = 0
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
