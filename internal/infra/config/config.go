// Package config loads and validates the lectern configuration from a YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lectern/internal/domain"
)

// Config is the root configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Gateway GatewayConfig `yaml:"gateway"`
	TUI     TUIConfig     `yaml:"tui"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// BackendConfig configures the HTTP client for the retrieval backend.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	TopK    int           `yaml:"top_k"`
	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig configures the circuit breaker around backend calls.
type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// GatewayConfig configures the validating proxy server.
type GatewayConfig struct {
	Addr       string          `yaml:"addr"`
	Upstream   string          `yaml:"upstream"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
	CORSOrigin string          `yaml:"cors_origin"`
}

// RateLimitConfig configures per-IP query rate limiting on the gateway.
// DailyLimit is surfaced to clients in the 429 body's "limit" field.
type RateLimitConfig struct {
	Enabled    bool `yaml:"enabled"`
	DailyLimit int  `yaml:"daily_limit"`
	Burst      int  `yaml:"burst"`
}

// TUIConfig configures the chat interface.
type TUIConfig struct {
	ViewerWidth   int           `yaml:"viewer_width"`   // fixed viewer width for chat-origin layout
	PanelWidth    int           `yaml:"panel_width"`    // source panel width
	ClearDelay    time.Duration `yaml:"clear_delay"`    // selection clear delay after viewer close
	DownloadDir   string        `yaml:"download_dir"`   // where /save writes lecture PDFs
	MaxTranscript int           `yaml:"max_transcript"` // message list ring buffer cap
}

// LoggerConfig controls log output.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig controls OpenTelemetry tracing.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Default returns the built-in defaults, used when no config file exists.
func Default() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 60 * time.Second,
			TopK:    domain.DefaultTopK,
			Breaker: BreakerConfig{
				MaxFailures: 5,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
		},
		Gateway: GatewayConfig{
			Addr:     ":8080",
			Upstream: "http://localhost:5000",
			RateLimit: RateLimitConfig{
				Enabled:    false,
				DailyLimit: 5,
				Burst:      1,
			},
			CORSOrigin: "http://localhost:3000",
		},
		TUI: TUIConfig{
			ViewerWidth:   72,
			PanelWidth:    44,
			ClearDelay:    300 * time.Millisecond,
			DownloadDir:   "./downloads",
			MaxTranscript: 1000,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "stdout",
		},
	}
}

// Load reads the config file at path (optional), applies env overrides,
// and validates the result. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays LECTERN_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LECTERN_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("LECTERN_GATEWAY_ADDR"); v != "" {
		cfg.Gateway.Addr = v
	}
	if v := os.Getenv("LECTERN_GATEWAY_UPSTREAM"); v != "" {
		cfg.Gateway.Upstream = v
	}
	if v := os.Getenv("LECTERN_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("LECTERN_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backend.TopK = n
		}
	}
	if v := os.Getenv("LECTERN_RATE_LIMIT_ENABLED"); v != "" {
		cfg.Gateway.RateLimit.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("LECTERN_DAILY_QUERY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.RateLimit.DailyLimit = n
		}
	}
	if v := os.Getenv("LECTERN_TRACE"); v != "" {
		cfg.Tracer.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
}

// Validate checks cross-field constraints and contract bounds.
func (c Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url must be set")
	}
	if c.Backend.TopK < domain.MinTopK || c.Backend.TopK > domain.MaxTopK {
		return fmt.Errorf("backend.top_k must be in [%d, %d], got %d",
			domain.MinTopK, domain.MaxTopK, c.Backend.TopK)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if c.Gateway.Upstream == "" {
		return fmt.Errorf("gateway.upstream must be set")
	}
	if c.Gateway.RateLimit.Enabled && c.Gateway.RateLimit.DailyLimit < 1 {
		return fmt.Errorf("gateway.rate_limit.daily_limit must be >= 1 when enabled")
	}
	if c.TUI.ClearDelay < 0 {
		return fmt.Errorf("tui.clear_delay must not be negative")
	}
	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logger.level %q is not one of debug/info/warn/error", c.Logger.Level)
	}
	return nil
}
