package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"marketterminal/internal/ratelimit"
)

type Server struct {
	Port string `yaml:"port"`
}

type AlphaVantage struct {
	APIKey            string `yaml:"api_key"`
	BaseURL           string `yaml:"base_url"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	NewsLimit         int    `yaml:"news_limit"`
}

type Pacing struct {
	Mode            ratelimit.Mode `yaml:"mode"`
	StageDelaySec   int            `yaml:"stage_delay_sec"`
	AllowFastPacing bool           `yaml:"allow_fast_pacing"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Config struct {
	Server       Server       `yaml:"server"`
	AlphaVantage AlphaVantage `yaml:"alphavantage"`
	Pacing       Pacing       `yaml:"pacing"`
	Log          Log          `yaml:"log"`
}

// ErrMissingAPIKey is returned by Validate when no key is configured.
var ErrMissingAPIKey = errors.New("config: alphavantage api key is not set (ALPHAVANTAGE_API_KEY)")

func Default() Config {
	return Config{
		Server: Server{Port: "8080"},
		AlphaVantage: AlphaVantage{
			BaseURL:           "https://www.alphavantage.co/query",
			RequestTimeoutSec: 15,
			NewsLimit:         20,
		},
		Pacing: Pacing{
			Mode:          ratelimit.ModeFixed,
			StageDelaySec: 13,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads YAML config from path. If path is empty it tries config.yaml in
// the working directory; a missing file leaves the defaults. Environment
// variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// Validate rejects configs that cannot work against the live API. Delays
// under 13s trip the free-tier quota and need AllowFastPacing.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AlphaVantage.APIKey) == "" {
		return ErrMissingAPIKey
	}
	switch c.Pacing.Mode {
	case ratelimit.ModeFixed, ratelimit.ModeAdaptive:
	default:
		return fmt.Errorf("config: unknown pacing mode %q", c.Pacing.Mode)
	}
	if c.StageDelay() < ratelimit.DefaultInterval && !c.Pacing.AllowFastPacing {
		return fmt.Errorf("config: stage delay %s is below %s; set ALLOW_FAST_PACING=true to override",
			c.StageDelay(), ratelimit.DefaultInterval)
	}
	if c.AlphaVantage.RequestTimeoutSec <= 0 {
		return fmt.Errorf("config: request timeout must be positive")
	}
	return nil
}

func (c Config) StageDelay() time.Duration {
	return time.Duration(c.Pacing.StageDelaySec) * time.Second
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.AlphaVantage.RequestTimeoutSec) * time.Second
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		cfg.AlphaVantage.BaseURL = v
	}
	if x, ok := envInt("REQUEST_TIMEOUT_SEC"); ok && x > 0 {
		cfg.AlphaVantage.RequestTimeoutSec = x
	}
	if x, ok := envInt("NEWS_LIMIT"); ok && x > 0 {
		cfg.AlphaVantage.NewsLimit = x
	}
	if x, ok := envInt("STAGE_DELAY_SEC"); ok && x >= 0 {
		cfg.Pacing.StageDelaySec = x
	}
	if v := os.Getenv("PACING_MODE"); v != "" {
		cfg.Pacing.Mode = ratelimit.Mode(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv("ALLOW_FAST_PACING"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y":
			cfg.Pacing.AllowFastPacing = true
		case "0", "false", "no", "n":
			cfg.Pacing.AllowFastPacing = false
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	var x int
	if _, err := fmt.Sscanf(v, "%d", &x); err != nil {
		return 0, false
	}
	return x, true
}
