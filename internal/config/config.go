// Package config loads boot-time settings: a YAML file, an optional .env
// file, and environment overrides, in that order of precedence (env wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// StoreConfig locates the analytical store.
type StoreConfig struct {
	Path         string        `yaml:"path"`
	ReadOnly     bool          `yaml:"read_only"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

// ServerConfig holds the HTTP settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	RequestDeadline time.Duration `yaml:"request_deadline"`
	RateLimitCap    int           `yaml:"rate_limit_cap"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// Config is the full settings object. All of it is injected at boot; the
// process keeps no other global state.
type Config struct {
	Store      StoreConfig  `yaml:"store"`
	Server     ServerConfig `yaml:"server"`
	Disclaimer string       `yaml:"disclaimer"`
}

// Default returns the settings the original service shipped with.
func Default() Config {
	return Config{
		Store: StoreConfig{
			ReadOnly:     true,
			QueryTimeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8000,
			RequestDeadline: 10 * time.Second,
			RateLimitCap:    60,
			RateLimitWindow: 60 * time.Second,
		},
		Disclaimer: "Dados publicos agregados. Indicadores apontam indicios, nao provas.",
	}
}

// Load reads the optional YAML file, applies .env and environment
// overrides, and validates.
func Load(path string) (Config, error) {
	// Missing .env is fine; environment may already be populated.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("HTTP_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("RATE_LIMIT_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitCap = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.RateLimitWindow = d
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}
	if v := os.Getenv("DISCLAIMER"); v != "" {
		cfg.Disclaimer = v
	}
}

// Validate rejects configurations the service must not run with.
func (c Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store path is required (store.path or STORE_PATH)")
	}
	if !c.Store.ReadOnly {
		return fmt.Errorf("store.read_only must be true; this service never writes")
	}
	if c.Server.RateLimitCap < 0 {
		return fmt.Errorf("rate_limit_cap must be >= 0")
	}
	if c.Server.RequestDeadline <= 0 {
		return fmt.Errorf("request_deadline must be positive")
	}
	for _, origin := range c.Server.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard CORS origin is not allowed")
		}
	}
	return nil
}
