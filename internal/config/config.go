// Package config loads the ShopLens runtime configuration from a YAML file
// and SHOPLENS_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	FetchLog  FetchLogConfig  `mapstructure:"fetch_log"`
	LogLevel  string          `mapstructure:"log_level"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// FetchConfig holds the per-crawl fetcher settings.
type FetchConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRedirects      int           `mapstructure:"max_redirects"`
	UserAgent         string        `mapstructure:"user_agent"`
	Fingerprint       string        `mapstructure:"fingerprint"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Jitter            float64       `mapstructure:"jitter"`
	RespectRobots     bool          `mapstructure:"respect_robots"`
}

// DiscoveryConfig holds competitor-discovery settings.
type DiscoveryConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	MaxParallel  int  `mapstructure:"max_parallel"`
	DefaultLimit int  `mapstructure:"default_limit"`
}

// FetchLogConfig selects the fetch audit-log backend.
type FetchLogConfig struct {
	// Backend is one of "none", "sqlite", "postgres", "json", "csv".
	Backend string `mapstructure:"backend"`
	// DSN is the connection string (postgres) or file path (sqlite/json/csv).
	DSN string `mapstructure:"dsn"`
}

// Load reads configuration from ./config.yaml (optional) and the
// environment, with sensible defaults for every key.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/shoplens/")

	v.SetEnvPrefix("SHOPLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("fetch.timeout", "20s")
	v.SetDefault("fetch.max_redirects", 10)
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.fingerprint", "go")
	v.SetDefault("fetch.requests_per_second", 4.0)
	v.SetDefault("fetch.jitter", 0.2)
	v.SetDefault("fetch.respect_robots", false)

	v.SetDefault("discovery.enabled", true)
	v.SetDefault("discovery.max_parallel", 3)
	v.SetDefault("discovery.default_limit", 3)

	v.SetDefault("fetch_log.backend", "none")
	v.SetDefault("fetch_log.dsn", "")

	v.SetDefault("log_level", "info")
}

func validate(cfg *Config) error {
	switch cfg.FetchLog.Backend {
	case "none", "sqlite", "postgres", "json", "csv":
	default:
		return fmt.Errorf("unknown fetch_log backend %q", cfg.FetchLog.Backend)
	}
	if cfg.FetchLog.Backend != "none" && cfg.FetchLog.DSN == "" {
		return fmt.Errorf("fetch_log backend %q requires a dsn", cfg.FetchLog.Backend)
	}
	if cfg.Discovery.MaxParallel < 1 {
		return fmt.Errorf("discovery max_parallel must be at least 1, got %d", cfg.Discovery.MaxParallel)
	}
	if cfg.Discovery.DefaultLimit < 1 || cfg.Discovery.DefaultLimit > 5 {
		return fmt.Errorf("discovery default_limit must be in [1,5], got %d", cfg.Discovery.DefaultLimit)
	}
	return nil
}
