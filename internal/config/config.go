// Package config loads gotchi-closet settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all gotchi-closet configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Cache    CacheConfig    `yaml:"cache"`
	Rank     RankConfig     `yaml:"rank"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CatalogConfig selects the wearable-set catalog.
type CatalogConfig struct {
	// Path to a .json, .json.gz or .json.zst catalog. Empty uses the embedded one.
	Path             string `yaml:"path"`
	RequireUniqueIDs bool   `yaml:"require_unique_ids"`
}

// UpstreamConfig points at the respec base-trait endpoint.
type UpstreamConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// CacheConfig selects the base-trait cache backend.
type CacheConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite, postgres
	Path   string `yaml:"path"`   // sqlite file
	DSN    string `yaml:"dsn"`    // postgres connection string
}

// RankConfig tunes the best-set ranker.
type RankConfig struct {
	DefaultLimit int `yaml:"default_limit"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			RequireUniqueIDs: true,
		},
		Upstream: UpstreamConfig{
			Timeout: "8s",
		},
		Cache: CacheConfig{
			Driver: "memory",
			Path:   "gotchi-closet.db",
		},
		Rank: RankConfig{
			DefaultLimit: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("GOTCHI_CATALOG_PATH"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("GOTCHI_REQUIRE_UNIQUE_IDS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GOTCHI_REQUIRE_UNIQUE_IDS: %w", err)
		}
		c.Catalog.RequireUniqueIDs = b
	}
	if v := os.Getenv("GOTCHI_UPSTREAM_URL"); v != "" {
		c.Upstream.URL = v
	}
	if v := os.Getenv("GOTCHI_UPSTREAM_TIMEOUT"); v != "" {
		c.Upstream.Timeout = v
	}
	if v := os.Getenv("GOTCHI_CACHE_DRIVER"); v != "" {
		c.Cache.Driver = v
	}
	if v := os.Getenv("GOTCHI_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("GOTCHI_CACHE_DSN"); v != "" {
		c.Cache.DSN = v
	}
	if v := os.Getenv("GOTCHI_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks values that would otherwise fail later at wiring time.
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case "memory":
	case "sqlite":
		if c.Cache.Path == "" {
			return fmt.Errorf("cache.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Cache.DSN == "" {
			return fmt.Errorf("cache.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("cache.driver %q: want memory, sqlite or postgres", c.Cache.Driver)
	}
	if _, err := c.UpstreamTimeout(); err != nil {
		return err
	}
	if c.Rank.DefaultLimit < 1 {
		return fmt.Errorf("rank.default_limit must be positive, got %d", c.Rank.DefaultLimit)
	}
	return nil
}

// UpstreamTimeout parses upstream.timeout.
func (c *Config) UpstreamTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Upstream.Timeout)
	if err != nil {
		return 0, fmt.Errorf("upstream.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("upstream.timeout must be positive, got %s", d)
	}
	return d, nil
}
