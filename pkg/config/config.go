package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config is the full service configuration.
type Config struct {
	Service  ServiceConfig  `koanf:"service"`
	Database DatabaseConfig `koanf:"database"`
	Logger   LoggerConfig   `koanf:"logger"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Scan     ScanConfig     `koanf:"scan"`
}

// ServiceConfig contains service-level metadata.
type ServiceConfig struct {
	Name        string `koanf:"name"`
	Environment string `koanf:"environment"` // dev, staging, production
	Port        int    `koanf:"port"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Database        string        `koanf:"database"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxConnections  int           `koanf:"max_connections"`
	MinConnections  int           `koanf:"min_connections"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
}

// LoggerConfig contains logging configuration.
type LoggerConfig struct {
	Level       string `koanf:"level"`  // debug, info, warn, error
	Development bool   `koanf:"development"`
}

// CatalogConfig points at the media server the detector scans.
type CatalogConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// ScanConfig controls the duplicate scan orchestration.
type ScanConfig struct {
	// Workers bounds fan-out across independent groups, clamped to 1-8.
	Workers int `koanf:"workers"`
	// Schedule is a cron expression for unattended scans; empty disables them.
	Schedule string `koanf:"schedule"`
	// Collections lists the catalog collection ids to scan.
	Collections []string `koanf:"collections"`
	// AuditLogDir is where deletion audit records are appended.
	AuditLogDir string `koanf:"audit_log_dir"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "dedupe",
			Environment: "development",
			Port:        8085,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "dedupe",
			Password:        "dedupe_dev",
			Database:        "dedupe_dev",
			SSLMode:         "disable",
			MaxConnections:  25,
			MinConnections:  5,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Catalog: CatalogConfig{
			BaseURL: "http://localhost:8096",
			Timeout: 15 * time.Second,
		},
		Scan: ScanConfig{
			Workers:     4,
			Schedule:    "0 3 * * *",
			AuditLogDir: "audit",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, and
// DEDUPE_-prefixed environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := Default()
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	const prefix = "DEDUPE_"
	if err := k.Load(env.Provider(prefix, ".", func(s string) string {
		// DEDUPE_DATABASE_HOST -> database.host
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, prefix), "_", "."))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid service port: %d", c.Service.Port)
	}
	if c.Scan.Workers < 1 {
		c.Scan.Workers = 1
	}
	if c.Scan.Workers > 8 {
		c.Scan.Workers = 8
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base_url is required")
	}
	return nil
}
