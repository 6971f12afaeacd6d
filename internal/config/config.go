// Package config loads the portal configuration from a YAML file with
// environment overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full portal configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	LoginRatePerSec int      `yaml:"login_rate_per_sec"`
	LoginRateBurst  int      `yaml:"login_rate_burst"`
}

// StorageConfig selects and configures the persistence provider.
type StorageConfig struct {
	Driver      string `yaml:"driver"` // file | postgres | memory
	FilePath    string `yaml:"file_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// SessionConfig configures session token signing.
type SessionConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"http://localhost:3000"},
			LoginRatePerSec: 5,
			LoginRateBurst:  10,
		},
		Storage: StorageConfig{
			Driver:   "file",
			FilePath: "data/db.json",
		},
		Session: SessionConfig{
			TTL: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the configuration from path, falling back to defaults when the
// file does not exist, then applies environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for deployment mistakes.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "file":
		if c.Storage.FilePath == "" {
			return fmt.Errorf("storage: file driver requires file_path")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage: postgres driver requires postgres_dsn")
		}
	case "memory":
	default:
		return fmt.Errorf("storage: unknown driver %q", c.Storage.Driver)
	}

	if strings.TrimSpace(c.Session.Secret) == "" {
		return fmt.Errorf("session: secret is required (set PORTAL_SESSION_SECRET)")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server: addr is required")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORTAL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PORTAL_SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	if v := os.Getenv("PORTAL_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("PORTAL_DB_PATH"); v != "" {
		cfg.Storage.FilePath = v
	}
	if v := os.Getenv("PORTAL_POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("PORTAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PORTAL_CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		cfg.Server.AllowedOrigins = cfg.Server.AllowedOrigins[:0]
		for _, origin := range origins {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, trimmed)
			}
		}
	}
}
