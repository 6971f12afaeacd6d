package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORTAL_SESSION_SECRET", "test-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "file" {
		t.Errorf("driver = %q, want file", cfg.Storage.Driver)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("ttl = %v, want 24h", cfg.Session.TTL)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	t.Setenv("PORTAL_SESSION_SECRET", "test-secret")

	path := filepath.Join(t.TempDir(), "portal.yaml")
	raw := `
server:
  addr: ":9090"
  allowed_origins: ["https://docs.example.com"]
storage:
  driver: memory
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("driver = %q, want memory", cfg.Storage.Driver)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://docs.example.com" {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("PORTAL_SESSION_SECRET", "")

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected failure for missing session secret")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORTAL_SESSION_SECRET", "test-secret")
	t.Setenv("PORTAL_ADDR", ":7070")
	t.Setenv("PORTAL_STORAGE_DRIVER", "postgres")
	t.Setenv("PORTAL_POSTGRES_DSN", "postgres://portal@localhost/portal")
	t.Setenv("PORTAL_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("addr = %q, want :7070", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "postgres" || cfg.Storage.PostgresDSN == "" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.Session.Secret = "s"
	cfg.Storage.Driver = "etcd"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected failure for unknown driver")
	}
}
