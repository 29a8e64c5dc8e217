package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Storage.Driver != DriverMemory || cfg.Game.Timezone != "America/New_York" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9000"
storage:
  driver: sqlite
redis:
  addr: localhost:6379
  ttl: 48h
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9000" || cfg.Storage.Driver != DriverSQLite {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Redis.Addr != "redis:6380" || cfg.Log.Level != "debug" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Game.Epoch != "2024-01-01" {
		t.Fatalf("defaults should survive a partial file, got epoch %q", cfg.Game.Epoch)
	}
	if TTLDuration(cfg.Redis.TTL, time.Minute) != 48*time.Hour {
		t.Fatalf("unexpected ttl %q", cfg.Redis.TTL)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [port"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTTLDuration(t *testing.T) {
	if TTLDuration("", time.Second) != time.Second {
		t.Fatalf("empty should fall back")
	}
	if TTLDuration("soon", time.Second) != time.Second {
		t.Fatalf("invalid should fall back")
	}
	if TTLDuration("90s", time.Second) != 90*time.Second {
		t.Fatalf("expected 90s")
	}
}
