package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
backend:
  base_url: "http://api.example.com/"
storage:
  driver: POSTGRES
kafka:
  publish_retries: -4
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("TIMBERYARD_LOG_LEVEL", "debug")
	t.Setenv("TIMBERYARD_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("port: got %d", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "http://api.example.com" {
		t.Fatalf("base url not trimmed: %q", cfg.Backend.BaseURL)
	}
	if cfg.Storage.Driver != "postgres" {
		t.Fatalf("driver: got %q", cfg.Storage.Driver)
	}
	if cfg.Kafka.PublishRetries != 0 {
		t.Fatalf("negative retries not normalized: %d", cfg.Kafka.PublishRetries)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("env override not applied: %q", cfg.Log.Level)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("brokers: %v", cfg.Kafka.Brokers)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Fatalf("default read timeout lost: %v", cfg.Server.ReadTimeout)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("missing file must fall back to defaults: %v", err)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("driver: got %q", cfg.Storage.Driver)
	}
}

func TestFlagsApply(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f, err := ParseFlags(fs, []string{"-a", "127.0.0.1:7000", "-dsn", "postgres://x"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg := defaultConfig()
	f.Apply(&cfg)

	if cfg.Server.Address() != "127.0.0.1:7000" {
		t.Fatalf("address: got %q", cfg.Server.Address())
	}
	if cfg.Storage.Driver != "postgres" {
		t.Fatalf("dsn flag must switch driver to postgres")
	}
}
