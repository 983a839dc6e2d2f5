package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("default server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Index.Tokenizer != "whitespace" {
		t.Fatalf("default tokenizer = %q, want whitespace", cfg.Index.Tokenizer)
	}
	if cfg.Search.DefaultLimit != 10 || cfg.Search.MaxResults != 100 {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9999
index:
  dir: /tmp/idx
  tokenizer: normalizing
redis:
  cacheTTL: 30s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("server port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Index.Dir != "/tmp/idx" || cfg.Index.Tokenizer != "normalizing" {
		t.Fatalf("unexpected index config: %+v", cfg.Index)
	}
	if cfg.Redis.CacheTTL != 30*time.Second {
		t.Fatalf("cache ttl = %v, want 30s", cfg.Redis.CacheTTL)
	}
	// Untouched sections keep their defaults.
	if cfg.Metrics.Port != 9090 {
		t.Fatalf("metrics port = %d, want default 9090", cfg.Metrics.Port)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DANTON_SERVER_PORT", "7070")
	t.Setenv("DANTON_INDEX_TOKENIZER", "normalizing")
	t.Setenv("DANTON_REDIS_ADDR", "redis-prod:6379")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 {
		t.Fatalf("server port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Index.Tokenizer != "normalizing" {
		t.Fatalf("tokenizer = %q, want normalizing", cfg.Index.Tokenizer)
	}
	if cfg.Redis.Addr != "redis-prod:6379" {
		t.Fatalf("redis addr = %q", cfg.Redis.Addr)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
search:
  defaultLimit: 50
  maxResults: 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for maxResults < defaultLimit")
	}
}
