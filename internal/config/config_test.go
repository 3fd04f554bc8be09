package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"API_HTTP_PORT", "API_RATE_LIMIT_RPS", "API_RATE_LIMIT_BURST", "STORAGE_BACKEND", "CACHE_BACKEND", "CACHE_TTL",
		"ORDERS_DAILY_LIMIT", "DATABASE_URL", "DB_NAME", "API_SERVICE_NAME",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.HTTP.Port != defaultHTTPPort {
		t.Errorf("expected port %d, got %d", defaultHTTPPort, cfg.HTTP.Port)
	}
	if cfg.HTTP.RateLimitRPS != 0 || cfg.HTTP.RateLimitBurst != defaultRateLimitBurst {
		t.Errorf("expected rate limiting off with default burst, got %+v", cfg.HTTP)
	}
	if cfg.Storage.Backend != BackendMemory || cfg.Cache.Backend != BackendMemory {
		t.Errorf("expected memory backends, got %q %q", cfg.Storage.Backend, cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected 5m ttl, got %v", cfg.Cache.TTL)
	}
	if cfg.Orders.DailyLimit != 500 {
		t.Errorf("expected daily limit 500, got %d", cfg.Orders.DailyLimit)
	}
	if !strings.Contains(cfg.Database.URL, "/catalog?") {
		t.Errorf("expected catalog database in %q", cfg.Database.URL)
	}
	if cfg.Service.Name != "catalog-api" {
		t.Errorf("expected catalog-api, got %q", cfg.Service.Name)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("ORDERS_DAILY_LIMIT", "10")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Storage.Backend != BackendPostgres {
		t.Errorf("expected postgres, got %q", cfg.Storage.Backend)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6380" || cfg.Cache.TTL != 30*time.Second {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
	if cfg.Orders.DailyLimit != 10 {
		t.Errorf("expected 10, got %d", cfg.Orders.DailyLimit)
	}
	if cfg.Database.URL != "postgres://u:p@db:5432/x" || cfg.Database.AutoMigrate {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "non numeric port", key: "API_HTTP_PORT", value: "http"},
		{name: "bad rate limit", key: "API_RATE_LIMIT_RPS", value: "fast"},
		{name: "negative rate limit", key: "API_RATE_LIMIT_RPS", value: "-1"},
		{name: "non numeric grace", key: "API_SHUTDOWN_GRACE_SECONDS", value: "soon"},
		{name: "unknown storage", key: "STORAGE_BACKEND", value: "mongo", wantErr: ErrUnknownBackend},
		{name: "unknown cache", key: "CACHE_BACKEND", value: "memcached", wantErr: ErrUnknownBackend},
		{name: "bad ttl", key: "CACHE_TTL", value: "five"},
		{name: "zero daily limit", key: "ORDERS_DAILY_LIMIT", value: "0"},
		{name: "bad sample rate", key: "OTEL_SAMPLE_RATE", value: "all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("expected error to name %s, got %v", tt.key, err)
			}
		})
	}
}
