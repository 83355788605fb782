package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("Database.Driver = %q, want mysql", cfg.Database.Driver)
	}
	if cfg.JWT.ExpireTime != 24*time.Hour {
		t.Errorf("JWT.ExpireTime = %v, want 24h", cfg.JWT.ExpireTime)
	}
	if cfg.Kafka.Enabled || cfg.Redis.Enabled {
		t.Error("kafka and redis should be disabled by default")
	}
	if cfg.SMTP.Enabled() {
		t.Error("SMTP should not be enabled without a host")
	}
}

func TestLoadConfigFrom_YAMLKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: \"9000\"\njwt:\n  expireTime: 2h\nkafka:\n  brokers: [\"k1:9092\", \"k2:9092\"]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := LoadConfigFrom(path)

	if cfg.Server.Port != "9000" {
		t.Errorf("Server.Port = %q, want 9000", cfg.Server.Port)
	}
	if cfg.JWT.ExpireTime != 2*time.Hour {
		t.Errorf("JWT.ExpireTime = %v, want 2h", cfg.JWT.ExpireTime)
	}
	if cfg.JWT.Issuer != "mindhaven" {
		t.Errorf("JWT.Issuer = %q, want default mindhaven", cfg.JWT.Issuer)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Kafka.Brokers = %v, want 2 entries", cfg.Kafka.Brokers)
	}
}

func TestLoadConfigFrom_InvalidYAMLFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := LoadConfigFrom(path)
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want default 8080", cfg.Server.Port)
	}
}

func TestLoadConfigFrom_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "a:1, b:2 ,")
	t.Setenv("WS_PING_INTERVAL", "5s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("DB_MAX_IDLE", "not-a-number")

	cfg := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))

	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %q, want 7070", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Port != 5432 {
		t.Errorf("Database = %s:%d, want postgres:5432", cfg.Database.Driver, cfg.Database.Port)
	}
	if !cfg.Redis.Enabled {
		t.Error("Redis.Enabled = false, want true")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:2" {
		t.Errorf("Kafka.Brokers = %v, want [a:1 b:2]", cfg.Kafka.Brokers)
	}
	if cfg.WebSocket.PingInterval != 5*time.Second {
		t.Errorf("WebSocket.PingInterval = %v, want 5s", cfg.WebSocket.PingInterval)
	}
	if cfg.RateLimit.RPS != 2.5 {
		t.Errorf("RateLimit.RPS = %v, want 2.5", cfg.RateLimit.RPS)
	}
	if cfg.Database.MaxIdle != 10 {
		t.Errorf("Database.MaxIdle = %d, want default 10 on invalid env", cfg.Database.MaxIdle)
	}
}
