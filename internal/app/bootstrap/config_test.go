package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
service:
  id: marketplace-test
  http_port: 9090
dependencies:
  postgres_url: postgres://localhost:5432/marketplace
  redis_url: redis://localhost:6379/0
  kafka_brokers:
    - broker-1:9092
    - broker-2:9092
marketplace:
  mint_fee: "0.25"
  profit_rate_per_hour: "0.05"
  max_auction_duration_hours: 48
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceID != "marketplace-test" {
		t.Fatalf("service id: %s", cfg.ServiceID)
	}
	if cfg.HTTPPort != 9090 {
		t.Fatalf("http port: %d", cfg.HTTPPort)
	}
	if cfg.MintFee != "0.25" || cfg.ProfitRatePerHour != "0.05" {
		t.Fatalf("marketplace section not applied: fee=%s rate=%s", cfg.MintFee, cfg.ProfitRatePerHour)
	}
	if cfg.MaxAuctionDurationHours != 48 {
		t.Fatalf("duration: %d", cfg.MaxAuctionDurationHours)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "broker-1:9092" {
		t.Fatalf("brokers: %v", cfg.KafkaBrokers)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
dependencies:
  postgres_url: postgres://from-file:5432/marketplace
  redis_url: redis://from-file:6379/0
`)
	t.Setenv("DB_URL", "postgres://from-env:5432/marketplace")
	t.Setenv("KAFKA_BROKERS", "env-broker:9092, other:9092,")
	t.Setenv("MINT_FEE", "0.5")
	t.Setenv("IDEMPOTENCY_TTL_HOURS", "48")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://from-env:5432/marketplace" {
		t.Fatalf("env did not override file: %s", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://from-file:6379/0" {
		t.Fatalf("file value lost: %s", cfg.RedisURL)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "other:9092" {
		t.Fatalf("csv brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.MintFee != "0.5" {
		t.Fatalf("mint fee: %s", cfg.MintFee)
	}
	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("idempotency ttl: %s", cfg.IdempotencyTTL)
	}
}

func TestLoadConfigRequiresDatabaseAndRedis(t *testing.T) {
	path := writeConfigFile(t, `
service:
  id: incomplete
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for missing dependency urls")
	}

	t.Setenv("DB_URL", "postgres://localhost:5432/marketplace")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for missing redis url")
	}

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load with env urls: %v", err)
	}
	if cfg.ServiceID != "incomplete" {
		t.Fatalf("service id: %s", cfg.ServiceID)
	}
}
