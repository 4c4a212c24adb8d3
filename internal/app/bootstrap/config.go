package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string

	MaxDBConns int32

	JWTPublicKeyPEM string
	BcryptCost      int

	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	MintFee                 string
	ProfitRatePerHour       string
	MaxAuctionDurationHours int

	DefaultPageSize int
	MaxPageSize     int

	IdempotencyTTL time.Duration

	RateLimitWindow            time.Duration
	RegisterRateLimitThreshold int
	BidRateLimitThreshold      int
	MintRateLimitThreshold     int
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Marketplace struct {
		MintFee                 string `yaml:"mint_fee"`
		ProfitRatePerHour       string `yaml:"profit_rate_per_hour"`
		MaxAuctionDurationHours int    `yaml:"max_auction_duration_hours"`
	} `yaml:"marketplace"`
}

func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on process environment")
	}

	cfg := Config{
		ServiceID:                  "marketplace",
		HTTPPort:                   8080,
		MaxDBConns:                 20,
		BcryptCost:                 0,
		OutboxPollInterval:         2 * time.Second,
		OutboxBatchSize:            100,
		MintFee:                    "0.1",
		ProfitRatePerHour:          "0.10",
		MaxAuctionDurationHours:    30 * 24,
		DefaultPageSize:            20,
		MaxPageSize:                100,
		IdempotencyTTL:             24 * time.Hour,
		RateLimitWindow:            time.Minute,
		RegisterRateLimitThreshold: 5,
		BidRateLimitThreshold:      30,
		MintRateLimitThreshold:     10,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Marketplace.MintFee != "" {
			cfg.MintFee = f.Marketplace.MintFee
		}
		if f.Marketplace.ProfitRatePerHour != "" {
			cfg.ProfitRatePerHour = f.Marketplace.ProfitRatePerHour
		}
		if f.Marketplace.MaxAuctionDurationHours > 0 {
			cfg.MaxAuctionDurationHours = f.Marketplace.MaxAuctionDurationHours
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.JWTPublicKeyPEM = envOrDefault("JWT_PUBLIC_KEY_PEM", cfg.JWTPublicKeyPEM)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.BcryptCost = envInt("BCRYPT_COST", cfg.BcryptCost)
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.MintFee = envOrDefault("MINT_FEE", cfg.MintFee)
	cfg.ProfitRatePerHour = envOrDefault("PROFIT_RATE_PER_HOUR", cfg.ProfitRatePerHour)
	cfg.MaxAuctionDurationHours = envInt("MAX_AUCTION_DURATION_HOURS", cfg.MaxAuctionDurationHours)
	cfg.DefaultPageSize = envInt("DEFAULT_PAGE_SIZE", cfg.DefaultPageSize)
	cfg.MaxPageSize = envInt("MAX_PAGE_SIZE", cfg.MaxPageSize)
	cfg.IdempotencyTTL = time.Duration(envInt("IDEMPOTENCY_TTL_HOURS", int(cfg.IdempotencyTTL.Hours()))) * time.Hour
	cfg.RateLimitWindow = time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", int(cfg.RateLimitWindow.Seconds()))) * time.Second
	cfg.RegisterRateLimitThreshold = envInt("REGISTER_RATE_LIMIT", cfg.RegisterRateLimitThreshold)
	cfg.BidRateLimitThreshold = envInt("BID_RATE_LIMIT", cfg.BidRateLimitThreshold)
	cfg.MintRateLimitThreshold = envInt("MINT_RATE_LIMIT", cfg.MintRateLimitThreshold)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
