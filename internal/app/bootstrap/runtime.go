package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mintmesh/marketplace/internal/adapters/cache"
	eventadapter "github.com/mintmesh/marketplace/internal/adapters/events"
	httpadapter "github.com/mintmesh/marketplace/internal/adapters/http"
	"github.com/mintmesh/marketplace/internal/adapters/postgres"
	"github.com/mintmesh/marketplace/internal/adapters/security"
	"github.com/mintmesh/marketplace/internal/application"
	"github.com/mintmesh/marketplace/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	outbox     *eventadapter.OutboxWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	mintFee, err := decimal.NewFromString(cfg.MintFee)
	if err != nil {
		return nil, fmt.Errorf("parse mint fee: %w", err)
	}
	profitRate, err := decimal.NewFromString(cfg.ProfitRatePerHour)
	if err != nil {
		return nil, fmt.Errorf("parse profit rate: %w", err)
	}

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	cacheStore := cache.NewRedisCache(redisClient)

	var verifier *security.JWTVerifier
	if cfg.JWTPublicKeyPEM != "" {
		verifier, err = security.NewJWTVerifier(cfg.JWTPublicKeyPEM)
	} else {
		logger.WarnContext(ctx, "no JWT public key configured, using ephemeral keypair")
		verifier, err = security.NewEphemeralVerifier()
	}
	if err != nil {
		_ = redisClient.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	repos := postgres.NewRepositories(db)
	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:                cfg.ServiceID,
			MintFee:                    mintFee,
			ProfitRatePerHour:          profitRate,
			MaxAuctionDurationHours:    cfg.MaxAuctionDurationHours,
			DefaultPageSize:            cfg.DefaultPageSize,
			MaxPageSize:                cfg.MaxPageSize,
			IdempotencyTTL:             cfg.IdempotencyTTL,
			RateLimitWindow:            cfg.RateLimitWindow,
			RegisterRateLimitThreshold: cfg.RegisterRateLimitThreshold,
			BidRateLimitThreshold:      cfg.BidRateLimitThreshold,
			MintRateLimitThreshold:     cfg.MintRateLimitThreshold,
		},
		Users:        repos.Users,
		Collections:  repos.Collections,
		NFTs:         repos.NFTs,
		Auctions:     repos.Auctions,
		Transactions: repos.Transactions,
		Stocks:       repos.Stocks,
		Withdrawals:  repos.Withdrawals,
		Outbox:       repos.Outbox,
		Idempotency:  repos.Idempotency,
		Cache:        cacheStore,
		Hasher:       security.NewBcryptHasher(cfg.BcryptCost),
	})

	handler := httpadapter.NewHandler(service, verifier)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	var closers []io.Closer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, eventadapter.DefaultTopicByEvent())
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}
	}
	outbox := eventadapter.NewOutboxWorker(logger, repos.Outbox, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		outbox:     outbox,
		cleanupFn: func(ctx context.Context) {
			for _, closer := range closers {
				_ = closer.Close()
			}
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)

	go func() {
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		r.cleanupFn(context.Background())
		return nil
	case err := <-errCh:
		r.cleanupFn(context.Background())
		return err
	}
}
