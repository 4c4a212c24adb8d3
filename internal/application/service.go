package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mintmesh/marketplace/internal/ports"
)

type Config struct {
	ServiceName string

	MintFee                 decimal.Decimal
	ProfitRatePerHour       decimal.Decimal
	MaxAuctionDurationHours int

	DefaultPageSize int
	MaxPageSize     int

	IdempotencyTTL time.Duration

	RateLimitWindow            time.Duration
	RegisterRateLimitThreshold int
	BidRateLimitThreshold      int
	MintRateLimitThreshold     int
}

type Service struct {
	cfg          Config
	users        ports.UserRepository
	collections  ports.CollectionRepository
	nfts         ports.NFTRepository
	auctions     ports.AuctionRepository
	transactions ports.TransactionRepository
	stocks       ports.StockRepository
	withdrawals  ports.WithdrawalRepository
	outbox       ports.OutboxRepository
	idempotency  ports.IdempotencyRepository
	cache        ports.Cache
	hasher       ports.PasswordHasher
	nowFn        func() time.Time
}

type Dependencies struct {
	Config       Config
	Users        ports.UserRepository
	Collections  ports.CollectionRepository
	NFTs         ports.NFTRepository
	Auctions     ports.AuctionRepository
	Transactions ports.TransactionRepository
	Stocks       ports.StockRepository
	Withdrawals  ports.WithdrawalRepository
	Outbox       ports.OutboxRepository
	Idempotency  ports.IdempotencyRepository
	Cache        ports.Cache
	Hasher       ports.PasswordHasher
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "marketplace-service"
	}
	if cfg.MintFee.IsZero() {
		cfg.MintFee = decimal.RequireFromString("0.1")
	}
	if cfg.ProfitRatePerHour.IsZero() {
		cfg.ProfitRatePerHour = decimal.RequireFromString("0.10")
	}
	if cfg.MaxAuctionDurationHours <= 0 {
		cfg.MaxAuctionDurationHours = 30 * 24
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 7 * 24 * time.Hour
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	if cfg.RegisterRateLimitThreshold <= 0 {
		cfg.RegisterRateLimitThreshold = 10
	}
	if cfg.BidRateLimitThreshold <= 0 {
		cfg.BidRateLimitThreshold = 60
	}
	if cfg.MintRateLimitThreshold <= 0 {
		cfg.MintRateLimitThreshold = 20
	}

	return &Service{
		cfg:          cfg,
		users:        deps.Users,
		collections:  deps.Collections,
		nfts:         deps.NFTs,
		auctions:     deps.Auctions,
		transactions: deps.Transactions,
		stocks:       deps.Stocks,
		withdrawals:  deps.Withdrawals,
		outbox:       deps.Outbox,
		idempotency:  deps.Idempotency,
		cache:        deps.Cache,
		hasher:       deps.Hasher,
		nowFn:        func() time.Time { return time.Now().UTC() },
	}
}
