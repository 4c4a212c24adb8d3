package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintmesh/marketplace/internal/domain"
)

type CreateUserParams struct {
	Email             string
	PasswordHash      string
	DisplayName       string
	Role              domain.Role
	PreferredCurrency string
	CreatedAt         time.Time
}

type UpdateUserParams struct {
	UserID            uuid.UUID
	DisplayName       *string
	PreferredCurrency *string
	UpdatedAt         time.Time
}

type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, params UpdateUserParams) (domain.User, error)
}

type CreateCollectionParams struct {
	CreatorID   uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}

type CollectionRepository interface {
	Create(ctx context.Context, params CreateCollectionParams) (domain.Collection, error)
	GetByID(ctx context.Context, collectionID uuid.UUID) (domain.Collection, error)
	List(ctx context.Context, limit, offset int) ([]domain.Collection, error)
}

type NFTFilter struct {
	ListedOnly   bool
	OwnerID      *uuid.UUID
	CollectionID *uuid.UUID
	Limit        int
	Offset       int
}

type MintNFTParams struct {
	CreatorID    uuid.UUID
	CollectionID *uuid.UUID
	Name         string
	Description  string
	ImageURL     string
	Price        decimal.Decimal
	ListOnMint   bool
	CreatedAt    time.Time
}

type SetListingParams struct {
	NFTID     uuid.UUID
	OwnerID   uuid.UUID
	Listed    bool
	Price     *decimal.Decimal
	UpdatedAt time.Time
}

// NFTRepository owns the two marketplace atomic units that pair an NFT
// write with a ledger write. MintWithDebitTx creates the NFT and its MINT
// fee transaction together; SettlePurchaseTx transfers ownership and
// records the SALE. Both commit fully or not at all, and SettlePurchaseTx
// must re-check availability under a row lock so two concurrent purchases
// of the same NFT cannot both succeed.
type NFTRepository interface {
	GetByID(ctx context.Context, nftID uuid.UUID) (domain.NFT, error)
	List(ctx context.Context, filter NFTFilter) ([]domain.NFT, error)
	MintWithDebitTx(ctx context.Context, params MintNFTParams, fee domain.Transaction) (domain.NFT, domain.Transaction, error)
	SettlePurchaseTx(ctx context.Context, nftID, buyerID uuid.UUID, sale domain.Transaction) (domain.NFT, domain.Transaction, error)
	SetListing(ctx context.Context, params SetListingParams) (domain.NFT, error)
}

type CreateAuctionParams struct {
	NFTID        uuid.UUID
	SellerID     uuid.UUID
	StartPrice   decimal.Decimal
	ReservePrice *decimal.Decimal
	StartTime    time.Time
	EndTime      time.Time
}

type PlaceBidParams struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	Amount    decimal.Decimal
	Now       time.Time
}

type AuctionFilter struct {
	ActiveOnly bool
	NFTID      *uuid.UUID
	Limit      int
	Offset     int
}

// AuctionRepository serializes bid placement: PlaceBidTx locks the auction
// row, re-reads the highest bid, re-runs domain.ValidateBidPlacement, and
// only then inserts the bid and advances current_price. This closes the
// read-then-insert race between near-simultaneous bids.
type AuctionRepository interface {
	CreateTx(ctx context.Context, params CreateAuctionParams) (domain.Auction, error)
	GetByID(ctx context.Context, auctionID uuid.UUID) (domain.Auction, error)
	List(ctx context.Context, filter AuctionFilter) ([]domain.Auction, error)
	FindOpenByNFT(ctx context.Context, nftID uuid.UUID, now time.Time) (*domain.Auction, error)
	PlaceBidTx(ctx context.Context, params PlaceBidParams) (domain.Bid, error)
	HighestBid(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error)
	ListBids(ctx context.Context, auctionID uuid.UUID, limit int) ([]domain.Bid, error)
}

type CreateTransactionParams struct {
	UserID    uuid.UUID
	NFTID     *uuid.UUID
	Type      domain.TransactionType
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// TransactionRepository is the append-only ledger. SumByType backs the
// balance projection and never mutates rows.
type TransactionRepository interface {
	Create(ctx context.Context, params CreateTransactionParams) (domain.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
	SumByType(ctx context.Context, userID uuid.UUID) (map[domain.TransactionType]decimal.Decimal, error)
}

type CreateStockPurchaseParams struct {
	UserID      uuid.UUID
	Symbol      string
	AmountUSD   decimal.Decimal
	PurchasedAt time.Time
}

// ProfitClaim pins a purchase to the watermark the accrual was computed
// from. The store must refuse the claim if the stored watermark has moved.
type ProfitClaim struct {
	PurchaseID    uuid.UUID
	LastClaimedAt time.Time
}

// StockRepository's ClaimProfitTx advances last_profit_claim_at on every
// contributing purchase and records the aggregate DEPOSIT in one unit.
// The update is optimistic: each row must still carry the watermark the
// caller read, otherwise a concurrent claim already consumed the interval
// and the whole unit fails with a conflict.
type StockRepository interface {
	Create(ctx context.Context, params CreateStockPurchaseParams) (domain.StockPurchase, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.StockPurchase, error)
	ClaimProfitTx(ctx context.Context, userID uuid.UUID, claims []ProfitClaim, deposit domain.Transaction, claimedAt time.Time) (domain.Transaction, error)
}

type WithdrawalFilter struct {
	Status *domain.WithdrawalStatus
	Limit  int
	Offset int
}

// WithdrawalRepository's ApproveTx flips a PENDING request to APPROVED and
// appends the WITHDRAWAL ledger row atomically; a request that is no longer
// pending must fail the whole unit with a conflict.
type WithdrawalRepository interface {
	Create(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, requestedAt time.Time) (domain.WithdrawalRequest, error)
	GetByID(ctx context.Context, requestID uuid.UUID) (domain.WithdrawalRequest, error)
	List(ctx context.Context, filter WithdrawalFilter) ([]domain.WithdrawalRequest, error)
	ApproveTx(ctx context.Context, requestID, adminID uuid.UUID, withdrawal domain.Transaction, decidedAt time.Time) (domain.WithdrawalRequest, error)
	Deny(ctx context.Context, requestID, adminID uuid.UUID, decidedAt time.Time) (domain.WithdrawalRequest, error)
}

type OutboxEvent struct {
	EventID       uuid.UUID
	EventType     string
	PartitionKey  string
	Payload       []byte
	OccurredAt    time.Time
	SchemaVersion string
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	LastErrorAt  *time.Time
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}

type IdempotencyRepository interface {
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
}
