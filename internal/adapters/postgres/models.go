package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type userModel struct {
	UserID            uuid.UUID  `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email             string     `gorm:"column:email"`
	PasswordHash      string     `gorm:"column:password_hash"`
	DisplayName       string     `gorm:"column:display_name"`
	Role              string     `gorm:"column:role"`
	PreferredCurrency string     `gorm:"column:preferred_currency"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
	DeletedAt         *time.Time `gorm:"column:deleted_at"`
}

func (userModel) TableName() string { return "users" }

type collectionModel struct {
	CollectionID uuid.UUID `gorm:"column:collection_id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID    uuid.UUID `gorm:"column:creator_id"`
	Name         string    `gorm:"column:name"`
	Description  string    `gorm:"column:description"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (collectionModel) TableName() string { return "collections" }

type nftModel struct {
	NFTID        uuid.UUID       `gorm:"column:nft_id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID    uuid.UUID       `gorm:"column:creator_id"`
	OwnerID      *uuid.UUID      `gorm:"column:owner_id"`
	CollectionID *uuid.UUID      `gorm:"column:collection_id"`
	Name         string          `gorm:"column:name"`
	Description  string          `gorm:"column:description"`
	ImageURL     string          `gorm:"column:image_url"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(20,8)"`
	IsListed     bool            `gorm:"column:is_listed"`
	IsSold       bool            `gorm:"column:is_sold"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (nftModel) TableName() string { return "nfts" }

type auctionModel struct {
	AuctionID    uuid.UUID        `gorm:"column:auction_id;type:uuid;default:gen_random_uuid();primaryKey"`
	NFTID        uuid.UUID        `gorm:"column:nft_id"`
	SellerID     uuid.UUID        `gorm:"column:seller_id"`
	StartPrice   decimal.Decimal  `gorm:"column:start_price;type:numeric(20,8)"`
	ReservePrice *decimal.Decimal `gorm:"column:reserve_price;type:numeric(20,8)"`
	CurrentPrice decimal.Decimal  `gorm:"column:current_price;type:numeric(20,8)"`
	StartTime    time.Time        `gorm:"column:start_time"`
	EndTime      time.Time        `gorm:"column:end_time"`
	IsActive     bool             `gorm:"column:is_active"`
	CreatedAt    time.Time        `gorm:"column:created_at"`
}

func (auctionModel) TableName() string { return "auctions" }

type bidModel struct {
	BidID     uuid.UUID       `gorm:"column:bid_id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuctionID uuid.UUID       `gorm:"column:auction_id"`
	NFTID     uuid.UUID       `gorm:"column:nft_id"`
	BidderID  uuid.UUID       `gorm:"column:bidder_id"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(20,8)"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (bidModel) TableName() string { return "bids" }

type transactionModel struct {
	TransactionID uuid.UUID       `gorm:"column:transaction_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID       `gorm:"column:user_id"`
	NFTID         *uuid.UUID      `gorm:"column:nft_id"`
	Type          string          `gorm:"column:type"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(20,8)"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

func (transactionModel) TableName() string { return "transactions" }

type stockPurchaseModel struct {
	PurchaseID        uuid.UUID       `gorm:"column:purchase_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID       `gorm:"column:user_id"`
	Symbol            string          `gorm:"column:symbol"`
	AmountUSD         decimal.Decimal `gorm:"column:amount_usd;type:numeric(20,8)"`
	PurchasedAt       time.Time       `gorm:"column:purchased_at"`
	LastProfitClaimAt time.Time       `gorm:"column:last_profit_claim_at"`
}

func (stockPurchaseModel) TableName() string { return "stock_purchases" }

type withdrawalRequestModel struct {
	RequestID   uuid.UUID       `gorm:"column:request_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(20,8)"`
	Status      string          `gorm:"column:status"`
	RequestedAt time.Time       `gorm:"column:requested_at"`
	DecidedAt   *time.Time      `gorm:"column:decided_at"`
	DecidedBy   *uuid.UUID      `gorm:"column:decided_by"`
}

func (withdrawalRequestModel) TableName() string { return "withdrawal_requests" }

type outboxModel struct {
	OutboxID      uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType     string     `gorm:"column:event_type"`
	PartitionKey  string     `gorm:"column:partition_key"`
	Payload       string     `gorm:"column:payload"`
	SchemaVersion string     `gorm:"column:schema_version"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	FirstSeenAt   time.Time  `gorm:"column:first_seen_at"`
	PublishedAt   *time.Time `gorm:"column:published_at"`
	RetryCount    int        `gorm:"column:retry_count"`
	LastError     *string    `gorm:"column:last_error"`
	LastErrorAt   *time.Time `gorm:"column:last_error_at"`
}

func (outboxModel) TableName() string { return "marketplace_outbox" }

type idempotencyModel struct {
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash    string    `gorm:"column:request_hash"`
	Status         string    `gorm:"column:status"`
	ResponseCode   int       `gorm:"column:response_code"`
	ResponseBody   *string   `gorm:"column:response_body"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (idempotencyModel) TableName() string { return "marketplace_idempotency" }
