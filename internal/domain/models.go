package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type TransactionType string

const (
	TransactionSale       TransactionType = "SALE"
	TransactionTransfer   TransactionType = "TRANSFER"
	TransactionMint       TransactionType = "MINT"
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	WithdrawalDenied   WithdrawalStatus = "DENIED"
)

type User struct {
	UserID            uuid.UUID
	Email             string
	PasswordHash      string
	DisplayName       string
	Role              Role
	PreferredCurrency string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

type Collection struct {
	CollectionID uuid.UUID
	CreatorID    uuid.UUID
	Name         string
	Description  string
	CreatedAt    time.Time
}

// NFT ownership is nullable: a token minted for external custody has no
// marketplace owner until it is purchased. CreatorID never changes.
type NFT struct {
	NFTID        uuid.UUID
	CreatorID    uuid.UUID
	OwnerID      *uuid.UUID
	CollectionID *uuid.UUID
	Name         string
	Description  string
	ImageURL     string
	Price        decimal.Decimal
	IsListed     bool
	IsSold       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Auction expiry is lazy: nothing flips IsActive when EndTime passes, so
// every consumer must compare EndTime against the clock even when
// IsActive is true.
type Auction struct {
	AuctionID    uuid.UUID
	NFTID        uuid.UUID
	SellerID     uuid.UUID
	StartPrice   decimal.Decimal
	ReservePrice *decimal.Decimal
	CurrentPrice decimal.Decimal
	StartTime    time.Time
	EndTime      time.Time
	IsActive     bool
	CreatedAt    time.Time
}

// Expired reports whether the auction's end time has passed at now.
func (a Auction) Expired(now time.Time) bool {
	return !a.EndTime.After(now)
}

// OpenForBids is the effective auction state: the IsActive flag gates
// administrative closure, EndTime gates time-based expiry.
func (a Auction) OpenForBids(now time.Time) bool {
	return a.IsActive && !a.Expired(now)
}

// Bid rows are immutable once created; there are no edits or cancellations.
type Bid struct {
	BidID     uuid.UUID
	AuctionID uuid.UUID
	NFTID     uuid.UUID
	BidderID  uuid.UUID
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// Transaction is an append-only ledger entry. Amount is always positive;
// the signed meaning comes from Type. The ledger is the sole source of
// truth for user balances.
type Transaction struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
	NFTID         *uuid.UUID
	Type          TransactionType
	Amount        decimal.Decimal
	CreatedAt     time.Time
}

type StockPurchase struct {
	PurchaseID        uuid.UUID
	UserID            uuid.UUID
	Symbol            string
	AmountUSD         decimal.Decimal
	PurchasedAt       time.Time
	LastProfitClaimAt time.Time
}

// WithdrawalRequest carries no balance effect until approved; approval
// creates the WITHDRAWAL ledger entry in the same transaction as the
// status flip.
type WithdrawalRequest struct {
	RequestID   uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Status      WithdrawalStatus
	RequestedAt time.Time
	DecidedAt   *time.Time
	DecidedBy   *uuid.UUID
}
