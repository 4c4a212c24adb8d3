package application

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	DisplayName       string `json:"display_name"`
	PreferredCurrency string `json:"preferred_currency"`
	IPAddress         string `json:"-"`
}

type UserResponse struct {
	UserID            string    `json:"user_id"`
	Email             string    `json:"email"`
	DisplayName       string    `json:"display_name"`
	Role              string    `json:"role"`
	PreferredCurrency string    `json:"preferred_currency"`
	CreatedAt         time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	DisplayName       *string `json:"display_name,omitempty"`
	PreferredCurrency *string `json:"preferred_currency,omitempty"`
}

type BalanceResponse struct {
	UserID  string          `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TransactionView struct {
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	NFTID         *string         `json:"nft_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type MintNFTRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url"`
	CollectionID *string         `json:"collection_id,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ListOnMint   bool            `json:"list_on_mint"`
	IPAddress    string          `json:"-"`
}

type NFTView struct {
	NFTID        string          `json:"nft_id"`
	CreatorID    string          `json:"creator_id"`
	OwnerID      *string         `json:"owner_id,omitempty"`
	CollectionID *string         `json:"collection_id,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url"`
	Price        decimal.Decimal `json:"price"`
	IsListed     bool            `json:"is_listed"`
	IsSold       bool            `json:"is_sold"`
	CreatedAt    time.Time       `json:"created_at"`
}

type MintNFTResponse struct {
	NFT         NFTView         `json:"nft"`
	FeeCharged  decimal.Decimal `json:"fee_charged"`
	Transaction TransactionView `json:"transaction"`
}

type SettlePurchaseResponse struct {
	NFT         NFTView         `json:"nft"`
	Transaction TransactionView `json:"transaction"`
}

type SetListingRequest struct {
	Price *decimal.Decimal `json:"price,omitempty"`
}

type CreateCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CollectionView struct {
	CollectionID string    `json:"collection_id"`
	CreatorID    string    `json:"creator_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateAuctionRequest struct {
	NFTID         string           `json:"nft_id"`
	StartPrice    decimal.Decimal  `json:"start_price"`
	ReservePrice  *decimal.Decimal `json:"reserve_price,omitempty"`
	DurationHours int              `json:"duration_hours"`
}

type AuctionView struct {
	AuctionID    string           `json:"auction_id"`
	NFTID        string           `json:"nft_id"`
	SellerID     string           `json:"seller_id"`
	StartPrice   decimal.Decimal  `json:"start_price"`
	ReservePrice *decimal.Decimal `json:"reserve_price,omitempty"`
	CurrentPrice decimal.Decimal  `json:"current_price"`
	StartTime    time.Time        `json:"start_time"`
	EndTime      time.Time        `json:"end_time"`
	// IsActive is the stored flag; Open is the effective state after the
	// lazy-expiry re-check against the clock.
	IsActive   bool            `json:"is_active"`
	Open       bool            `json:"open"`
	MinimumBid decimal.Decimal `json:"minimum_bid"`
}

type PlaceBidRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	IPAddress string          `json:"-"`
}

type BidView struct {
	BidID     string          `json:"bid_id"`
	AuctionID string          `json:"auction_id"`
	NFTID     string          `json:"nft_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type BuyStockRequest struct {
	Symbol    string          `json:"symbol"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
}

type StockPurchaseView struct {
	PurchaseID        string          `json:"purchase_id"`
	Symbol            string          `json:"symbol"`
	AmountUSD         decimal.Decimal `json:"amount_usd"`
	PurchasedAt       time.Time       `json:"purchased_at"`
	LastProfitClaimAt time.Time       `json:"last_profit_claim_at"`
}

type ClaimProfitResponse struct {
	ClaimedAmount decimal.Decimal  `json:"claimed_amount"`
	Transaction   *TransactionView `json:"transaction,omitempty"`
}

type WithdrawalRequestInput struct {
	Amount decimal.Decimal `json:"amount"`
}

type WithdrawalView struct {
	RequestID   string          `json:"request_id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	RequestedAt time.Time       `json:"requested_at"`
	DecidedAt   *time.Time      `json:"decided_at,omitempty"`
}
