package domain

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("conflict")
	ErrRateLimitExceeded   = errors.New("rate limit exceeded")
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	ErrStorageUnavailable  = errors.New("storage unavailable")

	// ErrAlreadySold blocks auction creation for an NFT that already changed
	// hands through settlement.
	ErrAlreadySold = errors.New("nft already sold")
	// ErrAuctionAlreadyActive enforces the one active unexpired auction per
	// NFT invariant at creation time.
	ErrAuctionAlreadyActive = errors.New("nft already has an active auction")
	ErrAuctionInactive      = errors.New("auction is not active")
	ErrAuctionExpired       = errors.New("auction has ended")
	// ErrSelfBid rejects bids from the current owner of the auctioned NFT.
	ErrSelfBid              = errors.New("cannot bid on own nft")
	ErrBidTooLow            = errors.New("bid below minimum acceptable amount")
	ErrAlreadyHighestBidder = errors.New("bidder already holds the highest bid")
	// ErrNFTUnavailable covers settlement against an unlisted or sold NFT.
	ErrNFTUnavailable      = errors.New("nft is not available for purchase")
	ErrSelfPurchase        = errors.New("cannot purchase own nft")
	ErrActiveAuction       = errors.New("nft has an active auction")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
