package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidIncrement is the fixed minimum step above the current highest bid.
var BidIncrement = decimal.RequireFromString("0.01")

// MinimumNextBid returns the smallest acceptable bid amount: the highest
// bid plus the fixed increment when a bid exists, otherwise the start
// price. Strict comparison against this minimum is what makes equal-amount
// bids impossible after the first, so ties never need resolving.
func MinimumNextBid(startPrice decimal.Decimal, highest *Bid) decimal.Decimal {
	if highest == nil {
		return startPrice
	}
	return highest.Amount.Add(BidIncrement)
}

// ValidateBidPlacement applies the bid acceptance rules in order:
// inactive auction, expired auction, owner self-bid, amount below minimum,
// and finally self-outbidding by the current highest bidder. It is pure so
// the storage layer can re-run it under a row lock without duplicating the
// rules.
func ValidateBidPlacement(a Auction, nftOwner *uuid.UUID, highest *Bid, bidderID uuid.UUID, amount decimal.Decimal, now time.Time) error {
	if !a.IsActive {
		return ErrAuctionInactive
	}
	if a.Expired(now) {
		return ErrAuctionExpired
	}
	if nftOwner != nil && *nftOwner == bidderID {
		return ErrSelfBid
	}
	if amount.LessThan(MinimumNextBid(a.StartPrice, highest)) {
		return ErrBidTooLow
	}
	if highest != nil && highest.BidderID == bidderID {
		return ErrAlreadyHighestBidder
	}
	return nil
}
