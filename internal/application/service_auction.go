package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
)

// CreateAuction opens an auction on an unsold NFT. Only the current owner
// may open one, unless the requester is an admin acting on the owner's
// behalf. The one-active-unexpired-auction-per-NFT invariant is enforced
// again inside the repository transaction, so a concurrent create cannot
// slip past the read here.
func (s *Service) CreateAuction(ctx context.Context, requesterID uuid.UUID, requesterRole string, req CreateAuctionRequest) (AuctionView, error) {
	nftID, err := uuid.Parse(req.NFTID)
	if err != nil {
		return AuctionView{}, fmt.Errorf("%w: invalid nft_id", domain.ErrInvalidInput)
	}
	if !req.StartPrice.IsPositive() {
		return AuctionView{}, fmt.Errorf("%w: start_price must be positive", domain.ErrInvalidPrice)
	}
	if req.ReservePrice != nil && !req.ReservePrice.IsPositive() {
		return AuctionView{}, fmt.Errorf("%w: reserve_price must be positive", domain.ErrInvalidPrice)
	}
	if req.DurationHours <= 0 || req.DurationHours > s.cfg.MaxAuctionDurationHours {
		return AuctionView{}, fmt.Errorf("%w: duration_hours must be 1-%d", domain.ErrInvalidInput, s.cfg.MaxAuctionDurationHours)
	}

	nft, err := s.nfts.GetByID(ctx, nftID)
	if err != nil {
		return AuctionView{}, err
	}
	if nft.IsSold {
		return AuctionView{}, domain.ErrAlreadySold
	}
	isOwner := nft.OwnerID != nil && *nft.OwnerID == requesterID
	if !isOwner && requesterRole != string(domain.RoleAdmin) {
		return AuctionView{}, fmt.Errorf("%w: only the owner can auction this nft", domain.ErrForbidden)
	}

	now := s.nowFn()
	if open, err := s.auctions.FindOpenByNFT(ctx, nftID, now); err != nil {
		return AuctionView{}, err
	} else if open != nil {
		return AuctionView{}, domain.ErrAuctionAlreadyActive
	}

	sellerID := requesterID
	if !isOwner && nft.OwnerID != nil {
		sellerID = *nft.OwnerID
	}
	created, err := s.auctions.CreateTx(ctx, ports.CreateAuctionParams{
		NFTID:        nftID,
		SellerID:     sellerID,
		StartPrice:   req.StartPrice,
		ReservePrice: req.ReservePrice,
		StartTime:    now,
		EndTime:      now.Add(time.Duration(req.DurationHours) * time.Hour),
	})
	if err != nil {
		return AuctionView{}, err
	}
	return s.toAuctionView(created, nil), nil
}

// PlaceBid submits a bid. Preconditions are evaluated before any write, and
// the repository re-runs the same domain rules under the auction row lock:
// the read-highest-then-insert pair is deliberately serialized per auction
// instead of carrying the source system's bid race forward.
func (s *Service) PlaceBid(ctx context.Context, bidderID uuid.UUID, auctionID uuid.UUID, req PlaceBidRequest) (BidView, error) {
	if err := domain.ValidatePositiveAmount(req.Amount); err != nil {
		return BidView{}, err
	}
	if err := s.enforceRateLimit(ctx, "bid:"+bidderID.String(), s.cfg.BidRateLimitThreshold); err != nil {
		return BidView{}, err
	}

	auction, err := s.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return BidView{}, err
	}
	nft, err := s.nfts.GetByID(ctx, auction.NFTID)
	if err != nil {
		return BidView{}, err
	}
	highest, err := s.auctions.HighestBid(ctx, auctionID)
	if err != nil {
		return BidView{}, err
	}
	now := s.nowFn()
	if err := domain.ValidateBidPlacement(auction, nft.OwnerID, highest, bidderID, req.Amount, now); err != nil {
		return BidView{}, err
	}

	bid, err := s.auctions.PlaceBidTx(ctx, ports.PlaceBidParams{
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    req.Amount,
		Now:       now,
	})
	if err != nil {
		return BidView{}, err
	}

	outbidUserID := ""
	if highest != nil {
		outbidUserID = highest.BidderID.String()
	}
	if err := s.enqueueEvent(ctx, "marketplace.bid_placed", auctionID.String(), map[string]any{
		"auction_id":     auctionID.String(),
		"nft_id":         auction.NFTID.String(),
		"bidder_id":      bidderID.String(),
		"amount":         req.Amount.String(),
		"outbid_user_id": outbidUserID,
	}); err != nil {
		slog.Default().WarnContext(ctx, "bid event enqueue failed",
			"service", s.cfg.ServiceName,
			"operation", "place_bid",
			"auction_id", auctionID.String(),
			"error", err,
		)
	}
	return toBidView(bid), nil
}

func (s *Service) GetAuction(ctx context.Context, auctionID uuid.UUID) (AuctionView, error) {
	auction, err := s.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return AuctionView{}, err
	}
	highest, err := s.auctions.HighestBid(ctx, auctionID)
	if err != nil {
		return AuctionView{}, err
	}
	return s.toAuctionView(auction, highest), nil
}

func (s *Service) ListAuctions(ctx context.Context, activeOnly bool, limit, offset int) ([]AuctionView, error) {
	limit, offset = s.pageBounds(limit, offset)
	rows, err := s.auctions.List(ctx, ports.AuctionFilter{ActiveOnly: activeOnly, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	out := make([]AuctionView, 0, len(rows))
	for _, row := range rows {
		// MinimumBid must agree with the single-auction view, so the
		// highest bid is resolved per row here too.
		highest, err := s.auctions.HighestBid(ctx, row.AuctionID)
		if err != nil {
			return nil, err
		}
		out = append(out, s.toAuctionView(row, highest))
	}
	return out, nil
}

func (s *Service) ListBids(ctx context.Context, auctionID uuid.UUID, limit int) ([]BidView, error) {
	limit, _ = s.pageBounds(limit, 0)
	if _, err := s.auctions.GetByID(ctx, auctionID); err != nil {
		return nil, err
	}
	rows, err := s.auctions.ListBids(ctx, auctionID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]BidView, 0, len(rows))
	for _, row := range rows {
		out = append(out, toBidView(row))
	}
	return out, nil
}
