package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type auctionRepository struct {
	db *gorm.DB
}

// CreateTx deactivates any expired-but-still-flagged auction for the NFT
// before inserting, otherwise the partial unique index on open auctions
// would reject a legitimate new auction.
func (r *auctionRepository) CreateTx(ctx context.Context, params ports.CreateAuctionParams) (domain.Auction, error) {
	var rec auctionModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&auctionModel{}).
			Where("nft_id = ? AND is_active = TRUE AND end_time <= ?", params.NFTID, params.StartTime).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("close expired auctions: %w", err)
		}
		rec = auctionModel{
			NFTID:        params.NFTID,
			SellerID:     params.SellerID,
			StartPrice:   params.StartPrice,
			ReservePrice: params.ReservePrice,
			CurrentPrice: params.StartPrice,
			StartTime:    params.StartTime,
			EndTime:      params.EndTime,
			IsActive:     true,
			CreatedAt:    params.StartTime,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAuctionAlreadyActive
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Auction{}, err
	}
	return auctionToDomain(rec), nil
}

func (r *auctionRepository) GetByID(ctx context.Context, auctionID uuid.UUID) (domain.Auction, error) {
	var rec auctionModel
	if err := r.db.WithContext(ctx).Where("auction_id = ?", auctionID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Auction{}, domain.ErrNotFound
		}
		return domain.Auction{}, err
	}
	return auctionToDomain(rec), nil
}

func (r *auctionRepository) List(ctx context.Context, filter ports.AuctionFilter) ([]domain.Auction, error) {
	q := r.db.WithContext(ctx).Model(&auctionModel{})
	if filter.ActiveOnly {
		q = q.Where("is_active = TRUE AND end_time > NOW()")
	}
	if filter.NFTID != nil {
		q = q.Where("nft_id = ?", *filter.NFTID)
	}
	var rows []auctionModel
	if err := q.Order("created_at desc").Limit(filter.Limit).Offset(filter.Offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Auction, 0, len(rows))
	for _, row := range rows {
		out = append(out, auctionToDomain(row))
	}
	return out, nil
}

func (r *auctionRepository) FindOpenByNFT(ctx context.Context, nftID uuid.UUID, now time.Time) (*domain.Auction, error) {
	var rec auctionModel
	err := r.db.WithContext(ctx).
		Where("nft_id = ? AND is_active = TRUE AND end_time > ?", nftID, now).
		Order("created_at desc").Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	a := auctionToDomain(rec)
	return &a, nil
}

// PlaceBidTx locks the auction row, re-reads owner and highest bid, and
// re-runs the placement rules before inserting. Two near-simultaneous bids
// therefore serialize on the row lock and the loser gets the same rejection
// it would have gotten had it arrived second.
func (r *auctionRepository) PlaceBidTx(ctx context.Context, params ports.PlaceBidParams) (domain.Bid, error) {
	var bidRec bidModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var auctionRec auctionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("auction_id = ?", params.AuctionID).Take(&auctionRec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		auction := auctionToDomain(auctionRec)

		var ownerID *uuid.UUID
		var nftRec nftModel
		if err := tx.Where("nft_id = ?", auction.NFTID).Take(&nftRec).Error; err == nil {
			ownerID = nftRec.OwnerID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var highest *domain.Bid
		var topRec bidModel
		err := tx.Where("auction_id = ?", params.AuctionID).
			Order("amount desc").Order("created_at asc").Take(&topRec).Error
		if err == nil {
			top := bidToDomain(topRec)
			highest = &top
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := domain.ValidateBidPlacement(auction, ownerID, highest, params.BidderID, params.Amount, params.Now); err != nil {
			return err
		}

		bidRec = bidModel{
			AuctionID: params.AuctionID,
			NFTID:     auction.NFTID,
			BidderID:  params.BidderID,
			Amount:    params.Amount,
			CreatedAt: params.Now,
		}
		if err := tx.Create(&bidRec).Error; err != nil {
			return fmt.Errorf("insert bid: %w", err)
		}
		return tx.Model(&auctionModel{}).
			Where("auction_id = ?", params.AuctionID).
			Update("current_price", params.Amount).Error
	})
	if err != nil {
		return domain.Bid{}, err
	}
	return bidToDomain(bidRec), nil
}

func (r *auctionRepository) HighestBid(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	var rec bidModel
	err := r.db.WithContext(ctx).Where("auction_id = ?", auctionID).
		Order("amount desc").Order("created_at asc").Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	b := bidToDomain(rec)
	return &b, nil
}

func (r *auctionRepository) ListBids(ctx context.Context, auctionID uuid.UUID, limit int) ([]domain.Bid, error) {
	var rows []bidModel
	err := r.db.WithContext(ctx).Where("auction_id = ?", auctionID).
		Order("amount desc").Order("created_at asc").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Bid, 0, len(rows))
	for _, row := range rows {
		out = append(out, bidToDomain(row))
	}
	return out, nil
}
