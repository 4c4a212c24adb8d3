package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type nftRepository struct {
	db *gorm.DB
}

func (r *nftRepository) GetByID(ctx context.Context, nftID uuid.UUID) (domain.NFT, error) {
	var rec nftModel
	if err := r.db.WithContext(ctx).Where("nft_id = ?", nftID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NFT{}, domain.ErrNotFound
		}
		return domain.NFT{}, err
	}
	return nftToDomain(rec), nil
}

func (r *nftRepository) List(ctx context.Context, filter ports.NFTFilter) ([]domain.NFT, error) {
	q := r.db.WithContext(ctx).Model(&nftModel{})
	if filter.ListedOnly {
		q = q.Where("is_listed = TRUE AND is_sold = FALSE")
	}
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.CollectionID != nil {
		q = q.Where("collection_id = ?", *filter.CollectionID)
	}
	var rows []nftModel
	if err := q.Order("created_at desc").Limit(filter.Limit).Offset(filter.Offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.NFT, 0, len(rows))
	for _, row := range rows {
		out = append(out, nftToDomain(row))
	}
	return out, nil
}

// MintWithDebitTx inserts the NFT and its MINT fee ledger row in one
// transaction. The caller has already verified the minter's balance; the
// ledger row here is what makes the debit real.
func (r *nftRepository) MintWithDebitTx(ctx context.Context, params ports.MintNFTParams, fee domain.Transaction) (domain.NFT, domain.Transaction, error) {
	var (
		nftRec nftModel
		feeRec transactionModel
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		nftRec = nftModel{
			CreatorID:    params.CreatorID,
			OwnerID:      &params.CreatorID,
			CollectionID: params.CollectionID,
			Name:         params.Name,
			Description:  params.Description,
			ImageURL:     params.ImageURL,
			Price:        params.Price,
			IsListed:     params.ListOnMint,
			IsSold:       false,
			CreatedAt:    params.CreatedAt,
			UpdatedAt:    params.CreatedAt,
		}
		if err := tx.Create(&nftRec).Error; err != nil {
			return fmt.Errorf("insert nft: %w", err)
		}
		feeRec = transactionToModel(fee)
		feeRec.NFTID = &nftRec.NFTID
		if err := tx.Create(&feeRec).Error; err != nil {
			return fmt.Errorf("insert mint fee: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.NFT{}, domain.Transaction{}, err
	}
	return nftToDomain(nftRec), transactionToDomain(feeRec), nil
}

// SettlePurchaseTx re-checks availability under FOR UPDATE so two buyers
// racing on the same token cannot both win. Ownership moves, the token is
// marked sold and delisted, and the SALE ledger row lands in the same unit.
func (r *nftRepository) SettlePurchaseTx(ctx context.Context, nftID, buyerID uuid.UUID, sale domain.Transaction) (domain.NFT, domain.Transaction, error) {
	var (
		nftRec  nftModel
		saleRec transactionModel
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("nft_id = ?", nftID).Take(&nftRec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if nftRec.IsSold || !nftRec.IsListed {
			return domain.ErrNFTUnavailable
		}
		if nftRec.OwnerID != nil && *nftRec.OwnerID == buyerID {
			return domain.ErrSelfPurchase
		}
		res := tx.Model(&nftModel{}).
			Where("nft_id = ? AND is_sold = FALSE AND is_listed = TRUE", nftID).
			Updates(map[string]any{
				"owner_id":   buyerID,
				"is_sold":    true,
				"is_listed":  false,
				"updated_at": sale.CreatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNFTUnavailable
		}
		saleRec = transactionToModel(sale)
		saleRec.NFTID = &nftID
		if err := tx.Create(&saleRec).Error; err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		nftRec.OwnerID = &buyerID
		nftRec.IsSold = true
		nftRec.IsListed = false
		nftRec.UpdatedAt = sale.CreatedAt
		return nil
	})
	if err != nil {
		return domain.NFT{}, domain.Transaction{}, err
	}
	return nftToDomain(nftRec), transactionToDomain(saleRec), nil
}

// SetListing only touches rows the caller owns. Relisting clears the sold
// flag so the token re-enters the market as a fresh sale.
func (r *nftRepository) SetListing(ctx context.Context, params ports.SetListingParams) (domain.NFT, error) {
	updates := map[string]any{
		"is_listed":  params.Listed,
		"updated_at": params.UpdatedAt,
	}
	if params.Listed {
		updates["is_sold"] = false
	}
	if params.Price != nil {
		updates["price"] = *params.Price
	}
	res := r.db.WithContext(ctx).Model(&nftModel{}).
		Where("nft_id = ? AND owner_id = ?", params.NFTID, params.OwnerID).
		Updates(updates)
	if res.Error != nil {
		return domain.NFT{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NFT{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.NFTID)
}
