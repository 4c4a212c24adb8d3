package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
	"gorm.io/gorm"
)

type stockRepository struct {
	db *gorm.DB
}

func (r *stockRepository) Create(ctx context.Context, params ports.CreateStockPurchaseParams) (domain.StockPurchase, error) {
	rec := stockPurchaseModel{
		UserID:            params.UserID,
		Symbol:            params.Symbol,
		AmountUSD:         params.AmountUSD,
		PurchasedAt:       params.PurchasedAt,
		LastProfitClaimAt: params.PurchasedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.StockPurchase{}, err
	}
	return stockPurchaseToDomain(rec), nil
}

func (r *stockRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.StockPurchase, error) {
	var rows []stockPurchaseModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("purchased_at asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.StockPurchase, 0, len(rows))
	for _, row := range rows {
		out = append(out, stockPurchaseToDomain(row))
	}
	return out, nil
}

// ClaimProfitTx advances the claim watermark on every contributing purchase
// and appends the aggregate DEPOSIT in one transaction, so a crash cannot
// credit profit without consuming the accrual window or vice versa. Each
// update requires the watermark the caller computed the accrual from: a
// concurrent claim that committed first leaves a newer timestamp behind,
// the predicate stops matching, and this claim rolls back as a conflict
// instead of crediting the same interval twice.
func (r *stockRepository) ClaimProfitTx(ctx context.Context, userID uuid.UUID, claims []ports.ProfitClaim, deposit domain.Transaction, claimedAt time.Time) (domain.Transaction, error) {
	var depositRec transactionModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, claim := range claims {
			res := tx.Model(&stockPurchaseModel{}).
				Where("user_id = ? AND purchase_id = ? AND last_profit_claim_at = ?",
					userID, claim.PurchaseID, claim.LastClaimedAt).
				Update("last_profit_claim_at", claimedAt)
			if res.Error != nil {
				return fmt.Errorf("advance claim watermark: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: stale profit claim", domain.ErrConflict)
			}
		}
		depositRec = transactionToModel(deposit)
		if err := tx.Create(&depositRec).Error; err != nil {
			return fmt.Errorf("insert profit deposit: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return transactionToDomain(depositRec), nil
}
