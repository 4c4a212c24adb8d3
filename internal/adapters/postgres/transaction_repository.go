package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) Create(ctx context.Context, params ports.CreateTransactionParams) (domain.Transaction, error) {
	rec := transactionModel{
		UserID:    params.UserID,
		NFTID:     params.NFTID,
		Type:      string(params.Type),
		Amount:    params.Amount,
		CreatedAt: params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Transaction{}, err
	}
	return transactionToDomain(rec), nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	var rows []transactionModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at desc").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, transactionToDomain(row))
	}
	return out, nil
}

// SumByType aggregates in the database so the balance projection costs one
// round trip no matter how long the ledger grows.
func (r *transactionRepository) SumByType(ctx context.Context, userID uuid.UUID) (map[domain.TransactionType]decimal.Decimal, error) {
	type sumRow struct {
		Type  string          `gorm:"column:type"`
		Total decimal.Decimal `gorm:"column:total"`
	}
	var rows []sumRow
	err := r.db.WithContext(ctx).Model(&transactionModel{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID).
		Group("type").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.TransactionType]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[domain.TransactionType(row.Type)] = row.Total
	}
	return out, nil
}
