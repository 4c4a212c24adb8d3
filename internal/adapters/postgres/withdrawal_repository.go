package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type withdrawalRepository struct {
	db *gorm.DB
}

func (r *withdrawalRepository) Create(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, requestedAt time.Time) (domain.WithdrawalRequest, error) {
	rec := withdrawalRequestModel{
		UserID:      userID,
		Amount:      amount,
		Status:      string(domain.WithdrawalPending),
		RequestedAt: requestedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.WithdrawalRequest{}, err
	}
	return withdrawalToDomain(rec), nil
}

func (r *withdrawalRepository) GetByID(ctx context.Context, requestID uuid.UUID) (domain.WithdrawalRequest, error) {
	var rec withdrawalRequestModel
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WithdrawalRequest{}, domain.ErrNotFound
		}
		return domain.WithdrawalRequest{}, err
	}
	return withdrawalToDomain(rec), nil
}

func (r *withdrawalRepository) List(ctx context.Context, filter ports.WithdrawalFilter) ([]domain.WithdrawalRequest, error) {
	q := r.db.WithContext(ctx).Model(&withdrawalRequestModel{})
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	var rows []withdrawalRequestModel
	if err := q.Order("requested_at asc").Limit(filter.Limit).Offset(filter.Offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.WithdrawalRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, withdrawalToDomain(row))
	}
	return out, nil
}

// ApproveTx guards the status flip with a WHERE on PENDING; zero rows
// affected means another admin decided first and the whole unit rolls back
// without writing the ledger row.
func (r *withdrawalRepository) ApproveTx(ctx context.Context, requestID, adminID uuid.UUID, withdrawal domain.Transaction, decidedAt time.Time) (domain.WithdrawalRequest, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&withdrawalRequestModel{}).
			Where("request_id = ? AND status = ?", requestID, string(domain.WithdrawalPending)).
			Updates(map[string]any{
				"status":     string(domain.WithdrawalApproved),
				"decided_at": decidedAt,
				"decided_by": adminID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: request already decided", domain.ErrConflict)
		}
		rec := transactionToModel(withdrawal)
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("insert withdrawal: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.WithdrawalRequest{}, err
	}
	return r.GetByID(ctx, requestID)
}

func (r *withdrawalRepository) Deny(ctx context.Context, requestID, adminID uuid.UUID, decidedAt time.Time) (domain.WithdrawalRequest, error) {
	res := r.db.WithContext(ctx).Model(&withdrawalRequestModel{}).
		Where("request_id = ? AND status = ?", requestID, string(domain.WithdrawalPending)).
		Updates(map[string]any{
			"status":     string(domain.WithdrawalDenied),
			"decided_at": decidedAt,
			"decided_by": adminID,
		})
	if res.Error != nil {
		return domain.WithdrawalRequest{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.WithdrawalRequest{}, fmt.Errorf("%w: request already decided", domain.ErrConflict)
	}
	return r.GetByID(ctx, requestID)
}
