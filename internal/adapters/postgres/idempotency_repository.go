package postgres

import (
	"context"
	"time"

	"github.com/mintmesh/marketplace/internal/domain"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	db *gorm.DB
}

func (r *idempotencyRepository) Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error {
	now := time.Now().UTC()
	rec := idempotencyModel{
		IdempotencyKey: key,
		RequestHash:    requestHash,
		Status:         "reserved",
		ExpiresAt:      expiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return r.reclaimOrConflict(ctx, key, requestHash, expiresAt, now)
		}
		return err
	}
	return nil
}

// reclaimOrConflict lets an expired reservation be reused; a live one with a
// different request hash is a replay with altered parameters.
func (r *idempotencyRepository) reclaimOrConflict(ctx context.Context, key, requestHash string, expiresAt, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&idempotencyModel{}).
		Where("idempotency_key = ? AND expires_at <= ?", key, now).
		Updates(map[string]any{
			"request_hash":  requestHash,
			"status":        "reserved",
			"response_code": 0,
			"response_body": nil,
			"expires_at":    expiresAt,
			"updated_at":    now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrIdempotencyConflict
	}
	return nil
}

func (r *idempotencyRepository) Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error {
	body := string(responseBody)
	return r.db.WithContext(ctx).Model(&idempotencyModel{}).
		Where("idempotency_key = ?", key).
		Updates(map[string]any{
			"status":        "completed",
			"response_code": responseCode,
			"response_body": body,
			"updated_at":    at,
		}).Error
}
